package sqlite

import (
	"fmt"
	"os"

	"github.com/repotrading/navigator/internal/trades"
	"github.com/repotrading/navigator/pkg/types"
	"github.com/repotrading/navigator/pkg/views"
)

// Import reads contracts from a JSONL file outside the data directory and
// writes them in one batch. Lines that are not JSON objects are skipped;
// contracts without an id are assigned one. Returns the ids written and the
// number of skipped lines.
func (b *Backend) Import(path string) (ids []string, skipped int, err error) {
	lines, err := readJSONL(path)
	if err != nil {
		return nil, 0, fmt.Errorf("import contracts: %w", err)
	}

	records := make([]types.Record, 0, len(lines))
	for _, line := range lines {
		r, err := types.NewRecord(line)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, r)
	}
	if len(records) == 0 {
		return nil, skipped, nil
	}

	ids, err = b.PutAll(records)
	if err != nil {
		return nil, skipped, fmt.Errorf("import contracts: %w", err)
	}
	b.logger.Debug("contracts imported", "path", path, "count", len(ids), "skipped", skipped)
	return ids, skipped, nil
}

// ImportTrades reads a trade CSV file and writes one Main.Trade contract per
// row in the variant's encoding. A non-empty lender keeps only that party's
// bookings. Rows that fail to parse are skipped and counted.
func (b *Backend) ImportTrades(path string, v views.Variant, lender string) (ids []string, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("import trades: %w", err)
	}
	defer f.Close()

	booked, skipped, err := trades.Read(f)
	if err != nil {
		return nil, 0, fmt.Errorf("import trades: %w", err)
	}
	booked = trades.ForLender(booked, lender)

	records := make([]types.Record, 0, len(booked))
	for _, t := range booked {
		r, err := t.Record(v)
		if err != nil {
			return nil, skipped, fmt.Errorf("import trades: %w", err)
		}
		records = append(records, r)
	}
	if len(records) == 0 {
		return nil, skipped, nil
	}

	ids, err = b.PutAll(records)
	if err != nil {
		return nil, skipped, fmt.Errorf("import trades: %w", err)
	}
	b.logger.Debug("trades imported", "path", path, "schema", v.Version.String(), "count", len(ids), "skipped", skipped)
	return ids, skipped, nil
}

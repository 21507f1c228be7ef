package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/repotrading/navigator/pkg/types"
)

// loadJSONL reads the contracts file at path and inserts every valid
// contract in file order. Loading is transactional: all rows commit or the
// table stays empty. Lines that are not JSON objects, or that carry no id,
// are skipped; a later line with the same id replaces the earlier one.
// Returns the number of lines loaded and skipped.
func loadJSONL(db *sql.DB, path string) (loaded, skipped int, err error) {
	lines, err := readJSONL(path)
	if err != nil {
		return 0, 0, err
	}
	if len(lines) == 0 {
		return 0, 0, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsertContract)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing contract insert: %w", err)
	}
	defer stmt.Close()

	for _, line := range lines {
		r, err := types.NewRecord(line)
		if err != nil || r.ID() == "" {
			skipped++
			continue
		}
		if err := execUpsert(stmt, r); err != nil {
			return 0, 0, fmt.Errorf("loading contract %s: %w", r.ID(), err)
		}
		loaded++
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("committing load transaction: %w", err)
	}
	return loaded, skipped, nil
}

// execUpsert writes one contract through a prepared upsertContract
// statement.
func execUpsert(stmt *sql.Stmt, r types.Record) error {
	archived := 0
	if r.Archived() {
		archived = 1
	}
	_, err := stmt.Exec(r.ID(), r.TemplateID(), archived, string(r.Bytes()))
	return err
}

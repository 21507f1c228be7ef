// Package trades reads repo trade bookings from a header-row CSV file and
// turns each row into a Main.Trade contract.
//
// The file names its columns in the first row:
//
//	lender,borrower,tradeId,cusip,tradeDate,settlementDate,collateralQuantity,price,repoRate,term,startAmount,endAmount,currency
//
// Column order is free and extra columns are ignored.
package trades

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/repotrading/navigator/internal/damlvalue"
	"github.com/repotrading/navigator/pkg/types"
	"github.com/repotrading/navigator/pkg/views"
	"github.com/tidwall/sjson"
)

// Sentinel errors.
var (
	ErrMissingColumn = errors.New("trade file is missing a column")
	ErrInvalidRow    = errors.New("invalid trade row")
)

// CSV column names.
const (
	ColLender             = "lender"
	ColBorrower           = "borrower"
	ColTradeID            = "tradeId"
	ColCusip              = "cusip"
	ColTradeDate          = "tradeDate"
	ColSettlementDate     = "settlementDate"
	ColCollateralQuantity = "collateralQuantity"
	ColPrice              = "price"
	ColRepoRate           = "repoRate"
	ColTerm               = "term"
	ColStartAmount        = "startAmount"
	ColEndAmount          = "endAmount"
	ColCurrency           = "currency"
)

// Columns lists every column a trade file must carry.
var Columns = []string{
	ColLender, ColBorrower, ColTradeID, ColCusip, ColTradeDate, ColSettlementDate,
	ColCollateralQuantity, ColPrice, ColRepoRate, ColTerm, ColStartAmount,
	ColEndAmount, ColCurrency,
}

const dateLayout = "2006-01-02"

// Trade is one booked repo trade. The lender buys the collateral, the
// borrower sells it.
type Trade struct {
	Lender             string
	Borrower           string
	TradeID            int64
	Cusip              string
	TradeDate          time.Time
	SettlementDate     time.Time
	CollateralQuantity string
	Price              string
	RepoRate           string
	Term               int64
	StartAmount        string
	EndAmount          string
	Currency           string
}

// Read parses a trade file. Rows that fail to parse are skipped and
// counted; a header without one of the required columns fails the read.
func Read(r io.Reader) (trades []Trade, skipped int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, 0, err
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			skipped++
			continue
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("read trades: %w", err)
		}
		t, err := parseRow(row, index)
		if err != nil {
			skipped++
			continue
		}
		trades = append(trades, t)
	}
	return trades, skipped, nil
}

// ForLender keeps the trades booked by lender. An empty lender keeps all.
func ForLender(trades []Trade, lender string) []Trade {
	if lender == "" {
		return trades
	}
	var out []Trade
	for _, t := range trades {
		if t.Lender == lender {
			out = append(out, t)
		}
	}
	return out
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return index, nil
}

// rowReader pulls typed fields out of one row and keeps the first error.
type rowReader struct {
	row   []string
	index map[string]int
	err   error
}

func (rr *rowReader) text(col string) string {
	i := rr.index[col]
	if i >= len(rr.row) {
		rr.fail(col, "missing value")
		return ""
	}
	v := strings.TrimSpace(rr.row[i])
	if v == "" {
		rr.fail(col, "empty value")
	}
	return v
}

func (rr *rowReader) integer(col string) int64 {
	s := rr.text(col)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil && rr.err == nil {
		rr.fail(col, "not an integer")
	}
	return n
}

func (rr *rowReader) decimal(col string) string {
	s := rr.text(col)
	if _, err := strconv.ParseFloat(s, 64); err != nil && rr.err == nil {
		rr.fail(col, "not a decimal")
	}
	return s
}

func (rr *rowReader) date(col string) time.Time {
	s := rr.text(col)
	d, err := time.Parse(dateLayout, s)
	if err != nil && rr.err == nil {
		rr.fail(col, "not a date")
	}
	return d
}

func (rr *rowReader) fail(col, reason string) {
	if rr.err == nil {
		rr.err = fmt.Errorf("%w: %s: %s", ErrInvalidRow, col, reason)
	}
}

func parseRow(row []string, index map[string]int) (Trade, error) {
	rr := &rowReader{row: row, index: index}
	t := Trade{
		Lender:             rr.text(ColLender),
		Borrower:           rr.text(ColBorrower),
		TradeID:            rr.integer(ColTradeID),
		Cusip:              rr.text(ColCusip),
		TradeDate:          rr.date(ColTradeDate),
		SettlementDate:     rr.date(ColSettlementDate),
		CollateralQuantity: rr.decimal(ColCollateralQuantity),
		Price:              rr.decimal(ColPrice),
		RepoRate:           rr.decimal(ColRepoRate),
		Term:               rr.integer(ColTerm),
		StartAmount:        rr.decimal(ColStartAmount),
		EndAmount:          rr.decimal(ColEndAmount),
		Currency:           rr.text(ColCurrency),
	}
	return t, rr.err
}

// Argument encodes the trade as the Daml-LF record a Main.Trade contract
// carries. Dates are instants at the start of the day in UTC.
func (t Trade) Argument() damlvalue.Value {
	f := func(label string, v damlvalue.Value) damlvalue.Field {
		return damlvalue.Field{Label: label, Value: v}
	}
	info := damlvalue.Record(
		f(ColTradeID, damlvalue.Int64(t.TradeID)),
		f(ColCusip, damlvalue.Text(t.Cusip)),
		f(ColSettlementDate, damlvalue.Timestamp(t.SettlementDate)),
		f(ColTradeDate, damlvalue.Timestamp(t.TradeDate)),
		f(ColCollateralQuantity, damlvalue.Decimal(t.CollateralQuantity)),
		f(ColPrice, damlvalue.Decimal(t.Price)),
		f(ColRepoRate, damlvalue.Decimal(t.RepoRate)),
		f(ColTerm, damlvalue.Int64(t.Term)),
		f(ColStartAmount, damlvalue.Decimal(t.StartAmount)),
		f(ColEndAmount, damlvalue.Decimal(t.EndAmount)),
		f(ColCurrency, damlvalue.Text(t.Currency)),
	)
	return damlvalue.Record(
		f("buyer", damlvalue.Party(t.Lender)),
		f("seller", damlvalue.Party(t.Borrower)),
		f("tradeInfo", info),
	)
}

// Record builds the contract for the variant: a template id in its
// notation and an argument that is Daml-LF encoded or plain JSON to match.
// The record has no id; the store assigns one.
func (t Trade) Record(v views.Variant) (types.Record, error) {
	arg := t.Argument().Bytes()
	if !v.EncodedArguments {
		plain, err := damlvalue.Decode(arg)
		if err != nil {
			return types.Record{}, fmt.Errorf("encode trade %d: %w", t.TradeID, err)
		}
		arg = plain
	}

	doc, err := sjson.SetBytes([]byte(`{}`), types.FieldTemplateID, v.Template("Main.Trade", "Trade"))
	if err != nil {
		return types.Record{}, fmt.Errorf("encode trade %d: %w", t.TradeID, err)
	}
	doc, err = sjson.SetRawBytes(doc, types.FieldArgument, arg)
	if err != nil {
		return types.Record{}, fmt.Errorf("encode trade %d: %w", t.TradeID, err)
	}
	return types.NewRecord(doc)
}

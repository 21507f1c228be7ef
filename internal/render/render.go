// Package render evaluates a view's columns against fetched contracts and
// lays the result out as a text table or JSON.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/width"

	"github.com/repotrading/navigator/pkg/types"
)

// columnGap separates adjacent columns in text output.
const columnGap = "  "

// Column is the header metadata of one rendered column.
type Column struct {
	Key       string          `json:"key"`
	Title     string          `json:"title"`
	Width     int             `json:"width"`
	Weight    float64         `json:"weight"`
	Alignment types.Alignment `json:"alignment"`
	Sortable  bool            `json:"sortable"`
}

// Row is one contract's cells, in column order.
type Row struct {
	ID    string       `json:"id"`
	Cells []types.Cell `json:"cells"`
}

// Table is a fully evaluated view.
type Table struct {
	View    string   `json:"view"`
	Title   string   `json:"title"`
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Build evaluates every column projection against every record. A cell whose
// projection finds nothing is absent; it never affects the rest of the row.
func Build(key string, def types.ViewDefinition, records []types.Record) Table {
	t := Table{
		View:    key,
		Title:   def.Title,
		Columns: make([]Column, len(def.Columns)),
		Rows:    make([]Row, 0, len(records)),
	}
	for i, c := range def.Columns {
		t.Columns[i] = Column{
			Key:       c.Key,
			Title:     c.Title,
			Width:     c.Width,
			Weight:    c.Weight,
			Alignment: c.Alignment,
			Sortable:  c.Sortable,
		}
	}
	for _, r := range records {
		row := Row{ID: r.ID(), Cells: make([]types.Cell, len(def.Columns))}
		for i, c := range def.Columns {
			row.Cells[i] = c.CreateCell(r)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// WriteText writes the table with a header, a rule and one line per row.
// Each column is as wide as its widest cell or title and aligned as the
// column asks.
func (t Table) WriteText(w io.Writer) error {
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = DisplayWidth(c.Title)
	}
	for _, row := range t.Rows {
		for i, cell := range row.Cells {
			if n := DisplayWidth(cell.Value.String()); n > widths[i] {
				widths[i] = n
			}
		}
	}

	bw := bufio.NewWriter(w)
	header := make([]string, len(t.Columns))
	rule := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = pad(c.Title, widths[i], c.Alignment)
		rule[i] = strings.Repeat("-", widths[i])
	}
	writeLine(bw, header)
	writeLine(bw, rule)

	line := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, cell := range row.Cells {
			line[i] = pad(cell.Value.String(), widths[i], t.Columns[i].Alignment)
		}
		writeLine(bw, line)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}

func writeLine(w *bufio.Writer, cells []string) {
	w.WriteString(strings.TrimRight(strings.Join(cells, columnGap), " "))
	w.WriteByte('\n')
}

// DisplayWidth counts terminal columns: wide and fullwidth East Asian
// characters take two, everything else one.
func DisplayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

func pad(s string, target int, align types.Alignment) string {
	gap := target - DisplayWidth(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case types.AlignRight:
		return strings.Repeat(" ", gap) + s
	case types.AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}

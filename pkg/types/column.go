package types

import "fmt"

// Alignment positions a cell's text within its column.
type Alignment string

// Column alignments.
const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// CellTypeText is the only cell type column projections produce.
const CellTypeText = "text"

// Projection maps one Record to one cell's display value. Projections are
// pure: the same record always yields the same value, and a missing field
// yields Absent rather than an error.
type Projection func(Record) Value

// ArgumentDecoder turns a record's raw argument into plain structured JSON.
type ArgumentDecoder func(raw []byte) ([]byte, error)

// IdentityDecoder returns the argument unchanged, for configurations whose
// arguments are already plain JSON.
func IdentityDecoder(raw []byte) ([]byte, error) {
	return raw, nil
}

// ColumnDefinition describes one column of a table view.
type ColumnDefinition struct {
	Key        string     `json:"key"`
	Title      string     `json:"title"`
	Projection Projection `json:"-"`
	Width      int        `json:"width"`
	Weight     float64    `json:"weight"`
	Alignment  Alignment  `json:"alignment"`
	Sortable   bool       `json:"sortable"`
}

// ColumnOption overrides a column default.
type ColumnOption func(*ColumnDefinition)

// WithAlignment sets the column alignment.
func WithAlignment(a Alignment) ColumnOption {
	return func(c *ColumnDefinition) { c.Alignment = a }
}

// WithWeight sets the flexible sizing weight.
func WithWeight(w float64) ColumnOption {
	return func(c *ColumnDefinition) { c.Weight = w }
}

// Unsortable disables sorting on the column.
func Unsortable() ColumnOption {
	return func(c *ColumnDefinition) { c.Sortable = false }
}

// NewColumn builds a column with left alignment, zero weight and sorting
// enabled unless opts say otherwise.
func NewColumn(key, title string, projection Projection, width int, opts ...ColumnOption) ColumnDefinition {
	c := ColumnDefinition{
		Key:        key,
		Title:      title,
		Projection: projection,
		Width:      width,
		Weight:     0,
		Alignment:  AlignLeft,
		Sortable:   true,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Validate checks the column's own fields.
func (c ColumnDefinition) Validate() error {
	switch {
	case c.Key == "":
		return ErrEmptyColumnKey
	case c.Projection == nil:
		return fmt.Errorf("%w: %q", ErrMissingProjection, c.Key)
	case c.Width <= 0:
		return fmt.Errorf("%w: %q has width %d", ErrInvalidWidth, c.Key, c.Width)
	case c.Weight < 0:
		return fmt.Errorf("%w: %q has weight %g", ErrInvalidWeight, c.Key, c.Weight)
	}
	switch c.Alignment {
	case AlignLeft, AlignCenter, AlignRight:
		return nil
	default:
		return fmt.Errorf("%w: %q on %q", ErrInvalidAlignment, c.Alignment, c.Key)
	}
}

// Cell is one rendered table cell.
type Cell struct {
	Type  string `json:"type"`
	Value Value  `json:"value"`
}

// CreateCell evaluates the column projection against r. A column without a
// projection, or a projection that panics on unexpected data, yields an
// absent cell so the rest of the row still renders.
func (c ColumnDefinition) CreateCell(r Record) (cell Cell) {
	cell = Cell{Type: CellTypeText, Value: Absent}
	if c.Projection == nil {
		return cell
	}
	defer func() {
		if recover() != nil {
			cell.Value = Absent
		}
	}()
	cell.Value = c.Projection(r)
	return cell
}

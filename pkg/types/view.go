package types

import (
	"errors"
	"fmt"
	"slices"
)

// Fixed type tags.
const (
	ViewTypeTable       = "table-view"
	SourceTypeContracts = "contracts"
)

// Direction orders one sort key.
type Direction string

// Sort directions.
const (
	Ascending  Direction = "ASCENDING"
	Descending Direction = "DESCENDING"
)

// ViewSet maps view keys to view definitions. It is built fresh on every
// registry call and never mutated afterwards.
type ViewSet map[string]ViewDefinition

// ViewDefinition describes one table view: which records to show and how to
// turn each record into a row.
type ViewDefinition struct {
	Type            string             `json:"type"`
	Title           string             `json:"title"`
	IncludeArchived bool               `json:"includeArchived,omitempty"`
	Source          SourceQuery        `json:"source"`
	Columns         []ColumnDefinition `json:"columns"`
}

// SourceQuery selects and orders the records of a view. Filter predicates
// are AND-combined; an empty Search means no text filter; Sort keys apply as
// a stable multi-key sort, first key highest priority.
type SourceQuery struct {
	Type   string            `json:"type"`
	Filter []FilterPredicate `json:"filter"`
	Search string            `json:"search"`
	Sort   []SortKey         `json:"sort"`
}

// FilterPredicate matches records whose Field resolves to Value.
type FilterPredicate struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// SortKey orders records by the value at Field.
type SortKey struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Keys returns the view keys in sorted order.
func (vs ViewSet) Keys() []string {
	keys := make([]string, 0, len(vs))
	for k := range vs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Get returns the named view or ErrViewNotFound.
func (vs ViewSet) Get(key string) (ViewDefinition, error) {
	def, ok := vs[key]
	if !ok {
		return ViewDefinition{}, fmt.Errorf("%w: %q", ErrViewNotFound, key)
	}
	return def, nil
}

// Validate checks every view in the set and joins all violations.
func (vs ViewSet) Validate() error {
	var errs []error
	for _, key := range vs.Keys() {
		if err := vs[key].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("view %q: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// Validate checks the type tags, the sort directions and every column.
// Column keys must be unique within the view.
func (d ViewDefinition) Validate() error {
	var errs []error
	if d.Type != ViewTypeTable {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidViewType, d.Type))
	}
	if d.Source.Type != SourceTypeContracts {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidSourceType, d.Source.Type))
	}
	for _, s := range d.Source.Sort {
		if s.Direction != Ascending && s.Direction != Descending {
			errs = append(errs, fmt.Errorf("%w: %q on %q", ErrInvalidDirection, s.Direction, s.Field))
		}
	}
	seen := make(map[string]bool, len(d.Columns))
	for _, c := range d.Columns {
		if seen[c.Key] {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Key))
		}
		seen[c.Key] = true
		if err := c.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Column returns the column with the given key.
func (d ViewDefinition) Column(key string) (ColumnDefinition, bool) {
	for _, c := range d.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return ColumnDefinition{}, false
}

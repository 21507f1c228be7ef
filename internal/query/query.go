// Package query evaluates a view's source query against a slice of
// contracts: archived filtering, field predicates, free-text search and a
// stable multi-key sort.
package query

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/repotrading/navigator/pkg/types"
)

// candidate pairs a contract with the decoded form that paths resolve
// against.
type candidate struct {
	original types.Record
	resolved types.Record
}

// Evaluate returns the records selected by def.Source in sort order.
// Archived contracts are dropped unless def.IncludeArchived is set. Each
// argument is passed through decode before filter, search and sort paths
// are resolved; a decode failure leaves the raw argument in place. The
// returned records are the inputs, not their decoded forms.
func Evaluate(records []types.Record, def types.ViewDefinition, decode types.ArgumentDecoder) []types.Record {
	if decode == nil {
		decode = types.IdentityDecoder
	}
	search := strings.ToLower(def.Source.Search)

	var selected []candidate
	for _, r := range records {
		if r.Archived() && !def.IncludeArchived {
			continue
		}
		c := candidate{original: r, resolved: resolve(r, decode)}
		if !Matches(c.resolved, def.Source.Filter) {
			continue
		}
		if search != "" && !matchesSearch(c.resolved, search) {
			continue
		}
		selected = append(selected, c)
	}

	slices.SortStableFunc(selected, func(a, b candidate) int {
		return Compare(a.resolved, b.resolved, def.Source.Sort)
	})

	out := make([]types.Record, len(selected))
	for i, c := range selected {
		out[i] = c.original
	}
	return out
}

func resolve(r types.Record, decode types.ArgumentDecoder) types.Record {
	raw := r.Argument()
	if raw == nil {
		return r
	}
	plain, err := decode(raw)
	if err != nil {
		return r
	}
	return r.WithArgument(plain)
}

// Matches reports whether r satisfies every predicate. A predicate holds
// when its field resolves and the field's text contains the expected
// value; an empty expected value therefore only requires the field to be
// present. A field that resolves to nothing never matches.
func Matches(r types.Record, filter []types.FilterPredicate) bool {
	for _, p := range filter {
		v := r.Lookup(p.Field)
		if !v.Present() {
			return false
		}
		if !strings.Contains(v.String(), p.Value) {
			return false
		}
	}
	return true
}

// matchesSearch looks for the lower-cased needle in the contract id, the
// template id and the argument text.
func matchesSearch(r types.Record, needle string) bool {
	for _, hay := range []string{r.ID(), r.TemplateID(), string(r.Argument())} {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}

// Compare orders two records by the sort keys, first key highest priority.
// Values fall into three classes ordered absent, numeric, text: numbers
// and numeric strings compare numerically, text compares lexically, and a
// numeric value always sorts before a text one. Descending keys invert the
// result.
func Compare(a, b types.Record, keys []types.SortKey) int {
	for _, k := range keys {
		c := compareValues(a.Lookup(k.Field), b.Lookup(k.Field))
		if k.Direction == types.Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

// Sort classes, in ascending order.
const (
	classAbsent = iota
	classNumeric
	classText
)

// sortKey is a value reduced to its sort class and comparable form.
type sortKey struct {
	class int
	num   float64
	text  string
}

func keyOf(v types.Value) sortKey {
	if !v.Present() {
		return sortKey{class: classAbsent}
	}
	s := v.String()
	if f, ok := number(v, s); ok {
		return sortKey{class: classNumeric, num: f}
	}
	return sortKey{class: classText, text: s}
}

func compareValues(a, b types.Value) int {
	ka, kb := keyOf(a), keyOf(b)
	if c := cmp.Compare(ka.class, kb.class); c != 0 {
		return c
	}
	switch ka.class {
	case classNumeric:
		return cmp.Compare(ka.num, kb.num)
	case classText:
		return strings.Compare(ka.text, kb.text)
	default:
		return 0
	}
}

func number(v types.Value, s string) (float64, bool) {
	if v.IsNumber() {
		return v.Float(), true
	}
	if !v.IsString() {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

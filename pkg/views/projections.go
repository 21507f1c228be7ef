package views

import (
	"github.com/repotrading/navigator/pkg/types"
)

// dateLength is the length of the date part of an ISO-8601 timestamp.
const dateLength = 10

// Substring returns the characters of s in [start, end) with JavaScript
// substring semantics: negative bounds clamp to 0, bounds past the end
// clamp to the length, and start > end swaps the two. Indices count runes.
func Substring(s string, start, end int) string {
	r := []rune(s)
	start = clamp(start, 0, len(r))
	end = clamp(end, 0, len(r))
	if start > end {
		start, end = end, start
	}
	return string(r[start:end])
}

// LastIndex returns the rune index of the last occurrence of c in s, or -1.
func LastIndex(s string, c rune) int {
	r := []rune(s)
	for i := len(r) - 1; i >= 0; i-- {
		if r[i] == c {
			return i
		}
	}
	return -1
}

// CharAt returns the rune at index i as a string, or "" when out of range.
func CharAt(s string, i int) string {
	r := []rune(s)
	if i < 0 || i >= len(r) {
		return ""
	}
	return string(r[i])
}

// FormatTime truncates an ISO-8601 timestamp to its date part.
func FormatTime(timestamp string) string {
	return Substring(timestamp, 0, dateLength)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ContractID projects the contract id.
func ContractID(r types.Record) types.Value {
	return r.Lookup(types.FieldID)
}

// TemplateID projects the full template id.
func TemplateID(r types.Record) types.Value {
	return r.Lookup(types.FieldTemplateID)
}

// TemplateLabel classifies an asset template id into a short label. Ids
// whose character at index 5 is 'C' (Main.Cash, Main.CCP) yield [5,9);
// all others yield [5,13).
func TemplateLabel(r types.Record) types.Value {
	v := TemplateID(r)
	if !v.IsString() {
		return types.Absent
	}
	id := v.String()
	if CharAt(id, 5) == "C" {
		return types.StringValue(Substring(id, 5, 9))
	}
	return types.StringValue(Substring(id, 5, 13))
}

// TemplateName projects the template id from index 9 up to its last '@'.
func TemplateName(r types.Record) types.Value {
	v := TemplateID(r)
	if !v.IsString() {
		return types.Absent
	}
	id := v.String()
	return types.StringValue(Substring(id, 9, LastIndex(id, '@')))
}

// Argument projects the value at path inside the decoded contract
// argument. A missing argument, a decode failure or an unresolved path
// yields Absent.
func Argument(decode types.ArgumentDecoder, path string) types.Projection {
	return func(r types.Record) types.Value {
		raw := r.Argument()
		if raw == nil {
			return types.Absent
		}
		plain, err := decode(raw)
		if err != nil {
			return types.Absent
		}
		return types.LookupJSON(plain, path)
	}
}

// FirstTruthy projects a when it is truthy and b otherwise.
func FirstTruthy(a, b types.Projection) types.Projection {
	return func(r types.Record) types.Value {
		return a(r).Or(b(r))
	}
}

// DatePart projects the date part of a timestamp string. Non-string values
// yield Absent.
func DatePart(p types.Projection) types.Projection {
	return func(r types.Record) types.Value {
		v := p(r)
		if !v.IsString() {
			return types.Absent
		}
		return types.StringValue(FormatTime(v.String()))
	}
}

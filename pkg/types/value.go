package types

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Value is the result of resolving a field path against a Record, or of a
// column projection. A Value is either present (carrying any JSON value,
// including null) or absent. Absent values render as empty cells.
type Value struct {
	res gjson.Result
}

// Absent is the zero Value.
var Absent = Value{}

// StringValue returns a present string Value.
func StringValue(s string) Value {
	raw, _ := json.Marshal(s)
	return Value{res: gjson.Result{Type: gjson.String, Str: s, Raw: string(raw)}}
}

// ParseValue returns a present Value holding the given JSON text, or Absent
// when raw is not valid JSON.
func ParseValue(raw []byte) Value {
	if !gjson.ValidBytes(raw) {
		return Absent
	}
	return Value{res: gjson.ParseBytes(raw)}
}

// LookupJSON resolves a dotted or indexed path inside an arbitrary JSON
// document. An empty path yields the whole document.
func LookupJSON(doc []byte, path string) Value {
	if path == "" {
		return ParseValue(doc)
	}
	if len(doc) == 0 {
		return Absent
	}
	return Value{res: gjson.GetBytes(doc, path)}
}

// Present reports whether the value exists. A JSON null is present.
func (v Value) Present() bool {
	return v.res.Exists()
}

// Truthy follows JavaScript truthiness: absent, null, false, 0 and the
// empty string are falsy; everything else, including empty objects and
// arrays, is truthy.
func (v Value) Truthy() bool {
	if !v.Present() {
		return false
	}
	switch v.res.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return v.res.Num != 0
	case gjson.String:
		return v.res.Str != ""
	default:
		return true
	}
}

// Or returns v when it is truthy and other otherwise.
func (v Value) Or(other Value) Value {
	if v.Truthy() {
		return v
	}
	return other
}

// String returns the display text of the value. Strings render unquoted,
// numbers and booleans as their JSON text, objects and arrays as raw JSON,
// and null or absent values as "".
func (v Value) String() string {
	return v.res.String()
}

// IsString reports whether the value is a JSON string.
func (v Value) IsString() bool {
	return v.res.Type == gjson.String
}

// IsNumber reports whether the value is a JSON number.
func (v Value) IsNumber() bool {
	return v.res.Type == gjson.Number
}

// Float returns the numeric value for numbers and numeric strings.
func (v Value) Float() float64 {
	return v.res.Float()
}

// Raw returns the JSON text of a present value, or nil.
func (v Value) Raw() []byte {
	if !v.Present() {
		return nil
	}
	if v.res.Raw != "" {
		return []byte(v.res.Raw)
	}
	raw, _ := json.Marshal(v.res.Value())
	return raw
}

// MarshalJSON encodes absent values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Present() {
		return []byte("null"), nil
	}
	return v.Raw(), nil
}

// UnmarshalJSON decodes any JSON value. A null decodes as a present null.
func (v *Value) UnmarshalJSON(data []byte) error {
	*v = ParseValue(data)
	return nil
}

// Package damlvalue decodes Daml-LF JSON-encoded values into plain JSON.
//
// Version 2 navigator configurations receive contract arguments in the
// self-describing encoding used by the ledger:
//
//	{"type":"record","fields":[{"label":"owner","value":{"type":"party","value":"Alice"}}]}
//
// Decode flattens that into the shape the columns address by field path:
//
//	{"owner":"Alice"}
package damlvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrMalformedValue is returned for input that is not a Daml-LF JSON value.
var ErrMalformedValue = errors.New("malformed Daml-LF value")

// Daml-LF value type tags.
const (
	TypeText       = "text"
	TypeParty      = "party"
	TypeContractID = "contractid"
	TypeInt64      = "int64"
	TypeDecimal    = "decimal"
	TypeNumeric    = "numeric"
	TypeDate       = "date"
	TypeTimestamp  = "timestamp"
	TypeBool       = "bool"
	TypeUnit       = "unit"
	TypeOptional   = "optional"
	TypeList       = "list"
	TypeTextMap    = "textmap"
	TypeGenMap     = "genmap"
	TypeRecord     = "record"
	TypeVariant    = "variant"
	TypeEnum       = "enum"
	TypeUndefined  = "undefined"
)

// maxDecodeDepth bounds recursion on hostile input.
const maxDecodeDepth = 256

// Decode converts one encoded value to plain JSON. Records become objects
// keyed by field label, lists become arrays, an optional becomes its inner
// value or null, a variant becomes {constructor: value}, an enum becomes its
// constructor name, a text map becomes an object, a generic map becomes an
// array of {"key","value"} pairs, and unit becomes {}. Scalars keep their
// encoded JSON value.
func Decode(raw []byte) ([]byte, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedValue)
	}
	var buf bytes.Buffer
	if err := decodeValue(&buf, gjson.ParseBytes(raw), 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeValue(buf *bytes.Buffer, v gjson.Result, depth int) error {
	if depth > maxDecodeDepth {
		return fmt.Errorf("%w: nesting deeper than %d", ErrMalformedValue, maxDecodeDepth)
	}
	if !v.IsObject() {
		return fmt.Errorf("%w: expected object, got %s", ErrMalformedValue, v.Type)
	}
	typ := v.Get("type")
	if typ.Type != gjson.String {
		return fmt.Errorf("%w: missing type tag", ErrMalformedValue)
	}

	switch typ.Str {
	case TypeText, TypeParty, TypeContractID, TypeInt64, TypeDecimal, TypeNumeric,
		TypeDate, TypeTimestamp, TypeBool:
		return writeScalar(buf, typ.Str, v.Get("value"))
	case TypeUnit:
		buf.WriteString("{}")
		return nil
	case TypeUndefined:
		buf.WriteString("null")
		return nil
	case TypeOptional:
		inner := v.Get("value")
		if !inner.Exists() || inner.Type == gjson.Null {
			buf.WriteString("null")
			return nil
		}
		return decodeValue(buf, inner, depth+1)
	case TypeList:
		return decodeList(buf, v.Get("value"), depth)
	case TypeRecord:
		return decodeRecord(buf, v.Get("fields"), depth)
	case TypeVariant:
		return decodeVariant(buf, v, depth)
	case TypeEnum:
		ctor := v.Get("constructor")
		if ctor.Type != gjson.String {
			return fmt.Errorf("%w: enum without constructor", ErrMalformedValue)
		}
		writeString(buf, ctor.Str)
		return nil
	case TypeTextMap:
		return decodeTextMap(buf, v.Get("value"), depth)
	case TypeGenMap:
		return decodeGenMap(buf, v.Get("value"), depth)
	default:
		return fmt.Errorf("%w: unknown type %q", ErrMalformedValue, typ.Str)
	}
}

func writeScalar(buf *bytes.Buffer, typ string, value gjson.Result) error {
	switch value.Type {
	case gjson.String, gjson.Number:
		buf.WriteString(value.Raw)
		return nil
	case gjson.True, gjson.False:
		if typ != TypeBool {
			return fmt.Errorf("%w: %s carries a boolean", ErrMalformedValue, typ)
		}
		buf.WriteString(value.Raw)
		return nil
	default:
		return fmt.Errorf("%w: %s without scalar value", ErrMalformedValue, typ)
	}
}

func decodeList(buf *bytes.Buffer, items gjson.Result, depth int) error {
	if !items.IsArray() {
		return fmt.Errorf("%w: list value is not an array", ErrMalformedValue)
	}
	buf.WriteByte('[')
	var err error
	i := 0
	items.ForEach(func(_, item gjson.Result) bool {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		err = decodeValue(buf, item, depth+1)
		return err == nil
	})
	if err != nil {
		return err
	}
	buf.WriteByte(']')
	return nil
}

func decodeRecord(buf *bytes.Buffer, fields gjson.Result, depth int) error {
	if !fields.IsArray() {
		return fmt.Errorf("%w: record fields are not an array", ErrMalformedValue)
	}
	buf.WriteByte('{')
	var err error
	i := 0
	fields.ForEach(func(_, field gjson.Result) bool {
		label := field.Get("label")
		if label.Type != gjson.String {
			err = fmt.Errorf("%w: record field without label", ErrMalformedValue)
			return false
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		writeString(buf, label.Str)
		buf.WriteByte(':')
		err = decodeValue(buf, field.Get("value"), depth+1)
		return err == nil
	})
	if err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}

func decodeVariant(buf *bytes.Buffer, v gjson.Result, depth int) error {
	ctor := v.Get("constructor")
	if ctor.Type != gjson.String {
		return fmt.Errorf("%w: variant without constructor", ErrMalformedValue)
	}
	buf.WriteByte('{')
	writeString(buf, ctor.Str)
	buf.WriteByte(':')
	if err := decodeValue(buf, v.Get("value"), depth+1); err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}

func decodeTextMap(buf *bytes.Buffer, entries gjson.Result, depth int) error {
	if !entries.IsArray() {
		return fmt.Errorf("%w: textmap value is not an array", ErrMalformedValue)
	}
	buf.WriteByte('{')
	var err error
	i := 0
	entries.ForEach(func(_, entry gjson.Result) bool {
		key := entry.Get("key")
		if key.Type != gjson.String {
			err = fmt.Errorf("%w: textmap entry without key", ErrMalformedValue)
			return false
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		writeString(buf, key.Str)
		buf.WriteByte(':')
		err = decodeValue(buf, entry.Get("value"), depth+1)
		return err == nil
	})
	if err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}

func decodeGenMap(buf *bytes.Buffer, entries gjson.Result, depth int) error {
	if !entries.IsArray() {
		return fmt.Errorf("%w: genmap value is not an array", ErrMalformedValue)
	}
	buf.WriteByte('[')
	var err error
	i := 0
	entries.ForEach(func(_, entry gjson.Result) bool {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		buf.WriteString(`{"key":`)
		if err = decodeValue(buf, entry.Get("key"), depth+1); err != nil {
			return false
		}
		buf.WriteString(`,"value":`)
		err = decodeValue(buf, entry.Get("value"), depth+1)
		buf.WriteByte('}')
		return err == nil
	})
	if err != nil {
		return err
	}
	buf.WriteByte(']')
	return nil
}

func writeString(buf *bytes.Buffer, s string) {
	raw, _ := json.Marshal(s)
	buf.Write(raw)
}

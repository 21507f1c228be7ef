package damlvalue

import (
	"strconv"
	"time"

	"github.com/tidwall/sjson"
)

// Value is one Daml-LF JSON-encoded value, as produced by the ledger.
type Value string

// Bytes returns the encoded JSON text.
func (v Value) Bytes() []byte {
	return []byte(v)
}

// Field is one labelled member of an encoded record.
type Field struct {
	Label string
	Value Value
}

// Text encodes a text value.
func Text(s string) Value { return scalar(TypeText, s) }

// Party encodes a party identifier.
func Party(s string) Value { return scalar(TypeParty, s) }

// Int64 encodes a 64-bit integer in its decimal string form.
func Int64(n int64) Value { return scalar(TypeInt64, strconv.FormatInt(n, 10)) }

// Decimal encodes a decimal number given in its textual form.
func Decimal(s string) Value { return scalar(TypeDecimal, s) }

// Timestamp encodes an instant as an RFC 3339 UTC timestamp.
func Timestamp(t time.Time) Value {
	return scalar(TypeTimestamp, t.UTC().Format(time.RFC3339))
}

// Record encodes fields in order as a record value.
func Record(fields ...Field) Value {
	out := `{"type":"record","fields":[]}`
	for _, f := range fields {
		entry, _ := sjson.Set(`{}`, "label", f.Label)
		entry, _ = sjson.SetRaw(entry, "value", string(f.Value))
		out, _ = sjson.SetRaw(out, "fields.-1", entry)
	}
	return Value(out)
}

func scalar(typ, value string) Value {
	out, _ := sjson.Set(`{}`, "type", typ)
	out, _ = sjson.Set(out, "value", value)
	return Value(out)
}

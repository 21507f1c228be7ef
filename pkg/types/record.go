package types

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Well-known record field paths.
const (
	FieldID         = "id"
	FieldTemplateID = "template.id"
	FieldArgument   = "argument"
	FieldArchived   = "archived"
)

// Record is one contract: an immutable JSON object with at least an id, a
// template id and an argument payload whose shape depends on the template.
// Field access goes through Lookup, which never fails.
type Record struct {
	doc []byte
}

// NewRecord validates doc as a JSON object and returns a Record holding a
// compacted copy of it, so that every record fits on one JSONL line.
func NewRecord(doc []byte) (Record, error) {
	doc = bytes.TrimSpace(doc)
	if !gjson.ValidBytes(doc) || !gjson.ParseBytes(doc).IsObject() {
		return Record{}, ErrInvalidRecord
	}
	return Record{doc: pretty.Ugly(doc)}, nil
}

// MustRecord is NewRecord for static fixtures; it panics on invalid input.
func MustRecord(doc string) Record {
	r, err := NewRecord([]byte(doc))
	if err != nil {
		panic(fmt.Sprintf("types.MustRecord: %v", err))
	}
	return r
}

// Lookup resolves a dotted path such as "argument.tradeInfo.tradeId" or an
// indexed path such as "argument.items.0". A path that resolves to nothing
// yields Absent.
func (r Record) Lookup(path string) Value {
	if len(r.doc) == 0 || path == "" {
		return Absent
	}
	return Value{res: gjson.GetBytes(r.doc, path)}
}

// ID returns the contract id, or "" when the record has none.
func (r Record) ID() string {
	return r.Lookup(FieldID).String()
}

// TemplateID returns the template id, or "" when the record has none.
func (r Record) TemplateID() string {
	return r.Lookup(FieldTemplateID).String()
}

// Archived reports whether the contract has been archived.
func (r Record) Archived() bool {
	return r.Lookup(FieldArchived).Truthy()
}

// Argument returns the raw argument JSON, or nil when absent.
func (r Record) Argument() []byte {
	return r.Lookup(FieldArgument).Raw()
}

// WithArgument returns a copy of r with the argument replaced by raw. The
// receiver is returned unchanged when raw is not valid JSON.
func (r Record) WithArgument(raw []byte) Record {
	if !gjson.ValidBytes(raw) {
		return r
	}
	doc, err := sjson.SetRawBytes(bytes.Clone(r.doc), FieldArgument, raw)
	if err != nil {
		return r
	}
	return Record{doc: doc}
}

// WithID returns a copy of r carrying the given contract id.
func (r Record) WithID(id string) (Record, error) {
	if id == "" {
		return r, ErrInvalidID
	}
	doc, err := sjson.SetBytes(bytes.Clone(r.doc), FieldID, id)
	if err != nil {
		return r, fmt.Errorf("setting id: %w", err)
	}
	return Record{doc: doc}, nil
}

// WithArchived returns a copy of r with the archived flag set.
func (r Record) WithArchived(archived bool) (Record, error) {
	doc, err := sjson.SetBytes(bytes.Clone(r.doc), FieldArchived, archived)
	if err != nil {
		return r, fmt.Errorf("setting archived: %w", err)
	}
	return Record{doc: doc}, nil
}

// Bytes returns a copy of the record's JSON text.
func (r Record) Bytes() []byte {
	return bytes.Clone(r.doc)
}

// MarshalJSON emits the record document unchanged.
func (r Record) MarshalJSON() ([]byte, error) {
	if len(r.doc) == 0 {
		return []byte("null"), nil
	}
	return bytes.Clone(r.doc), nil
}

// UnmarshalJSON accepts any JSON object.
func (r *Record) UnmarshalJSON(data []byte) error {
	rec, err := NewRecord(data)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

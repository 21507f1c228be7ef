package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tradeDoc = `{
	"id": "#12:0",
	"template": {"id": "Main.Trade:Trade"},
	"argument": {
		"buyer": "Alice",
		"seller": "Bob",
		"tradeInfo": {"tradeId": "7", "cusip": "912828U24", "tradeDate": "2019-05-01T10:00:00Z"},
		"legs": [{"amount": "10.0"}, {"amount": "20.0"}]
	}
}`

func TestNewRecord(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{name: "object", doc: tradeDoc},
		{name: "surrounding whitespace", doc: "  {\"id\":\"1\"}\n"},
		{name: "array rejected", doc: `[1,2]`, wantErr: true},
		{name: "scalar rejected", doc: `"x"`, wantErr: true},
		{name: "malformed rejected", doc: `{"id":`, wantErr: true},
		{name: "empty rejected", doc: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecord([]byte(tt.doc))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRecord)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecordLookup(t *testing.T) {
	r := MustRecord(tradeDoc)

	tests := []struct {
		path        string
		wantPresent bool
		want        string
	}{
		{path: "id", wantPresent: true, want: "#12:0"},
		{path: "template.id", wantPresent: true, want: "Main.Trade:Trade"},
		{path: "argument.buyer", wantPresent: true, want: "Alice"},
		{path: "argument.tradeInfo.tradeId", wantPresent: true, want: "7"},
		{path: "argument.legs.1.amount", wantPresent: true, want: "20.0"},
		{path: "argument.legs.5.amount", wantPresent: false},
		{path: "argument.owner", wantPresent: false},
		{path: "argument.tradeInfo.missing.deeper", wantPresent: false},
		{path: "", wantPresent: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			v := r.Lookup(tt.path)
			assert.Equal(t, tt.wantPresent, v.Present())
			if tt.wantPresent {
				assert.Equal(t, tt.want, v.String())
			}
		})
	}
}

func TestNewRecordCompacts(t *testing.T) {
	r := MustRecord(tradeDoc)
	assert.NotContains(t, string(r.Bytes()), "\n")
	assert.Contains(t, string(r.Bytes()), `"template":{"id":"Main.Trade:Trade"}`)

	spaced := MustRecord(`{"id": "a b  c"}`)
	assert.Equal(t, "a b  c", spaced.ID(), "whitespace inside strings is kept")
}

func TestRecordZeroValue(t *testing.T) {
	var r Record
	assert.False(t, r.Lookup("id").Present())
	assert.Equal(t, "", r.ID())
	assert.Nil(t, r.Argument())
	assert.False(t, r.Archived())
}

func TestRecordAccessors(t *testing.T) {
	r := MustRecord(tradeDoc)
	assert.Equal(t, "#12:0", r.ID())
	assert.Equal(t, "Main.Trade:Trade", r.TemplateID())
	assert.False(t, r.Archived())
	assert.Contains(t, string(r.Argument()), `"buyer":"Alice"`)
}

func TestRecordWithArgumentDoesNotMutate(t *testing.T) {
	r := MustRecord(tradeDoc)
	replaced := r.WithArgument([]byte(`{"owner":"Carol"}`))

	assert.Equal(t, "Carol", replaced.Lookup("argument.owner").String())
	assert.False(t, r.Lookup("argument.owner").Present(), "original must be unchanged")
	assert.Equal(t, "#12:0", replaced.ID())

	invalid := r.WithArgument([]byte(`{broken`))
	assert.Equal(t, r.Bytes(), invalid.Bytes())
}

func TestRecordWithIDAndArchived(t *testing.T) {
	r := MustRecord(`{"template":{"id":"Main.Cash:Cash"},"argument":{}}`)

	_, err := r.WithID("")
	assert.ErrorIs(t, err, ErrInvalidID)

	withID, err := r.WithID("c-1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", withID.ID())
	assert.Equal(t, "", r.ID())

	archived, err := withID.WithArchived(true)
	require.NoError(t, err)
	assert.True(t, archived.Archived())
	assert.False(t, withID.Archived())
}

func TestRecordJSON(t *testing.T) {
	var decoded []Record
	require.NoError(t, json.Unmarshal([]byte(`[{"id":"a"},{"id":"b"}]`), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "b", decoded[1].ID())

	out, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"},{"id":"b"}]`, string(out))

	var bad Record
	assert.ErrorIs(t, json.Unmarshal([]byte(`[1]`), &bad), ErrInvalidRecord)
}

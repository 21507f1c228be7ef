package views

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/repotrading/navigator/pkg/types"
)

func TestSubstring(t *testing.T) {
	tests := []struct {
		name       string
		s          string
		start, end int
		want       string
	}{
		{name: "inner range", s: "Main.Cash:Cash", start: 5, end: 9, want: "Cash"},
		{name: "end past length clamps", s: "Main.Cash", start: 5, end: 13, want: "Cash"},
		{name: "start past length", s: "Main", start: 5, end: 13, want: ""},
		{name: "negative end swaps to prefix", s: "Main.DvP:DvP", start: 9, end: -1, want: "Main.DvP:"},
		{name: "start after end swaps", s: "abcdef", start: 4, end: 1, want: "bcd"},
		{name: "empty string", s: "", start: 0, end: 10, want: ""},
		{name: "runes not bytes", s: "ÄÖÜabc", start: 1, end: 4, want: "ÖÜa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Substring(tt.s, tt.start, tt.end))
		})
	}
}

func TestLastIndexAndCharAt(t *testing.T) {
	assert.Equal(t, 24, LastIndex("packagehash.DvP.SomeType@abcdef123", '@'))
	assert.Equal(t, 3, LastIndex("a@b@c", '@'))
	assert.Equal(t, -1, LastIndex("Main.DvP:DvP", '@'))

	assert.Equal(t, "C", CharAt("Main.CCP:CCP", 5))
	assert.Equal(t, "", CharAt("Main", 5))
	assert.Equal(t, "", CharAt("Main", -1))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "2019-05-01", FormatTime("2019-05-01T10:00:00Z"))
	assert.Equal(t, "2019-05-01", FormatTime("2019-05-01"))
	assert.Equal(t, "2019", FormatTime("2019"))
	assert.Equal(t, "", FormatTime(""))
}

func TestTemplateLabel(t *testing.T) {
	tests := []struct {
		templateID string
		want       string
	}{
		{templateID: "Main.CCP:CCP", want: "CCP:"},
		{templateID: "Main.CCP.CCP", want: "CCP."},
		{templateID: "Main.Cash:Cash", want: "Cash"},
		{templateID: "Main.Security:Security", want: "Security"},
		{templateID: "Main.LockedCash:LockedCash", want: "LockedCa"},
		{templateID: "Main", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.templateID, func(t *testing.T) {
			r := types.MustRecord(`{"id":"1","template":{"id":"` + tt.templateID + `"}}`)
			assert.Equal(t, tt.want, TemplateLabel(r).String())
		})
	}

	assert.False(t, TemplateLabel(types.MustRecord(`{"id":"1"}`)).Present())
}

func TestTemplateName(t *testing.T) {
	r := types.MustRecord(`{"template":{"id":"packagehash.DvP.SomeType@abcdef123"}}`)
	assert.Equal(t, "sh.DvP.SomeType", TemplateName(r).String())

	noAt := types.MustRecord(`{"template":{"id":"Main.DvP:DvP"}}`)
	assert.Equal(t, "Main.DvP:", TemplateName(noAt).String())

	assert.False(t, TemplateName(types.MustRecord(`{}`)).Present())
}

func TestArgumentProjection(t *testing.T) {
	r := types.MustRecord(`{"id":"1","argument":{"owner":"Alice","tradeInfo":{"tradeId":7}}}`)

	assert.Equal(t, "Alice", Argument(types.IdentityDecoder, "owner")(r).String())
	assert.Equal(t, "7", Argument(types.IdentityDecoder, "tradeInfo.tradeId")(r).String())
	assert.False(t, Argument(types.IdentityDecoder, "tradeInfo.cusip")(r).Present())
	assert.False(t, Argument(types.IdentityDecoder, "owner")(types.MustRecord(`{"id":"2"}`)).Present())

	failing := func([]byte) ([]byte, error) { return nil, assert.AnError }
	assert.False(t, Argument(failing, "owner")(r).Present())
}

func TestFirstTruthy(t *testing.T) {
	symbol := FirstTruthy(Argument(types.IdentityDecoder, "cusip"), Argument(types.IdentityDecoder, "currency"))

	tests := []struct {
		name     string
		argument string
		want     string
	}{
		{name: "cusip missing falls back", argument: `{"currency":"USD"}`, want: "USD"},
		{name: "cusip null falls back", argument: `{"cusip":null,"currency":"USD"}`, want: "USD"},
		{name: "cusip empty falls back", argument: `{"cusip":"","currency":"EUR"}`, want: "EUR"},
		{name: "cusip wins", argument: `{"cusip":"912828U24","currency":"USD"}`, want: "912828U24"},
		{name: "both missing", argument: `{}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := types.MustRecord(`{"id":"1","argument":` + tt.argument + `}`)
			assert.Equal(t, tt.want, symbol(r).String())
		})
	}
}

func TestDatePart(t *testing.T) {
	p := DatePart(Argument(types.IdentityDecoder, "settlementDate"))

	assert.Equal(t, "2019-05-03", p(types.MustRecord(`{"argument":{"settlementDate":"2019-05-03T00:00:00Z"}}`)).String())
	assert.False(t, p(types.MustRecord(`{"argument":{}}`)).Present())
	assert.False(t, p(types.MustRecord(`{"argument":{"settlementDate":20190503}}`)).Present())
}

package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "R$ 1.234,56", want: "1234.56"},
		{raw: "-15,3", want: "-15.3"},
		{raw: "-19,95", want: "-19.95"},
		{raw: "  160,00 ", want: "160"},
		{raw: "R$ 40,00", want: "40"},
		{raw: "", want: "0"},
		{raw: "   ", want: "0"},
		{raw: "n/a", want: "0"},
		{raw: "12", want: "12"},
	}
	for _, tt := range tests {
		got := Parse(tt.raw)
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Fatalf("Parse(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestFormatPlain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "0,00"},
		{in: "5.5", want: "5,50"},
		{in: "999.99", want: "999,99"},
		{in: "1000", want: "1.000,00"},
		{in: "1234567.89", want: "1.234.567,89"},
		{in: "-1234.5", want: "-1.234,50"},
	}
	for _, tt := range tests {
		got := FormatPlain(decimal.RequireFromString(tt.in))
		if got != tt.want {
			t.Fatalf("FormatPlain(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := Format(decimal.RequireFromString("40")); got != "R$ 40,00" {
		t.Fatalf("unexpected Format output %q", got)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for cents := int64(0); cents < 2_000_000; cents += 7919 {
		want := decimal.New(cents, -2)
		if got := Parse(Format(want)); !got.Equal(want) {
			t.Fatalf("round trip of %s produced %s", want, got)
		}
	}
}

func TestLocalize(t *testing.T) {
	if got := Localize("-15.3"); got != "-15,3" {
		t.Fatalf("unexpected localized value %q", got)
	}
	if got := Localize("42"); got != "42" {
		t.Fatalf("integers should be unchanged, got %q", got)
	}
	if got := Localize("abc"); got != "abc" {
		t.Fatalf("non numeric input should be unchanged, got %q", got)
	}
	if got := Parse(Localize("1234.56")); !got.Equal(decimal.RequireFromString("1234.56")) {
		t.Fatalf("localized value did not parse back, got %s", got)
	}
}

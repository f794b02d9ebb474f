// Package money parses and formats Brazilian real amounts as exported by the marketplace.
package money

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

const currencySymbol = "R$"

// Parse converts a pt-BR formatted amount ("R$ 1.234,56", "-15,3") into a decimal.
// Empty or unparseable input yields zero.
func Parse(raw string) decimal.Decimal {
	cleaned := strings.ReplaceAll(raw, currencySymbol, "")
	cleaned = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, cleaned)
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.Replace(cleaned, ",", ".", 1)
	if cleaned == "" {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return value
}

// Format renders the amount as "R$ 1.234,56".
func Format(d decimal.Decimal) string {
	return currencySymbol + " " + FormatPlain(d)
}

// FormatPlain renders the amount with two fraction digits, period thousands
// separators and a decimal comma.
func FormatPlain(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte('.')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}

// Localize rewrites a machine number ("-15.3") into the export convention ("-15,3")
// so spreadsheet cells and delimited text share one parser.
func Localize(raw string) string {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return strings.Replace(value.String(), ".", ",", 1)
}

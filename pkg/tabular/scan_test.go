package tabular

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanSplitsRowsAndFields(t *testing.T) {
	rows := Scan("a,b,c\n1,2,3\r\n4,5,6")
	require.Equal(t, [][]string{{"a", "b", "c"}, {"1", "2", "3"}, {"4", "5", "6"}}, rows)
}

func TestScanKeepsDelimitersInsideQuotes(t *testing.T) {
	rows := Scan("id,title\n1,\"Creatina, 300g\nPremium\"\n2,\"R$ 1.234,56\"\n")
	require.Len(t, rows, 3)
	require.Equal(t, []string{"1", "Creatina, 300g\nPremium"}, rows[1])
	require.Equal(t, []string{"2", "R$ 1.234,56"}, rows[2])
}

func TestScanEscapedQuotes(t *testing.T) {
	rows := Scan(`"say ""hi""",x`)
	require.Equal(t, [][]string{{`say "hi"`, "x"}}, rows)
}

func TestScanEmptyInput(t *testing.T) {
	require.Empty(t, Scan(""))
}

func TestScanUnterminatedQuoteRunsToEnd(t *testing.T) {
	rows := Scan("1,\"open\n2,3")
	require.Equal(t, [][]string{{"1", "open\n2,3"}}, rows)
}

func TestScanQuotedRoundTrip(t *testing.T) {
	values := [][]string{
		{"plain", "with,comma", "multi\nline\nvalue"},
		{"\"quoted\"", "", " padded "},
		{"a,b\nc", "R$ 10,00", "x"},
	}
	var b strings.Builder
	for _, row := range values {
		for i, field := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(field, `"`, `""`))
			b.WriteByte('"')
		}
		b.WriteByte('\n')
	}
	require.Equal(t, values, Scan(b.String()))
}

func TestIsBlankAndField(t *testing.T) {
	require.True(t, IsBlank([]string{"", "  "}))
	require.False(t, IsBlank([]string{"", "x"}))
	require.Equal(t, "x", Field([]string{" x "}, 0))
	require.Equal(t, "", Field([]string{"x"}, 3))
	require.Equal(t, "", Field([]string{"x"}, -1))
}

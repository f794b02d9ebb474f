package costs

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/lucroreal-backend/pkg/money"
	"github.com/angelmondragon/lucroreal-backend/pkg/tabular"
)

const (
	// DefaultSkipRows is how many leading rows are skipped when no header row is recognized.
	DefaultSkipRows = 2

	headerSearchDepth = 10
)

var (
	titleColumn = tabular.Column{Name: "title", Fallback: 0, Variants: []string{
		"título do anúncio", "titulo do anuncio", "produto", "product", "nome",
		"descrição", "descricao", "título", "titulo", "title",
	}}
	costColumn = tabular.Column{Name: "unit_cost", Fallback: 1, Variants: []string{
		"custo por unidade", "custo", "custo do produto", "cost", "custo produto",
		"custo de produção", "custo producao",
	}}
)

// Defaults derive the simulator's commission and shipping for each entry.
type Defaults struct {
	CommissionRate decimal.Decimal
	Shipping       decimal.Decimal
}

// DefaultDefaults returns a 12% commission over cost and a flat 15.00 shipping.
func DefaultDefaults() Defaults {
	return Defaults{
		CommissionRate: decimal.RequireFromString("0.12"),
		Shipping:       decimal.RequireFromString("15.00"),
	}
}

// Report summarizes a cost load. HeaderRow is the 1-based row recognized as
// the header, or 0 when the fixed skip was used. Entries counts distinct titles.
type Report struct {
	HeaderRow int   `json:"headerRow"`
	Rows      int   `json:"rows"`
	Accepted  int   `json:"accepted"`
	Entries   int   `json:"entries"`
	Rejected  []int `json:"rejected,omitempty"`
}

// Loader builds a Table from cost reference rows.
type Loader struct {
	Defaults Defaults
	SkipRows int
}

// NewLoader returns a loader with the standard defaults.
func NewLoader() Loader {
	return Loader{Defaults: DefaultDefaults(), SkipRows: DefaultSkipRows}
}

// LoadText parses delimited cost reference text.
func LoadText(text string) (*Table, Report) {
	return NewLoader().LoadRows(tabular.Scan(text))
}

// LoadRows builds a Table with the standard loader.
func LoadRows(rows [][]string) (*Table, Report) {
	return NewLoader().LoadRows(rows)
}

// LoadRows skips to the first row naming both a title and a cost column and
// reads the rows after it. Without such a row, SkipRows leading rows are
// skipped and the first two columns are used. Rows with an empty title or a
// cost that is not positive are rejected; a repeated title replaces the earlier value.
func (l Loader) LoadRows(rows [][]string) (*Table, Report) {
	table := NewTable()
	report := Report{}

	start, titleIdx, costIdx, found := l.locateHeader(rows)
	if found {
		report.HeaderRow = start
	}

	for i := start; i < len(rows); i++ {
		row := rows[i]
		if tabular.IsBlank(row) {
			continue
		}
		report.Rows++

		title := tabular.Field(row, titleIdx)
		cost := money.Parse(tabular.Field(row, costIdx))
		if title == "" || !cost.IsPositive() {
			report.Rejected = append(report.Rejected, i+1)
			continue
		}
		report.Accepted++
		table.Set(Entry{
			Title:      title,
			UnitCost:   cost,
			Commission: cost.Mul(l.Defaults.CommissionRate),
			Shipping:   l.Defaults.Shipping,
		})
	}
	report.Entries = table.Len()
	return table, report
}

func (l Loader) skipRows() int {
	if l.SkipRows < 0 {
		return 0
	}
	return l.SkipRows
}

// locateHeader returns the first data row index and the title and cost columns.
func (l Loader) locateHeader(rows [][]string) (start, titleIdx, costIdx int, found bool) {
	for i, row := range rows {
		if i >= headerSearchDepth {
			break
		}
		header := tabular.NewHeader(row)
		ti, hasTitle := header.Lookup(titleColumn.Variants...)
		ci, hasCost := header.Lookup(costColumn.Variants...)
		if hasTitle && hasCost {
			return i + 1, ti, ci, true
		}
	}
	return l.skipRows(), titleColumn.Fallback, costColumn.Fallback, false
}

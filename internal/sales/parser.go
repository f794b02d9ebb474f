package sales

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/lucroreal-backend/pkg/enums"
	"github.com/angelmondragon/lucroreal-backend/pkg/money"
	"github.com/angelmondragon/lucroreal-backend/pkg/tabular"
)

// DefaultMinColumns matches the width of the classic export layout.
const DefaultMinColumns = 20

// DropReason explains why a data row was left out of the parse result.
type DropReason string

const (
	DropTooFewColumns  DropReason = "too_few_columns"
	DropMissingOrderID DropReason = "missing_order_id"
	DropMissingTitle   DropReason = "missing_title"
)

// Dropped identifies a skipped row by its 1-based position in the payload.
type Dropped struct {
	Row    int        `json:"row"`
	Reason DropReason `json:"reason"`
}

// Report summarizes a parse. Rows counts non-blank data rows.
type Report struct {
	Rows     int       `json:"rows"`
	Accepted int       `json:"accepted"`
	Dropped  []Dropped `json:"dropped,omitempty"`
	ByName   []string  `json:"byName,omitempty"`
}

// Parser extracts OrderLines from export rows.
type Parser struct {
	MinColumns  int
	Marketplace enums.Marketplace
}

// NewParser returns a parser for Mercado Livre exports.
func NewParser() Parser {
	return Parser{MinColumns: DefaultMinColumns, Marketplace: enums.MarketplaceMercadoLivre}
}

// ParseText parses delimited export text.
func ParseText(text string) ([]OrderLine, Report) {
	return NewParser().ParseText(text)
}

// ParseRows parses an already tokenized row matrix.
func ParseRows(rows [][]string) ([]OrderLine, Report) {
	return NewParser().ParseRows(rows)
}

// ParseText scans text and parses the resulting rows.
func (p Parser) ParseText(text string) ([]OrderLine, Report) {
	return p.ParseRows(tabular.Scan(text))
}

// ParseRows treats the first row as the header and converts every other row
// into an OrderLine. Malformed rows are reported, never returned as errors.
func (p Parser) ParseRows(rows [][]string) ([]OrderLine, Report) {
	var report Report
	if len(rows) == 0 {
		return []OrderLine{}, report
	}

	header := tabular.NewHeader(rows[0])
	cols := header.ResolveAll(Columns)
	for _, col := range Columns {
		if cols[col.Name].ByName {
			report.ByName = append(report.ByName, col.Name)
		}
	}

	minColumns := p.MinColumns
	if minColumns <= 0 {
		minColumns = DefaultMinColumns
	}
	marketplace := p.Marketplace
	if marketplace == "" {
		marketplace = enums.MarketplaceMercadoLivre
	}

	lines := make([]OrderLine, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if tabular.IsBlank(row) {
			continue
		}
		report.Rows++
		rowNumber := i + 2

		if len(row) < minColumns {
			report.Dropped = append(report.Dropped, Dropped{Row: rowNumber, Reason: DropTooFewColumns})
			continue
		}

		text := func(name string) string {
			return tabular.Field(row, cols[name].Index)
		}
		amount := func(name string) decimal.Decimal {
			return money.Parse(text(name))
		}

		line := OrderLine{
			OrderID:            text(colOrderID),
			OrderDate:          text(colOrderDate),
			Status:             text(colStatus),
			SKU:                text(colSKU),
			ListingTitle:       text(colListingTitle),
			Variant:            text(colVariant),
			ListingType:        text(colListingType),
			Marketplace:        marketplace,
			Units:              parseUnits(text(colUnits)),
			UnitPrice:          amount(colUnitPrice),
			ProductRevenue:     amount(colProductRevenue),
			ShippingRevenue:    amount(colShippingRevenue),
			FeeAndTax:          amount(colFeeAndTax),
			ShippingFee:        amount(colShippingFee),
			CancellationRefund: amount(colCancellationRefund),
			ReportedTotal:      amount(colReportedTotal),
			UnitCostHint:       amount(colUnitCost),
		}

		switch {
		case line.OrderID == "":
			report.Dropped = append(report.Dropped, Dropped{Row: rowNumber, Reason: DropMissingOrderID})
			continue
		case line.ListingTitle == "":
			report.Dropped = append(report.Dropped, Dropped{Row: rowNumber, Reason: DropMissingTitle})
			continue
		}

		lines = append(lines, line)
	}
	report.Accepted = len(lines)
	return lines, report
}

// parseUnits reads the leading integer of s. Anything unparseable or negative is 0.
func parseUnits(s string) int {
	s = strings.TrimSpace(s)
	n := 0
	for i, r := range s {
		if r < '0' || r > '9' {
			if i == 0 && r == '+' {
				continue
			}
			break
		}
		n = n*10 + int(r-'0')
		if n > 1_000_000_000 {
			return 0
		}
	}
	return n
}

// Package simulator projects the profit of a hypothetical sale.
package simulator

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/lucroreal-backend/internal/costs"
	"github.com/angelmondragon/lucroreal-backend/internal/reconcile"
)

var hundred = decimal.NewFromInt(100)

// Input describes the sale to simulate. Nil cost fields are prefilled from the
// cost entry named by Title, when there is one, and default to zero otherwise.
type Input struct {
	Title      string
	UnitCost   *decimal.Decimal
	Commission *decimal.Decimal
	Shipping   *decimal.Decimal
	Price      decimal.Decimal
	TaxPercent decimal.Decimal
	Fees       decimal.Decimal
}

// Result is the projected breakdown.
type Result struct {
	MatchedTitle  string          `json:"matchedTitle,omitempty"`
	UnitCost      decimal.Decimal `json:"unitCost"`
	Commission    decimal.Decimal `json:"commission"`
	Shipping      decimal.Decimal `json:"shipping"`
	Fees          decimal.Decimal `json:"fees"`
	Price         decimal.Decimal `json:"price"`
	Tax           decimal.Decimal `json:"tax"`
	TotalCosts    decimal.Decimal `json:"totalCosts"`
	Profit        decimal.Decimal `json:"profit"`
	MarginPercent decimal.Decimal `json:"marginPercent"`
	IsLoss        bool            `json:"isLoss"`
}

// Simulate computes the projected profit. The title is looked up exactly
// first and then with first-match containment.
func Simulate(in Input, table *costs.Table) Result {
	var res Result
	if entry, ok := lookup(in.Title, table); ok {
		res.MatchedTitle = entry.Title
		res.UnitCost = entry.UnitCost
		res.Commission = entry.Commission
		res.Shipping = entry.Shipping
	}
	if in.UnitCost != nil {
		res.UnitCost = *in.UnitCost
	}
	if in.Commission != nil {
		res.Commission = *in.Commission
	}
	if in.Shipping != nil {
		res.Shipping = *in.Shipping
	}

	res.Price = in.Price
	res.Fees = in.Fees
	if in.Price.IsPositive() {
		res.Tax = in.Price.Mul(in.TaxPercent).Div(hundred)
	}
	res.TotalCosts = res.UnitCost.Add(res.Commission).Add(res.Shipping).Add(res.Tax).Add(res.Fees)
	res.Profit = in.Price.Sub(res.TotalCosts)
	if in.Price.IsPositive() {
		res.MarginPercent = res.Profit.Div(in.Price).Mul(hundred)
	}
	res.IsLoss = res.Profit.IsNegative()
	return res
}

func lookup(title string, table *costs.Table) (costs.Entry, bool) {
	title = strings.TrimSpace(title)
	if title == "" || table == nil {
		return costs.Entry{}, false
	}
	if entry, ok := table.Get(title); ok {
		return entry, true
	}
	return reconcile.FirstMatch(table).Resolve(title)
}

// Package rollup aggregates reconciled sales into the dashboard views.
// Every function re-derives its result from the full input; nothing is cached here.
package rollup

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/lucroreal-backend/internal/reconcile"
)

var hundred = decimal.NewFromInt(100)

// ProductRollup aggregates every sale of one listing title.
type ProductRollup struct {
	ListingTitle    string                     `json:"listingTitle"`
	SKU             string                     `json:"sku"`
	SaleCount       int                        `json:"saleCount"`
	TotalUnits      int                        `json:"totalUnits"`
	TotalRevenue    decimal.Decimal            `json:"totalRevenue"`
	TotalCost       decimal.Decimal            `json:"totalCost"`
	TotalCommission decimal.Decimal            `json:"totalCommission"`
	TotalShipping   decimal.Decimal            `json:"totalShipping"`
	TotalProfit     decimal.Decimal            `json:"totalProfit"`
	AverageMargin   decimal.Decimal            `json:"averageMargin"`
	IsLoss          bool                       `json:"isLoss"`
	Sales           []reconcile.ReconciledSale `json:"sales"`
}

// ByProduct groups sales by exact listing title. The result is ordered by
// total profit descending; ties keep the order in which groups were first seen.
func ByProduct(sales []reconcile.ReconciledSale) []ProductRollup {
	index := make(map[string]int)
	groups := make([]ProductRollup, 0)

	for _, sale := range sales {
		i, ok := index[sale.ListingTitle]
		if !ok {
			i = len(groups)
			index[sale.ListingTitle] = i
			groups = append(groups, ProductRollup{
				ListingTitle: sale.ListingTitle,
				SKU:          sale.SKU,
			})
		}
		g := &groups[i]
		g.SaleCount++
		g.TotalUnits += sale.Units
		g.TotalRevenue = g.TotalRevenue.Add(sale.NetReceived)
		g.TotalCost = g.TotalCost.Add(sale.TotalUnitCost)
		g.TotalCommission = g.TotalCommission.Add(sale.CommissionTotal)
		g.TotalShipping = g.TotalShipping.Add(sale.ShippingCostTotal)
		g.TotalProfit = g.TotalProfit.Add(sale.RealProfit)
		g.Sales = append(g.Sales, sale)
	}

	for i := range groups {
		g := &groups[i]
		g.AverageMargin = marginOf(g.TotalProfit, g.TotalRevenue)
		g.IsLoss = g.TotalProfit.IsNegative()
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].TotalProfit.GreaterThan(groups[b].TotalProfit)
	})
	return groups
}

func marginOf(profit, revenue decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return profit.Div(revenue).Mul(hundred)
}

package rollup

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/lucroreal-backend/internal/reconcile"
	"github.com/angelmondragon/lucroreal-backend/pkg/dates"
	"github.com/angelmondragon/lucroreal-backend/pkg/enums"
)

// OrderGroup aggregates the line items sharing an order id.
type OrderGroup struct {
	OrderID         string                     `json:"orderId"`
	OrderDate       string                     `json:"orderDate"`
	Status          string                     `json:"status"`
	Marketplace     enums.Marketplace          `json:"marketplace"`
	LineCount       int                        `json:"lineCount"`
	TotalUnits      int                        `json:"totalUnits"`
	TotalRevenue    decimal.Decimal            `json:"totalRevenue"`
	TotalCost       decimal.Decimal            `json:"totalCost"`
	TotalCommission decimal.Decimal            `json:"totalCommission"`
	TotalShipping   decimal.Decimal            `json:"totalShipping"`
	TotalProfit     decimal.Decimal            `json:"totalProfit"`
	MarginPercent   decimal.Decimal            `json:"marginPercent"`
	IsLoss          bool                       `json:"isLoss"`
	Sales           []reconcile.ReconciledSale `json:"sales"`

	placedAt time.Time
	dated    bool
}

// ByOrder groups sales by order id. Groups with a parseable date come first,
// most recent first; the rest follow in the order they were first seen.
func ByOrder(sales []reconcile.ReconciledSale) []OrderGroup {
	index := make(map[string]int)
	groups := make([]OrderGroup, 0)

	for _, sale := range sales {
		i, ok := index[sale.OrderID]
		if !ok {
			i = len(groups)
			index[sale.OrderID] = i
			placedAt, dated := dates.Parse(sale.OrderDate)
			groups = append(groups, OrderGroup{
				OrderID:     sale.OrderID,
				OrderDate:   sale.OrderDate,
				Status:      sale.Status,
				Marketplace: sale.Marketplace,
				placedAt:    placedAt,
				dated:       dated,
			})
		}
		g := &groups[i]
		g.LineCount++
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
		g.MarginPercent = marginOf(g.TotalProfit, g.TotalRevenue)
		g.IsLoss = g.TotalProfit.IsNegative()
	}

	sort.SliceStable(groups, func(a, b int) bool {
		ga, gb := groups[a], groups[b]
		if ga.dated != gb.dated {
			return ga.dated
		}
		if !ga.dated {
			return false
		}
		return ga.placedAt.After(gb.placedAt)
	})
	return groups
}

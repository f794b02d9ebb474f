package rollup

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/lucroreal-backend/internal/reconcile"
	"github.com/angelmondragon/lucroreal-backend/pkg/dates"
)

// DefaultMonths is how many trailing months the series keeps.
const DefaultMonths = 6

// MonthPoint is one bucket of the income/expenses chart. Income is gross
// (product plus shipping revenue); Expenses are every marketplace deduction
// plus the cost of goods, so Profit equals the summed real profit.
type MonthPoint struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

// Monthly buckets sales by order month in ascending order and keeps the last
// months buckets. Sales without a parseable date are left out.
func Monthly(sales []reconcile.ReconciledSale, months int) []MonthPoint {
	if months <= 0 {
		months = DefaultMonths
	}
	buckets := make(map[string]*MonthPoint)
	for _, sale := range sales {
		key, ok := dates.MonthKey(sale.OrderDate)
		if !ok {
			continue
		}
		point, exists := buckets[key]
		if !exists {
			point = &MonthPoint{Month: key}
			buckets[key] = point
		}
		gross := sale.ProductRevenue.Add(sale.ShippingRevenue)
		deductions := gross.Sub(sale.NetReceived)
		point.Income = point.Income.Add(gross)
		point.Expenses = point.Expenses.Add(deductions).Add(sale.TotalUnitCost)
	}

	series := make([]MonthPoint, 0, len(buckets))
	for _, point := range buckets {
		point.Profit = point.Income.Sub(point.Expenses)
		series = append(series, *point)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Month < series[j].Month })
	if len(series) > months {
		series = series[len(series)-months:]
	}
	return series
}

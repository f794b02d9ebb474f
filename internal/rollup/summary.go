package rollup

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/angelmondragon/lucroreal-backend/internal/reconcile"
)

// MarginStats describes the distribution of per-sale margins over sales with
// a positive net. StdDev is the sample deviation and is zero below two samples.
type MarginStats struct {
	Samples int     `json:"samples"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"stdDev"`
	Median  float64 `json:"median"`
}

// Summary holds the dashboard headline figures.
type Summary struct {
	TotalSales   int             `json:"totalSales"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	TotalProfit  decimal.Decimal `json:"totalProfit"`
	LossSales    int             `json:"lossSales"`
	LossProducts int             `json:"lossProducts"`
	Margin       MarginStats     `json:"margin"`
}

// Summarize computes the headline figures. products must be the rollups of the same sales.
func Summarize(sales []reconcile.ReconciledSale, products []ProductRollup) Summary {
	summary := Summary{TotalSales: len(sales)}
	margins := make([]float64, 0, len(sales))

	for _, sale := range sales {
		summary.TotalRevenue = summary.TotalRevenue.Add(sale.NetReceived)
		summary.TotalCost = summary.TotalCost.Add(sale.TotalUnitCost)
		summary.TotalProfit = summary.TotalProfit.Add(sale.RealProfit)
		if sale.IsLoss {
			summary.LossSales++
		}
		if sale.NetReceived.IsPositive() {
			margins = append(margins, sale.MarginPercent.InexactFloat64())
		}
	}
	for _, product := range products {
		if product.IsLoss {
			summary.LossProducts++
		}
	}
	summary.Margin = marginStats(margins)
	return summary
}

func marginStats(margins []float64) MarginStats {
	out := MarginStats{Samples: len(margins)}
	if len(margins) == 0 {
		return out
	}
	sort.Float64s(margins)
	out.Mean = stat.Mean(margins, nil)
	out.Median = stat.Quantile(0.5, stat.Empirical, margins, nil)
	if len(margins) > 1 {
		if sd := stat.StdDev(margins, nil); !math.IsNaN(sd) {
			out.StdDev = sd
		}
	}
	return out
}

// Performance splits sales by the sign of their profit.
type Performance struct {
	Profitable        int `json:"profitable"`
	Loss              int `json:"loss"`
	BreakEven         int `json:"breakEven"`
	ProfitablePercent int `json:"profitablePercent"`
	LossPercent       int `json:"lossPercent"`
	BreakEvenPercent  int `json:"breakEvenPercent"`
}

// Breakdown counts profitable, losing and break-even sales. Percentages are
// rounded independently and may not add up to 100.
func Breakdown(sales []reconcile.ReconciledSale) Performance {
	var p Performance
	for _, sale := range sales {
		switch sale.RealProfit.Sign() {
		case 1:
			p.Profitable++
		case -1:
			p.Loss++
		default:
			p.BreakEven++
		}
	}
	total := len(sales)
	p.ProfitablePercent = percentOf(p.Profitable, total)
	p.LossPercent = percentOf(p.Loss, total)
	p.BreakEvenPercent = percentOf(p.BreakEven, total)
	return p
}

func percentOf(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}

package rollup

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/lucroreal-backend/internal/costs"
	"github.com/angelmondragon/lucroreal-backend/internal/reconcile"
	"github.com/angelmondragon/lucroreal-backend/internal/sales"
	"github.com/angelmondragon/lucroreal-backend/pkg/enums"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sale(orderID, title, date string, units int, net, cost string) reconcile.ReconciledSale {
	n, c := d(net), d(cost)
	profit := n.Sub(c)
	margin := decimal.Zero
	if n.IsPositive() {
		margin = profit.Div(n).Mul(hundred)
	}
	return reconcile.ReconciledSale{
		OrderID:           orderID,
		OrderDate:         date,
		SKU:               "SKU-" + title,
		ListingTitle:      title,
		Marketplace:       enums.MarketplaceMercadoLivre,
		Units:             units,
		ProductRevenue:    n.Add(d("3")),
		NetReceived:       n,
		TotalUnitCost:     c,
		CommissionTotal:   d("1"),
		ShippingCostTotal: d("2"),
		RealProfit:        profit,
		MarginPercent:     margin,
		IsLoss:            profit.IsNegative(),
		Issues:            []enums.Issue{},
	}
}

func TestByProductSumsAndOrders(t *testing.T) {
	sales := []reconcile.ReconciledSale{
		sale("1", "Creatina", "01/11/2024", 2, "142", "80"),
		sale("2", "Whey", "02/11/2024", 1, "90", "100"),
		sale("3", "Creatina", "03/11/2024", 1, "70", "40"),
		sale("4", "Pasta", "04/11/2024", 1, "50", "40"),
		sale("5", "BCAA", "05/11/2024", 1, "30", "20"),
	}

	rollups := ByProduct(sales)
	require.Len(t, rollups, 4)

	titles := []string{rollups[0].ListingTitle, rollups[1].ListingTitle, rollups[2].ListingTitle, rollups[3].ListingTitle}
	require.Equal(t, []string{"Creatina", "Pasta", "BCAA", "Whey"}, titles)

	creatina := rollups[0]
	require.Equal(t, 2, creatina.SaleCount)
	require.Equal(t, 3, creatina.TotalUnits)
	require.True(t, creatina.TotalRevenue.Equal(d("212")))
	require.True(t, creatina.TotalProfit.Equal(d("92")))
	require.True(t, creatina.TotalCommission.Equal(d("2")))
	require.Equal(t, "1", creatina.Sales[0].OrderID)
	require.Equal(t, "3", creatina.Sales[1].OrderID)
	require.True(t, creatina.AverageMargin.Round(4).Equal(d("92").Div(d("212")).Mul(hundred).Round(4)))

	whey := rollups[3]
	require.True(t, whey.IsLoss)
}

func TestByProductInvariantsForRandomInput(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	titles := []string{"A", "B", "C", "D"}
	sales := make([]reconcile.ReconciledSale, 0, 200)
	firstSeen := map[string]int{}
	for i := 0; i < 200; i++ {
		title := titles[rng.Intn(len(titles))]
		if _, ok := firstSeen[title]; !ok {
			firstSeen[title] = i
		}
		net := decimal.New(rng.Int63n(20_000)-5_000, -2)
		cost := decimal.New(rng.Int63n(10_000), -2)
		sales = append(sales, sale("o", title, "", rng.Intn(5), net.String(), cost.String()))
	}

	rollups := ByProduct(sales)
	for i, r := range rollups {
		profit, units := decimal.Zero, 0
		for _, s := range r.Sales {
			profit = profit.Add(s.RealProfit)
			units += s.Units
		}
		if !profit.Equal(r.TotalProfit) || units != r.TotalUnits {
			t.Fatalf("rollup %q sums drifted", r.ListingTitle)
		}
		if i == 0 {
			continue
		}
		prev := rollups[i-1]
		if prev.TotalProfit.LessThan(r.TotalProfit) {
			t.Fatalf("rollups not ordered by profit: %s before %s", prev.TotalProfit, r.TotalProfit)
		}
		if prev.TotalProfit.Equal(r.TotalProfit) && firstSeen[prev.ListingTitle] > firstSeen[r.ListingTitle] {
			t.Fatalf("tie not broken by first appearance")
		}
	}
}

func TestByProductTiesKeepFirstSeenOrder(t *testing.T) {
	rollups := ByProduct([]reconcile.ReconciledSale{
		sale("1", "B", "", 1, "10", "5"),
		sale("2", "A", "", 1, "10", "5"),
	})
	require.Equal(t, "B", rollups[0].ListingTitle)
	require.Equal(t, "A", rollups[1].ListingTitle)
}

func TestByProductEmpty(t *testing.T) {
	require.Empty(t, ByProduct(nil))
}

func TestByOrderGroupsAndSortsByDate(t *testing.T) {
	sales := []reconcile.ReconciledSale{
		sale("100", "Creatina", "01/11/2024", 1, "50", "20"),
		sale("200", "Whey", "sem data", 1, "30", "10"),
		sale("300", "Pasta", "15 de novembro de 2024 10:30 hs.", 1, "40", "10"),
		sale("100", "Whey", "01/11/2024", 2, "60", "30"),
		sale("400", "BCAA", "", 1, "10", "5"),
	}
	groups := ByOrder(sales)
	require.Len(t, groups, 4)

	ids := []string{groups[0].OrderID, groups[1].OrderID, groups[2].OrderID, groups[3].OrderID}
	require.Equal(t, []string{"300", "100", "200", "400"}, ids)

	first := groups[1]
	require.Equal(t, 2, first.LineCount)
	require.Equal(t, 3, first.TotalUnits)
	require.True(t, first.TotalRevenue.Equal(d("110")))
	require.True(t, first.TotalProfit.Equal(d("60")))
}

func TestSummarize(t *testing.T) {
	sales := []reconcile.ReconciledSale{
		sale("1", "A", "", 1, "100", "50"),
		sale("2", "B", "", 1, "100", "150"),
		sale("3", "A", "", 1, "100", "70"),
		sale("4", "C", "", 1, "-10", "0"),
	}
	summary := Summarize(sales, ByProduct(sales))

	require.Equal(t, 4, summary.TotalSales)
	require.True(t, summary.TotalRevenue.Equal(d("290")))
	require.True(t, summary.TotalCost.Equal(d("270")))
	require.True(t, summary.TotalProfit.Equal(d("20")))
	require.Equal(t, 2, summary.LossSales)
	require.Equal(t, 2, summary.LossProducts)

	require.Equal(t, 3, summary.Margin.Samples)
	require.InDelta(t, 10.0, summary.Margin.Mean, 1e-9)
	require.InDelta(t, 30.0, summary.Margin.Median, 1e-9)
	require.InDelta(t, 52.915, summary.Margin.StdDev, 1e-3)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil, nil)
	require.Zero(t, summary.TotalSales)
	require.True(t, summary.TotalProfit.IsZero())
	require.Equal(t, MarginStats{}, summary.Margin)
}

func TestBreakdown(t *testing.T) {
	p := Breakdown([]reconcile.ReconciledSale{
		sale("1", "A", "", 1, "10", "5"),
		sale("2", "A", "", 1, "10", "15"),
		sale("3", "A", "", 1, "10", "10"),
	})
	require.Equal(t, Performance{
		Profitable: 1, Loss: 1, BreakEven: 1,
		ProfitablePercent: 33, LossPercent: 33, BreakEvenPercent: 33,
	}, p)
	require.Equal(t, Performance{}, Breakdown(nil))
}

func TestMonthlyKeepsTrailingMonthsAscending(t *testing.T) {
	var sales []reconcile.ReconciledSale
	for m := 1; m <= 8; m++ {
		date := time.Date(2024, time.Month(m), 10, 0, 0, 0, 0, time.UTC).Format("02/01/2006")
		sales = append(sales, sale("x", "A", date, 1, "100", "40"))
	}
	sales = append(sales, sale("y", "A", "sem data", 1, "999", "0"))
	sales = append(sales, sale("z", "A", "20/08/2024", 1, "50", "10"))

	series := Monthly(sales, 0)
	require.Len(t, series, DefaultMonths)
	require.Equal(t, "2024-03", series[0].Month)
	require.Equal(t, "2024-08", series[5].Month)

	aug := series[5]
	require.True(t, aug.Income.Equal(d("156")))
	require.True(t, aug.Expenses.Equal(d("62")))
	require.True(t, aug.Profit.Equal(d("94")))
}

func TestMonthlyProfitMatchesRealProfit(t *testing.T) {
	engine := reconcile.NewEngine(reconcile.DefaultPolicy(), nil)
	table := costs.NewTable()
	table.Set(costs.Entry{Title: "Creatina 300g", UnitCost: d("40")})

	lines := []sales.OrderLine{
		{
			OrderID: "2000001", OrderDate: "15/11/2024", ListingTitle: "Creatina 300g Premium", Units: 2,
			ProductRevenue: d("160"), ShippingRevenue: d("10"), FeeAndTax: d("-20"), ShippingFee: d("-8"),
		},
		{
			OrderID: "2000002", OrderDate: "20/11/2024", ListingTitle: "Creatina 300g Premium", Units: 1,
			ProductRevenue: d("80"), FeeAndTax: d("-10"), ShippingFee: d("-5"), CancellationRefund: d("-50"),
		},
		{
			OrderID: "2000003", OrderDate: "02/10/2024", ListingTitle: "Whey 900g", Units: 1,
			ProductRevenue: d("100"), ShippingRevenue: d("12"), FeeAndTax: d("-15"), ShippingFee: d("-20"),
		},
	}
	reconciled := engine.ReconcileAll(lines, table)

	realProfit := decimal.Zero
	for _, s := range reconciled {
		realProfit = realProfit.Add(s.RealProfit)
	}
	monthlyProfit := decimal.Zero
	for _, point := range Monthly(reconciled, 0) {
		monthlyProfit = monthlyProfit.Add(point.Profit)
		require.True(t, point.Income.Sub(point.Expenses).Equal(point.Profit))
	}
	require.True(t, realProfit.Equal(monthlyProfit), "real %s monthly %s", realProfit, monthlyProfit)

	nov := Monthly(reconciled[:1], 0)[0]
	require.True(t, nov.Income.Equal(d("170")))
	require.True(t, nov.Expenses.Equal(d("108")))
	require.True(t, nov.Profit.Equal(d("62")))
}

func TestFilter(t *testing.T) {
	sales := []reconcile.ReconciledSale{
		sale("1001", "Creatina 300g", "01/11/2024", 1, "100", "50"),
		sale("1002", "Whey Protein", "15/11/2024", 1, "100", "150"),
		sale("1003", "Creatina 1kg", "30/11/2024 23:59", 1, "100", "100"),
		sale("1004", "Pasta", "sem data", 1, "100", "10"),
	}
	ids := func(in []reconcile.ReconciledSale) []string {
		out := make([]string, 0, len(in))
		for _, s := range in {
			out = append(out, s.OrderID)
		}
		return out
	}

	require.Equal(t, []string{"1001", "1002", "1003", "1004"}, ids(Filter(sales, Criteria{})))
	require.Equal(t, []string{"1001", "1004"}, ids(Filter(sales, Criteria{Status: enums.SaleStatusProfit})))
	require.Equal(t, []string{"1002"}, ids(Filter(sales, Criteria{Status: enums.SaleStatusLoss})))
	require.Equal(t, []string{"1001", "1003"}, ids(Filter(sales, Criteria{Search: "CREATINA"})))
	require.Equal(t, []string{"1002"}, ids(Filter(sales, Criteria{Search: "1002"})))
	require.Equal(t, []string{"1004"}, ids(Filter(sales, Criteria{Search: "sku-pasta"})))

	november := Criteria{
		From: time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC),
	}
	require.Equal(t, []string{"1002", "1003"}, ids(Filter(sales, november)))

	openEnded := Criteria{To: time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)}
	require.Equal(t, []string{"1001"}, ids(Filter(sales, openEnded)))
}

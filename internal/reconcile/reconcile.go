// Package reconcile computes the real profit of each sale from the export
// figures and the product cost reference.
package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/lucroreal-backend/internal/costs"
	"github.com/angelmondragon/lucroreal-backend/internal/sales"
	"github.com/angelmondragon/lucroreal-backend/pkg/enums"
)

// CostSource records where a sale's unit cost came from.
type CostSource string

const (
	CostSourceHint    CostSource = "hint"
	CostSourceMatched CostSource = "matched"
	CostSourceNone    CostSource = "none"
)

var hundred = decimal.NewFromInt(100)

// ReconciledSale is an OrderLine with its profit decomposition. Totals are
// non-negative magnitudes; NetReceived is the signed sum of the export fields.
type ReconciledSale struct {
	OrderID      string            `json:"orderId"`
	OrderDate    string            `json:"orderDate"`
	Status       string            `json:"status"`
	SKU          string            `json:"sku"`
	ListingTitle string            `json:"listingTitle"`
	Variant      string            `json:"variant"`
	ListingType  string            `json:"listingType,omitempty"`
	Marketplace  enums.Marketplace `json:"marketplace"`
	Units        int               `json:"units"`

	UnitSalePrice       decimal.Decimal `json:"unitSalePrice"`
	UnitCost            decimal.Decimal `json:"unitCost"`
	TotalUnitCost       decimal.Decimal `json:"totalUnitCost"`
	CostSource          CostSource      `json:"costSource"`
	MatchedCostTitle    string          `json:"matchedCostTitle,omitempty"`
	ProductRevenue      decimal.Decimal `json:"productRevenue"`
	CommissionTotal     decimal.Decimal `json:"commissionTotal"`
	CommissionPerUnit   decimal.Decimal `json:"commissionPerUnit"`
	CommissionNetOfTax  decimal.Decimal `json:"commissionNetOfTax"`
	ShippingCostTotal   decimal.Decimal `json:"shippingCostTotal"`
	ShippingCostPerUnit decimal.Decimal `json:"shippingCostPerUnit"`
	ShippingRevenue     decimal.Decimal `json:"shippingRevenue"`
	EstimatedTax        decimal.Decimal `json:"estimatedTax"`
	ExtraFees           decimal.Decimal `json:"extraFees"`
	NetReceived         decimal.Decimal `json:"netReceived"`
	ReportedTotal       decimal.Decimal `json:"reportedTotal"`
	TotalMismatch       bool            `json:"totalMismatch"`
	RealProfit          decimal.Decimal `json:"realProfit"`
	MarginPercent       decimal.Decimal `json:"marginPercent"`
	IsLoss              bool            `json:"isLoss"`
	Issues              []enums.Issue   `json:"issues"`
}

// Engine reconciles sales under a Policy, resolving costs with a Strategy.
type Engine struct {
	policy   Policy
	strategy Strategy
}

// NewEngine builds an engine. A nil strategy means FirstMatch.
func NewEngine(policy Policy, strategy Strategy) *Engine {
	if strategy == nil {
		strategy = FirstMatch
	}
	return &Engine{policy: policy, strategy: strategy}
}

// Policy returns the engine's policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

var defaultEngine = NewEngine(DefaultPolicy(), FirstMatch)

// Reconcile computes one sale with the default policy and first-match cost resolution.
func Reconcile(order sales.OrderLine, table *costs.Table) ReconciledSale {
	return defaultEngine.Reconcile(order, FirstMatch(table))
}

// ReconcileAll reconciles every order against the same table, preserving order.
func (e *Engine) ReconcileAll(orders []sales.OrderLine, table *costs.Table) []ReconciledSale {
	resolver := e.strategy(table)
	out := make([]ReconciledSale, 0, len(orders))
	for _, order := range orders {
		out = append(out, e.Reconcile(order, resolver))
	}
	return out
}

// Reconcile computes the profit decomposition of one order line. It never fails.
func (e *Engine) Reconcile(order sales.OrderLine, resolver Resolver) ReconciledSale {
	unitCost, source, matched := resolveCost(order, resolver)
	units := decimal.NewFromInt(int64(order.Units))

	commission := order.FeeAndTax.Abs()
	shipping := order.ShippingFee.Abs()
	extraFees := order.CancellationRefund.Abs()

	net := order.ProductRevenue.
		Add(order.ShippingRevenue).
		Add(order.FeeAndTax).
		Add(order.ShippingFee).
		Add(order.CancellationRefund)
	totalCost := unitCost.Mul(units)
	profit := net.Sub(totalCost)

	margin := decimal.Zero
	if net.IsPositive() {
		margin = profit.Div(net).Mul(hundred)
	}

	sale := ReconciledSale{
		OrderID:             order.OrderID,
		OrderDate:           order.OrderDate,
		Status:              order.Status,
		SKU:                 order.SKU,
		ListingTitle:        order.ListingTitle,
		Variant:             order.Variant,
		ListingType:         order.ListingType,
		Marketplace:         order.Marketplace,
		Units:               order.Units,
		UnitSalePrice:       order.UnitPrice,
		UnitCost:            unitCost,
		TotalUnitCost:       totalCost,
		CostSource:          source,
		MatchedCostTitle:    matched,
		ProductRevenue:      order.ProductRevenue,
		CommissionTotal:     commission,
		CommissionPerUnit:   perUnit(commission, order.Units),
		CommissionNetOfTax:  commission.Mul(e.policy.CommissionShare()),
		ShippingCostTotal:   shipping,
		ShippingCostPerUnit: perUnit(shipping, order.Units),
		ShippingRevenue:     order.ShippingRevenue,
		EstimatedTax:        commission.Mul(e.policy.TaxShare),
		ExtraFees:           extraFees,
		NetReceived:         net,
		ReportedTotal:       order.ReportedTotal,
		TotalMismatch:       order.ReportedTotal.Sub(net).Abs().GreaterThan(e.policy.MismatchTolerance),
		RealProfit:          profit,
		MarginPercent:       margin,
		IsLoss:              profit.IsNegative(),
		Issues:              []enums.Issue{},
	}
	if sale.IsLoss {
		sale.Issues = e.diagnose(sale)
	}
	return sale
}

// diagnose tags the likely causes of a loss, in a fixed order.
func (e *Engine) diagnose(sale ReconciledSale) []enums.Issue {
	issues := []enums.Issue{}
	if sale.TotalUnitCost.GreaterThan(sale.NetReceived) {
		issues = append(issues, enums.IssueCostTooHigh)
	}
	if sale.CommissionTotal.GreaterThan(sale.ProductRevenue.Mul(e.policy.CommissionRatio)) {
		issues = append(issues, enums.IssueCommissionTooHigh)
	}
	if sale.ShippingCostTotal.GreaterThan(sale.ProductRevenue.Mul(e.policy.ShippingRatio)) {
		issues = append(issues, enums.IssueShippingTooHigh)
	}
	if sale.ExtraFees.IsPositive() {
		issues = append(issues, enums.IssueHasRefund)
	}
	return issues
}

func resolveCost(order sales.OrderLine, resolver Resolver) (decimal.Decimal, CostSource, string) {
	if order.UnitCostHint.IsPositive() {
		return order.UnitCostHint, CostSourceHint, ""
	}
	if resolver != nil {
		if entry, ok := resolver.Resolve(order.ListingTitle); ok {
			return entry.UnitCost, CostSourceMatched, entry.Title
		}
	}
	return decimal.Zero, CostSourceNone, ""
}

func perUnit(total decimal.Decimal, units int) decimal.Decimal {
	if units <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(units)))
}

// MarketplaceTag returns the marketplace the sale was made on.
func (s ReconciledSale) MarketplaceTag() enums.Marketplace {
	return s.Marketplace
}

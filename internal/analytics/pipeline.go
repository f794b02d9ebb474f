package analytics

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/lucroreal-backend/internal/costs"
	"github.com/angelmondragon/lucroreal-backend/internal/reconcile"
	"github.com/angelmondragon/lucroreal-backend/internal/sales"
	"github.com/angelmondragon/lucroreal-backend/pkg/config"
	"github.com/angelmondragon/lucroreal-backend/pkg/enums"
)

// Pipeline bundles the configured parser, cost loader and reconciliation engine.
type Pipeline struct {
	Parser sales.Parser
	Loader costs.Loader
	Engine *reconcile.Engine
}

// DefaultPipeline uses the built-in policy and first-match resolution.
func DefaultPipeline() Pipeline {
	return Pipeline{
		Parser: sales.NewParser(),
		Loader: costs.NewLoader(),
		Engine: reconcile.NewEngine(reconcile.DefaultPolicy(), reconcile.FirstMatch),
	}
}

// NewPipeline applies policy file overrides on top of the defaults. A
// resolver named in the policy file wins over the one from the environment.
func NewPipeline(overrides config.PolicyOverrides, resolver string, marketplace enums.Marketplace) (Pipeline, error) {
	p := DefaultPipeline()

	name := resolver
	if strings.TrimSpace(overrides.Reconcile.Resolver) != "" {
		name = overrides.Reconcile.Resolver
	}
	strategy, err := reconcile.StrategyByName(name)
	if err != nil {
		return Pipeline{}, err
	}
	policy := reconcile.DefaultPolicy().WithOverrides(reconcile.Overrides{
		TaxShare:          overrides.Reconcile.TaxShare,
		CommissionRatio:   overrides.Reconcile.CommissionRatio,
		ShippingRatio:     overrides.Reconcile.ShippingRatio,
		MismatchTolerance: overrides.Reconcile.MismatchTolerance,
	})
	p.Engine = reconcile.NewEngine(policy, strategy)

	if v := overrides.Costs.CommissionRate; v != nil {
		p.Loader.Defaults.CommissionRate = decimal.NewFromFloat(*v)
	}
	if v := overrides.Costs.DefaultShipping; v != nil {
		p.Loader.Defaults.Shipping = decimal.NewFromFloat(*v)
	}
	if v := overrides.Costs.SkipRows; v != nil {
		p.Loader.SkipRows = *v
	}
	if v := overrides.Sales.MinColumns; v != nil {
		p.Parser.MinColumns = *v
	}
	if marketplace.IsValid() {
		p.Parser.Marketplace = marketplace
	}
	return p, nil
}

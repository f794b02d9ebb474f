package reconcile

import "github.com/shopspring/decimal"

// Policy holds the heuristic constants of the profit decomposition.
//
// The export bundles commission and tax into one fee field; TaxShare is the
// estimated fraction of it that is tax. It is an estimate with no authoritative source.
type Policy struct {
	TaxShare          decimal.Decimal
	CommissionRatio   decimal.Decimal
	ShippingRatio     decimal.Decimal
	MismatchTolerance decimal.Decimal
}

// DefaultPolicy returns the dashboard's historical constants.
func DefaultPolicy() Policy {
	return Policy{
		TaxShare:          decimal.RequireFromString("0.3"),
		CommissionRatio:   decimal.RequireFromString("0.2"),
		ShippingRatio:     decimal.RequireFromString("0.3"),
		MismatchTolerance: decimal.RequireFromString("0.01"),
	}
}

// CommissionShare is the fraction of the fee field attributed to commission.
func (p Policy) CommissionShare() decimal.Decimal {
	return decimal.NewFromInt(1).Sub(p.TaxShare)
}

// Overrides carries optional replacements for the default constants.
type Overrides struct {
	TaxShare          *float64
	CommissionRatio   *float64
	ShippingRatio     *float64
	MismatchTolerance *float64
}

// WithOverrides returns a copy of p where every non-nil override replaces the default.
func (p Policy) WithOverrides(o Overrides) Policy {
	if o.TaxShare != nil {
		p.TaxShare = decimal.NewFromFloat(*o.TaxShare)
	}
	if o.CommissionRatio != nil {
		p.CommissionRatio = decimal.NewFromFloat(*o.CommissionRatio)
	}
	if o.ShippingRatio != nil {
		p.ShippingRatio = decimal.NewFromFloat(*o.ShippingRatio)
	}
	if o.MismatchTolerance != nil {
		p.MismatchTolerance = decimal.NewFromFloat(*o.MismatchTolerance)
	}
	return p
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// PolicyOverrides is the optional TOML policy file. Absent keys keep the
// built-in defaults.
//
//	[reconcile]
//	tax_share = 0.3
//	commission_ratio = 0.2
//	shipping_ratio = 0.3
//	mismatch_tolerance = 0.01
//	resolver = "first-match"
//
//	[costs]
//	commission_rate = 0.12
//	default_shipping = 15.0
//	skip_rows = 2
//
//	[sales]
//	min_columns = 20
type PolicyOverrides struct {
	Reconcile ReconcileOverrides `toml:"reconcile"`
	Costs     CostOverrides      `toml:"costs"`
	Sales     SalesOverrides     `toml:"sales"`
}

type ReconcileOverrides struct {
	TaxShare          *float64 `toml:"tax_share"`
	CommissionRatio   *float64 `toml:"commission_ratio"`
	ShippingRatio     *float64 `toml:"shipping_ratio"`
	MismatchTolerance *float64 `toml:"mismatch_tolerance"`
	Resolver          string   `toml:"resolver"`
}

type CostOverrides struct {
	CommissionRate  *float64 `toml:"commission_rate"`
	DefaultShipping *float64 `toml:"default_shipping"`
	SkipRows        *int     `toml:"skip_rows"`
}

type SalesOverrides struct {
	MinColumns *int `toml:"min_columns"`
}

// LoadPolicy reads the policy file at path. An empty path yields no overrides.
func LoadPolicy(path string) (PolicyOverrides, error) {
	var out PolicyOverrides
	if strings.TrimSpace(path) == "" {
		return out, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("reading policy file: %w", err)
	}
	return ParsePolicy(string(raw))
}

// ParsePolicy decodes a policy document and rejects unknown keys and
// out-of-range ratios.
func ParsePolicy(doc string) (PolicyOverrides, error) {
	var out PolicyOverrides
	meta, err := toml.Decode(doc, &out)
	if err != nil {
		return PolicyOverrides{}, fmt.Errorf("decoding policy file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return PolicyOverrides{}, fmt.Errorf("unknown policy keys: %s", strings.Join(keys, ", "))
	}
	if err := out.validate(); err != nil {
		return PolicyOverrides{}, err
	}
	return out, nil
}

func (p PolicyOverrides) validate() error {
	ratios := map[string]*float64{
		"reconcile.tax_share":        p.Reconcile.TaxShare,
		"reconcile.commission_ratio": p.Reconcile.CommissionRatio,
		"reconcile.shipping_ratio":   p.Reconcile.ShippingRatio,
		"costs.commission_rate":      p.Costs.CommissionRate,
	}
	for name, v := range ratios {
		if v != nil && (*v < 0 || *v > 1) {
			return fmt.Errorf("%s must be between 0 and 1, got %v", name, *v)
		}
	}
	if v := p.Reconcile.MismatchTolerance; v != nil && *v < 0 {
		return fmt.Errorf("reconcile.mismatch_tolerance must not be negative")
	}
	if v := p.Costs.DefaultShipping; v != nil && *v < 0 {
		return fmt.Errorf("costs.default_shipping must not be negative")
	}
	if v := p.Costs.SkipRows; v != nil && *v < 0 {
		return fmt.Errorf("costs.skip_rows must not be negative")
	}
	if v := p.Sales.MinColumns; v != nil && *v < 1 {
		return fmt.Errorf("sales.min_columns must be positive")
	}
	return nil
}

package enums

import (
	"fmt"
	"strings"
)

// SaleStatusFilter narrows reconciled sales by profitability.
type SaleStatusFilter string

const (
	SaleStatusAll    SaleStatusFilter = "all"
	SaleStatusProfit SaleStatusFilter = "profit"
	SaleStatusLoss   SaleStatusFilter = "loss"
)

var validSaleStatusFilters = []SaleStatusFilter{
	SaleStatusAll,
	SaleStatusProfit,
	SaleStatusLoss,
}

// String implements fmt.Stringer.
func (s SaleStatusFilter) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SaleStatusFilter.
func (s SaleStatusFilter) IsValid() bool {
	for _, candidate := range validSaleStatusFilters {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSaleStatusFilter converts raw input into a SaleStatusFilter. Empty input means all.
func ParseSaleStatusFilter(value string) (SaleStatusFilter, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return SaleStatusAll, nil
	}
	for _, candidate := range validSaleStatusFilters {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sale status filter %q", value)
}

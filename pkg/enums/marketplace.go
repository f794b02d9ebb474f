package enums

import (
	"fmt"
	"strings"
)

// Marketplace identifies the sales channel a record came from.
type Marketplace string

const (
	MarketplaceMercadoLivre Marketplace = "Mercado Livre"
	MarketplaceShopee       Marketplace = "Shopee"
	MarketplaceAmazon       Marketplace = "Amazon"
	MarketplaceShein        Marketplace = "Shein"

	// MarketplaceAll and MarketplaceAny are filter sentinels meaning "every marketplace".
	MarketplaceAll Marketplace = "All"
	MarketplaceAny Marketplace = "Marketplace"
)

var validMarketplaces = []Marketplace{
	MarketplaceMercadoLivre,
	MarketplaceShopee,
	MarketplaceAmazon,
	MarketplaceShein,
}

// String implements fmt.Stringer.
func (m Marketplace) String() string {
	return string(m)
}

// IsValid reports whether the value names a concrete marketplace.
func (m Marketplace) IsValid() bool {
	for _, candidate := range validMarketplaces {
		if candidate == m {
			return true
		}
	}
	return false
}

// IsSentinel reports whether the value means "no marketplace filtering".
func (m Marketplace) IsSentinel() bool {
	return m == MarketplaceAll || m == MarketplaceAny
}

// ParseMarketplace converts raw input into a Marketplace, ignoring case and
// surrounding whitespace. Sentinels are accepted.
func ParseMarketplace(value string) (Marketplace, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range append(validMarketplaces, MarketplaceAll, MarketplaceAny) {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid marketplace %q", value)
}

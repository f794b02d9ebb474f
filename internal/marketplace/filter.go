// Package marketplace partitions records by sales channel.
package marketplace

import (
	"strings"

	"github.com/angelmondragon/lucroreal-backend/pkg/enums"
)

// Tagged is implemented by records that know their marketplace.
type Tagged interface {
	MarketplaceTag() enums.Marketplace
}

// Filter returns the records sold on the marketplace named by tag.
//
// An empty tag, a sentinel ("All", "Marketplace") or an unrecognized tag
// returns records unchanged. A known marketplace with no data yields an empty
// slice, never nil.
func Filter[T Tagged](records []T, tag string) []T {
	if strings.TrimSpace(tag) == "" {
		return records
	}
	target, err := enums.ParseMarketplace(tag)
	if err != nil || target.IsSentinel() {
		return records
	}

	out := make([]T, 0, len(records))
	for _, record := range records {
		if record.MarketplaceTag() == target {
			out = append(out, record)
		}
	}
	return out
}

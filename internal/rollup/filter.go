package rollup

import (
	"strings"
	"time"

	"github.com/angelmondragon/lucroreal-backend/internal/reconcile"
	"github.com/angelmondragon/lucroreal-backend/pkg/dates"
	"github.com/angelmondragon/lucroreal-backend/pkg/enums"
)

// Criteria narrows the sales a view is computed over. From and To are
// inclusive calendar days; a zero value leaves that side open.
type Criteria struct {
	Status enums.SaleStatusFilter
	Search string
	From   time.Time
	To     time.Time
}

// HasRange reports whether a date bound is set.
func (c Criteria) HasRange() bool {
	return !c.From.IsZero() || !c.To.IsZero()
}

// Filter returns the sales matching every criterion, in input order. When a
// date range is set, sales whose date cannot be parsed are excluded.
func Filter(sales []reconcile.ReconciledSale, c Criteria) []reconcile.ReconciledSale {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	from := day(c.From)
	var until time.Time
	if !c.To.IsZero() {
		until = day(c.To).AddDate(0, 0, 1)
	}

	out := make([]reconcile.ReconciledSale, 0, len(sales))
	for _, sale := range sales {
		switch c.Status {
		case enums.SaleStatusProfit:
			if !sale.RealProfit.IsPositive() {
				continue
			}
		case enums.SaleStatusLoss:
			if !sale.RealProfit.IsNegative() {
				continue
			}
		}

		if search != "" && !matchesSearch(sale, search) {
			continue
		}

		if c.HasRange() {
			placed, ok := dates.Parse(sale.OrderDate)
			if !ok {
				continue
			}
			if !from.IsZero() && placed.Before(from) {
				continue
			}
			if !until.IsZero() && !placed.Before(until) {
				continue
			}
		}
		out = append(out, sale)
	}
	return out
}

func matchesSearch(sale reconcile.ReconciledSale, search string) bool {
	return strings.Contains(strings.ToLower(sale.OrderID), search) ||
		strings.Contains(strings.ToLower(sale.ListingTitle), search) ||
		strings.Contains(strings.ToLower(sale.SKU), search)
}

func day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

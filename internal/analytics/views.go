package analytics

import (
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/angelmondragon/lucroreal-backend/internal/analytics/types"
	"github.com/angelmondragon/lucroreal-backend/internal/marketplace"
	"github.com/angelmondragon/lucroreal-backend/internal/reconcile"
	"github.com/angelmondragon/lucroreal-backend/internal/rollup"
	"github.com/angelmondragon/lucroreal-backend/pkg/dates"
	"github.com/angelmondragon/lucroreal-backend/pkg/metrics"
)

// viewCache memoizes derived views per snapshot version. Keys embed the
// version, so a newer snapshot never reads entries built from an older one.
type viewCache struct {
	store   *gocache.Cache
	engine  *reconcile.Engine
	metrics *metrics.IngestMetrics
	now     func() time.Time
}

func newViewCache(ttl, cleanup time.Duration, engine *reconcile.Engine, m *metrics.IngestMetrics, now func() time.Time) *viewCache {
	return &viewCache{
		store:   gocache.New(ttl, cleanup),
		engine:  engine,
		metrics: m,
		now:     now,
	}
}

func cached[T any](c *viewCache, key string, build func() T) T {
	if v, ok := c.store.Get(key); ok {
		if typed, ok := v.(T); ok {
			c.metrics.CacheHit()
			return typed
		}
	}
	c.metrics.CacheMiss()
	v := build()
	c.store.SetDefault(key, v)
	return v
}

func (c *viewCache) reconciled(snap *Snapshot) []reconcile.ReconciledSale {
	key := fmt.Sprintf("v%d:reconciled", snap.Version)
	return cached(c, key, func() []reconcile.ReconciledSale {
		started := c.now()
		out := c.engine.ReconcileAll(snap.Sales.Lines, snap.Costs.Table)
		c.metrics.ObserveReconcile(c.now().Sub(started))
		return out
	})
}

func filterKey(q types.ViewQuery) string {
	parts := []string{
		strings.ToLower(strings.TrimSpace(q.Marketplace)),
		string(q.Criteria.Status),
		strings.ToLower(strings.TrimSpace(q.Criteria.Search)),
		dayKey(q.Criteria.From),
		dayKey(q.Criteria.To),
	}
	return strings.Join(parts, "|")
}

func dayKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dates.DayLayout)
}

func (c *viewCache) filtered(snap *Snapshot, q types.ViewQuery) []reconcile.ReconciledSale {
	key := fmt.Sprintf("v%d:sales:%s", snap.Version, filterKey(q))
	return cached(c, key, func() []reconcile.ReconciledSale {
		scoped := marketplace.Filter(c.reconciled(snap), q.Marketplace)
		return rollup.Filter(scoped, q.Criteria)
	})
}

func (c *viewCache) products(snap *Snapshot, q types.ViewQuery) []rollup.ProductRollup {
	key := fmt.Sprintf("v%d:products:%s", snap.Version, filterKey(q))
	return cached(c, key, func() []rollup.ProductRollup {
		return rollup.ByProduct(c.filtered(snap, q))
	})
}

func (c *viewCache) orders(snap *Snapshot, q types.ViewQuery) []rollup.OrderGroup {
	key := fmt.Sprintf("v%d:orders:%s", snap.Version, filterKey(q))
	return cached(c, key, func() []rollup.OrderGroup {
		return rollup.ByOrder(c.filtered(snap, q))
	})
}

func (c *viewCache) summary(snap *Snapshot, q types.ViewQuery) types.SummaryResponse {
	months := q.Months
	if months <= 0 {
		months = rollup.DefaultMonths
	}
	key := fmt.Sprintf("v%d:summary:%d:%s", snap.Version, months, filterKey(q))
	return cached(c, key, func() types.SummaryResponse {
		filtered := c.filtered(snap, q)
		return types.SummaryResponse{
			SnapshotVersion: snap.Version,
			Summary:         rollup.Summarize(filtered, c.products(snap, q)),
			Performance:     rollup.Breakdown(filtered),
			Monthly:         rollup.Monthly(filtered, months),
		}
	})
}

func (c *viewCache) flush() {
	c.store.Flush()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IngestMetrics records payload parsing, reconciliation and derived-view cache activity.
type IngestMetrics struct {
	rows      *prometheus.CounterVec
	reconcile prometheus.Histogram
	cache     *prometheus.CounterVec
	version   prometheus.Gauge
}

// NewIngestMetrics registers the ingest metrics on the provided registerer.
func NewIngestMetrics(reg prometheus.Registerer) *IngestMetrics {
	if reg == nil {
		return &IngestMetrics{}
	}
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_rows_total",
		Help: "Rows read from uploaded payloads by kind and outcome.",
	}, []string{"kind", "outcome"})
	reconcile := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reconcile_duration_seconds",
		Help:    "Time spent reconciling a snapshot into derived views.",
		Buckets: prometheus.DefBuckets,
	})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "derived_cache_lookups_total",
		Help: "Derived view cache lookups by result.",
	}, []string{"result"})
	version := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "snapshot_version",
		Help: "Version of the snapshot currently served.",
	})
	reg.MustRegister(rows, reconcile, cache, version)
	return &IngestMetrics{
		rows:      rows,
		reconcile: reconcile,
		cache:     cache,
		version:   version,
	}
}

// AddRows counts accepted and dropped rows for a payload kind.
func (m *IngestMetrics) AddRows(kind string, accepted, dropped int) {
	if m == nil || m.rows == nil {
		return
	}
	m.rows.WithLabelValues(normalizeLabel(kind), "accepted").Add(float64(accepted))
	m.rows.WithLabelValues(normalizeLabel(kind), "dropped").Add(float64(dropped))
}

func (m *IngestMetrics) ObserveReconcile(d time.Duration) {
	if m == nil || m.reconcile == nil {
		return
	}
	m.reconcile.Observe(d.Seconds())
}

func (m *IngestMetrics) CacheHit() {
	if m == nil || m.cache == nil {
		return
	}
	m.cache.WithLabelValues("hit").Inc()
}

func (m *IngestMetrics) CacheMiss() {
	if m == nil || m.cache == nil {
		return
	}
	m.cache.WithLabelValues("miss").Inc()
}

// SetSnapshotVersion exports the version currently served.
func (m *IngestMetrics) SetSnapshotVersion(v uint64) {
	if m == nil || m.version == nil {
		return
	}
	m.version.Set(float64(v))
}

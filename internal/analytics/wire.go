package analytics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/lucroreal-backend/pkg/config"
	"github.com/angelmondragon/lucroreal-backend/pkg/enums"
	"github.com/angelmondragon/lucroreal-backend/pkg/logger"
	"github.com/angelmondragon/lucroreal-backend/pkg/metrics"
)

// ServiceFromConfig loads the policy file, builds the pipeline and returns a
// service wired with ingest metrics on reg. Payloads may be nil.
func ServiceFromConfig(cfg *config.Config, logg *logger.Logger, payloads PayloadStore, reg prometheus.Registerer) (Service, error) {
	overrides, err := config.LoadPolicy(cfg.Policy.File)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}
	marketplace, _ := enums.ParseMarketplace(cfg.Upload.DefaultMarketplace)
	pipeline, err := NewPipeline(overrides, cfg.Policy.Resolver, marketplace)
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}
	return NewService(ServiceParams{
		Logger:       logg,
		Pipeline:     pipeline,
		Payloads:     payloads,
		Metrics:      metrics.NewIngestMetrics(reg),
		MaxBytes:     cfg.Upload.MaxBytes(),
		CacheTTL:     cfg.Cache.DerivedTTL,
		CacheCleanup: cfg.Cache.CleanupInterval,
	})
}

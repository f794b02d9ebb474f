package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/lucroreal-backend/internal/analytics"
	"github.com/angelmondragon/lucroreal-backend/internal/cron"
	"github.com/angelmondragon/lucroreal-backend/internal/sources"
	"github.com/angelmondragon/lucroreal-backend/pkg/config"
	"github.com/angelmondragon/lucroreal-backend/pkg/enums"
	"github.com/angelmondragon/lucroreal-backend/pkg/logger"
	"github.com/angelmondragon/lucroreal-backend/pkg/metrics"
	"github.com/angelmondragon/lucroreal-backend/pkg/redis"
)

const refreshLockName = "source-refresh"

func main() {
	logg := logger.New(logger.Options{ServiceName: config.ServiceKindRefreshWorker})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	cfg.Service.Kind = config.ServiceKindRefreshWorker

	logg = logger.New(logger.Options{
		ServiceName: config.ServiceKindRefreshWorker,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})

	if !cfg.Redis.Enabled() {
		logg.Error(ctx, "refresh worker requires redis", errors.New("redis not configured"))
		os.Exit(1)
	}
	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	pair, err := sources.FromConfig(ctx, cfg.Sources, cfg.Upload.MaxBytes(), logg)
	if err != nil {
		logg.Error(ctx, "failed to configure sources", err)
		os.Exit(1)
	}
	if pair.Empty() {
		logg.Error(ctx, "no sources configured", errors.New("set a sales or costs source path"))
		os.Exit(1)
	}

	analyticsService, err := analytics.ServiceFromConfig(cfg, logg, analytics.NewRedisPayloadStore(redisClient), prometheus.DefaultRegisterer)
	if err != nil {
		logg.Error(ctx, "failed to create analytics service", err)
		os.Exit(1)
	}
	// Seed from the shared store so unchanged sources are not republished.
	if _, err := analyticsService.Sync(ctx); err != nil {
		logg.Error(ctx, "initial snapshot sync failed", err)
	}

	marketplace, err := enums.ParseMarketplace(cfg.Upload.DefaultMarketplace)
	if err != nil || !marketplace.IsValid() {
		marketplace = enums.MarketplaceMercadoLivre
	}
	refreshJob, err := cron.NewSourceRefreshJob(cron.SourceRefreshJobParams{
		Logger:      logg,
		Sources:     pair,
		Analytics:   analyticsService,
		Marketplace: marketplace,
	})
	if err != nil {
		logg.Error(ctx, "failed to create refresh job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(refreshLockName), cfg.Refresh.LockTTL)
	if err != nil {
		logg.Error(ctx, "failed to create refresh lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(refreshJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Refresh.Interval,
		Schedule: cfg.Refresh.Schedule,
	})
	if err != nil {
		logg.Error(ctx, "failed to create refresh service", err)
		os.Exit(1)
	}

	if cfg.App.Port != "" {
		metricsServer := &http.Server{
			Addr:              ":" + cfg.App.Port,
			Handler:           promhttp.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logg.Error(ctx, "metrics server stopped", err)
			}
		}()
		defer metricsServer.Close()
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"sales_source": describe(pair.Sales),
		"costs_source": describe(pair.Costs),
	}), "starting refresh worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "refresh worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "refresh worker shutting down gracefully")
}

func describe(src sources.Source) string {
	if src == nil {
		return "none"
	}
	return src.Describe()
}

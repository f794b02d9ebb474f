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

	"github.com/angelmondragon/lucroreal-backend/api/routes"
	"github.com/angelmondragon/lucroreal-backend/internal/analytics"
	"github.com/angelmondragon/lucroreal-backend/internal/cron"
	"github.com/angelmondragon/lucroreal-backend/pkg/config"
	"github.com/angelmondragon/lucroreal-backend/pkg/logger"
	"github.com/angelmondragon/lucroreal-backend/pkg/metrics"
	"github.com/angelmondragon/lucroreal-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: config.ServiceKindAPI})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	cfg.Service.Kind = config.ServiceKindAPI

	logg = logger.New(logger.Options{
		ServiceName: config.ServiceKindAPI,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := routes.Deps{Metrics: promhttp.Handler()}
	var payloads analytics.PayloadStore
	if cfg.Redis.Enabled() {
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
		payloads = analytics.NewRedisPayloadStore(redisClient)
		deps.RedisPinger = redisClient
		deps.Limiter = redisClient
	} else {
		logg.Warn(ctx, "redis not configured; snapshots stay in memory and uploads are not rate limited")
	}

	analyticsService, err := analytics.ServiceFromConfig(cfg, logg, payloads, prometheus.DefaultRegisterer)
	if err != nil {
		logg.Error(ctx, "failed to create analytics service", err)
		os.Exit(1)
	}
	deps.Analytics = analyticsService

	if payloads != nil {
		if _, err := analyticsService.Sync(ctx); err != nil {
			logg.Error(ctx, "initial snapshot sync failed", err)
		}
		syncJob, err := cron.NewSnapshotSyncJob(logg, analyticsService)
		if err != nil {
			logg.Error(ctx, "failed to create snapshot sync job", err)
			os.Exit(1)
		}
		syncService, err := cron.NewService(cron.ServiceParams{
			Logger:   logg,
			Registry: cron.NewRegistry(syncJob),
			Lock:     cron.NoopLock{},
			Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
			Interval: cfg.Refresh.SyncInterval,
		})
		if err != nil {
			logg.Error(ctx, "failed to create snapshot sync loop", err)
			os.Exit(1)
		}
		go func() {
			if err := syncService.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error(ctx, "snapshot sync loop stopped", err)
			}
		}()
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"addr":        addr,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "graceful shutdown failed", err)
		}
		logg.Info(shutdownCtx, "api server shut down")
	}
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Service ServiceConfig
	Redis   RedisConfig
	Cache   CacheConfig
	Upload  UploadConfig
	Sources SourcesConfig
	Refresh RefreshConfig
	Policy  PolicyConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Sources.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Refresh.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"LUCROREAL_APP_ENV" required:"true"`
	Port         string   `envconfig:"LUCROREAL_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"LUCROREAL_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"LUCROREAL_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"LUCROREAL_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"LUCROREAL_SERVICE_KIND" default:"api"`
}

// RedisConfig is optional for the API; without it snapshots live in memory only.
type RedisConfig struct {
	URL          string        `envconfig:"LUCROREAL_REDIS_URL"`
	Address      string        `envconfig:"LUCROREAL_REDIS_ADDR"`
	Password     string        `envconfig:"LUCROREAL_REDIS_PASSWORD"`
	DB           int           `envconfig:"LUCROREAL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LUCROREAL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LUCROREAL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LUCROREAL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LUCROREAL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LUCROREAL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type CacheConfig struct {
	DerivedTTL      time.Duration `envconfig:"LUCROREAL_CACHE_DERIVED_TTL" default:"10m"`
	CleanupInterval time.Duration `envconfig:"LUCROREAL_CACHE_CLEANUP_INTERVAL" default:"15m"`
}

type UploadConfig struct {
	MaxMB              int           `envconfig:"LUCROREAL_MAX_UPLOAD_MB" default:"20"`
	RateLimit          int64         `envconfig:"LUCROREAL_UPLOAD_RATE_LIMIT" default:"30"`
	RateLimitWindow    time.Duration `envconfig:"LUCROREAL_UPLOAD_RATE_LIMIT_WINDOW" default:"1m"`
	DefaultMarketplace string        `envconfig:"LUCROREAL_UPLOAD_MARKETPLACE" default:"Mercado Livre"`
}

// MaxBytes returns the upload limit in bytes.
func (u UploadConfig) MaxBytes() int64 {
	if u.MaxMB <= 0 {
		return 0
	}
	return int64(u.MaxMB) << 20
}

type SourcesConfig struct {
	Backend     string `envconfig:"LUCROREAL_SOURCES_BACKEND" default:"file"`
	SalesPath   string `envconfig:"LUCROREAL_SOURCES_SALES_PATH"`
	CostsPath   string `envconfig:"LUCROREAL_SOURCES_COSTS_PATH"`
	S3Bucket    string `envconfig:"LUCROREAL_S3_BUCKET"`
	S3Region    string `envconfig:"LUCROREAL_S3_REGION" default:"us-east-1"`
	S3Endpoint  string `envconfig:"LUCROREAL_S3_ENDPOINT"`
	S3AccessKey string `envconfig:"LUCROREAL_S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"LUCROREAL_S3_SECRET_KEY"`
	S3PathStyle bool   `envconfig:"LUCROREAL_S3_PATH_STYLE" default:"false"`
}

func (s SourcesConfig) IsS3() bool {
	return strings.EqualFold(s.Backend, SourcesBackendS3)
}

func (s SourcesConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Backend)) {
	case SourcesBackendFile:
		return nil
	case SourcesBackendS3:
		if s.S3Bucket == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvS3Bucket, EnvSourcesBackend, SourcesBackendS3)
		}
		return nil
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvSourcesBackend, SourcesBackendFile, SourcesBackendS3, s.Backend)
	}
}

type RefreshConfig struct {
	Interval     time.Duration `envconfig:"LUCROREAL_REFRESH_INTERVAL" default:"5m"`
	Schedule     string        `envconfig:"LUCROREAL_REFRESH_SCHEDULE"`
	LockTTL      time.Duration `envconfig:"LUCROREAL_REFRESH_LOCK_TTL" default:"2m"`
	SyncInterval time.Duration `envconfig:"LUCROREAL_SNAPSHOT_SYNC_INTERVAL" default:"30s"`
}

func (r RefreshConfig) validate() error {
	if r.Interval <= 0 && strings.TrimSpace(r.Schedule) == "" {
		return fmt.Errorf("either %s or %s is required", EnvRefreshInterval, EnvRefreshSchedule)
	}
	return nil
}

type PolicyConfig struct {
	File     string `envconfig:"LUCROREAL_POLICY_FILE"`
	Resolver string `envconfig:"LUCROREAL_COST_RESOLVER" default:"first-match"`
}

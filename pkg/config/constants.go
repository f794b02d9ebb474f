package config

const (
	EnvPrefix = "LUCROREAL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	SourcesBackendFile = "file"
	SourcesBackendS3   = "s3"

	ServiceKindAPI           = "api"
	ServiceKindRefreshWorker = "refresh-worker"
)

const (
	EnvAppEnv          = "LUCROREAL_APP_ENV"
	EnvPort            = "LUCROREAL_APP_PORT"
	EnvLogLevel        = "LUCROREAL_LOG_LEVEL"
	EnvCORSOrigins     = "LUCROREAL_CORS_ORIGINS"
	EnvServiceKind     = "LUCROREAL_SERVICE_KIND"
	EnvRedisURL        = "LUCROREAL_REDIS_URL"
	EnvMaxUploadMB     = "LUCROREAL_MAX_UPLOAD_MB"
	EnvSourcesBackend  = "LUCROREAL_SOURCES_BACKEND"
	EnvSourcesSales    = "LUCROREAL_SOURCES_SALES_PATH"
	EnvSourcesCosts    = "LUCROREAL_SOURCES_COSTS_PATH"
	EnvS3Bucket        = "LUCROREAL_S3_BUCKET"
	EnvRefreshInterval = "LUCROREAL_REFRESH_INTERVAL"
	EnvRefreshSchedule = "LUCROREAL_REFRESH_SCHEDULE"
	EnvPolicyFile      = "LUCROREAL_POLICY_FILE"
	EnvCostResolver    = "LUCROREAL_COST_RESOLVER"
)

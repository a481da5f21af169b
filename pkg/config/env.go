package config

const EnvPrefix = "THREADLINE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv          = "THREADLINE_APP_ENV"
	EnvPort            = "THREADLINE_APP_PORT"
	EnvDBDSN           = "THREADLINE_DB_DSN"
	EnvDBHost          = "THREADLINE_DB_HOST"
	EnvDBUser          = "THREADLINE_DB_USER"
	EnvDBName          = "THREADLINE_DB_NAME"
	EnvDBPassword      = "THREADLINE_DB_PASSWORD"
	EnvUseSQLite       = "THREADLINE_USE_SQLITE"
	EnvRedisURL        = "THREADLINE_REDIS_URL"
	EnvJWTSecret       = "THREADLINE_JWT_SECRET"
	EnvJWTIssuer       = "THREADLINE_JWT_ISSUER"
	EnvCacheOrderTTL   = "THREADLINE_CACHE_ORDER_TTL"
	EnvGCPProjectID    = "THREADLINE_GCP_PROJECT_ID"
	EnvPubSubTopic     = "THREADLINE_PUBSUB_CHANGE_EVENTS_TOPIC"
	EnvDefaultCurrency = "THREADLINE_DEFAULT_CURRENCY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Cache        CacheConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Ledger       LedgerConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"THREADLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"THREADLINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"THREADLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"THREADLINE_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"THREADLINE_LOG_FORMAT" default:"json"`
	// CORSOrigins is a comma separated allow list.
	CORSOrigins    []string      `envconfig:"THREADLINE_CORS_ORIGINS" default:"http://localhost:3000"`
	IdempotencyTTL time.Duration `envconfig:"THREADLINE_IDEMPOTENCY_TTL" default:"24h"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN        string `envconfig:"THREADLINE_DB_DSN"`
	Driver     string `envconfig:"THREADLINE_DB_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"THREADLINE_SQLITE_PATH" default:"threadline.db"`

	LegacyHost     string `envconfig:"THREADLINE_DB_HOST"`
	LegacyPort     int    `envconfig:"THREADLINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"THREADLINE_DB_USER"`
	LegacyPassword string `envconfig:"THREADLINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"THREADLINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"THREADLINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"THREADLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"THREADLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"THREADLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"THREADLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional. Leaving both URL and address empty selects the
// in-process cache and disables the realtime broadcaster.
type RedisConfig struct {
	URL          string        `envconfig:"THREADLINE_REDIS_URL"`
	Address      string        `envconfig:"THREADLINE_REDIS_ADDR"`
	Password     string        `envconfig:"THREADLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"THREADLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"THREADLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"THREADLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"THREADLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"THREADLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"THREADLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any Redis endpoint is configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type CacheConfig struct {
	OrderTTL            time.Duration `envconfig:"THREADLINE_CACHE_ORDER_TTL" default:"300s"`
	ListTTL             time.Duration `envconfig:"THREADLINE_CACHE_LIST_TTL" default:"300s"`
	MemoryMaxItems      int           `envconfig:"THREADLINE_CACHE_MEMORY_MAX_ITEMS" default:"10000"`
	IdempotencyMaxItems int           `envconfig:"THREADLINE_IDEMPOTENCY_MEMORY_MAX_ITEMS" default:"100000"`
}

type JWTConfig struct {
	Secret            string        `envconfig:"THREADLINE_JWT_SECRET" required:"true"`
	Issuer            string        `envconfig:"THREADLINE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int           `envconfig:"THREADLINE_JWT_EXPIRATION_MINUTES" default:"60"`
	Leeway            time.Duration `envconfig:"THREADLINE_JWT_LEEWAY" default:"30s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"THREADLINE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"THREADLINE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"THREADLINE_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	ChangeEventsTopic string `envconfig:"THREADLINE_PUBSUB_CHANGE_EVENTS_TOPIC"`
}

// Enabled reports whether change events should be forwarded to Pub/Sub.
func (p PubSubConfig) Enabled(gcp GCPConfig) bool {
	return strings.TrimSpace(gcp.ProjectID) != "" && strings.TrimSpace(p.ChangeEventsTopic) != ""
}

type LedgerConfig struct {
	DefaultCurrency        string `envconfig:"THREADLINE_DEFAULT_CURRENCY" default:"NGN"`
	OrderNumberMaxAttempts int    `envconfig:"THREADLINE_ORDER_NUMBER_MAX_ATTEMPTS" default:"5"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

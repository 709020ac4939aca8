package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "tillpoint"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "TILLPOINT_APP_ENV"
	EnvPort     = "TILLPOINT_APP_PORT"
	EnvDBDSN    = "TILLPOINT_DB_DSN"
	EnvRedisURL = "TILLPOINT_REDIS_URL"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Engine       EngineConfig
	Rates        RatesConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TILLPOINT_APP_ENV" required:"true"`
	Port         string `envconfig:"TILLPOINT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TILLPOINT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TILLPOINT_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"TILLPOINT_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"TILLPOINT_DB_DSN" required:"true"`

	MaxOpenConns    int           `envconfig:"TILLPOINT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TILLPOINT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TILLPOINT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TILLPOINT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TILLPOINT_REDIS_URL"`
	PoolSize     int           `envconfig:"TILLPOINT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TILLPOINT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TILLPOINT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TILLPOINT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TILLPOINT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// EngineConfig tunes the settlement engine.
type EngineConfig struct {
	BaseCurrency       string `envconfig:"TILLPOINT_ENGINE_BASE_CURRENCY" default:"USD"`
	InvoiceRetryBudget int    `envconfig:"TILLPOINT_ENGINE_INVOICE_RETRY_BUDGET" default:"3"`
	HeldCodeLength     int    `envconfig:"TILLPOINT_ENGINE_HELD_CODE_LENGTH" default:"8"`
	DefaultTaxRatePct  string `envconfig:"TILLPOINT_ENGINE_DEFAULT_TAX_RATE_PCT" default:"0"`
}

type RatesConfig struct {
	CacheTTL time.Duration `envconfig:"TILLPOINT_RATES_CACHE_TTL" default:"15m"`
	// Static pairs as "FROM:TO=rate" entries, comma separated.
	Static string `envconfig:"TILLPOINT_RATES_STATIC" default:"USD:KHR=4100,KHR:USD=0.000243902439"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TILLPOINT_AUTO_MIGRATE" default:"false"`
	RatesCache  bool `envconfig:"TILLPOINT_RATES_CACHE" default:"true"`
}

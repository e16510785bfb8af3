package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Catalog CatalogConfig
	Orders  OrdersConfig
	Redis   RedisConfig
	Breaker BreakerConfig
	Expiry  ExpiryConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string   `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"STOREFRONT_CORS_ORIGINS" default:"http://localhost:4200"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type CatalogConfig struct {
	BaseURL  string        `envconfig:"STOREFRONT_CATALOG_BASE_URL" required:"true"`
	Timeout  time.Duration `envconfig:"STOREFRONT_CATALOG_TIMEOUT" default:"5s"`
	CacheTTL time.Duration `envconfig:"STOREFRONT_CATALOG_CACHE_TTL" default:"2m"`
}

type OrdersConfig struct {
	SubmitURL string        `envconfig:"STOREFRONT_ORDERS_SUBMIT_URL" required:"true"`
	Timeout   time.Duration `envconfig:"STOREFRONT_ORDERS_TIMEOUT" default:"10s"`
}

// RedisConfig is optional; an empty URL disables the catalog product cache.
type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type BreakerConfig struct {
	Interval     time.Duration `envconfig:"STOREFRONT_BREAKER_INTERVAL" default:"60s"`
	Timeout      time.Duration `envconfig:"STOREFRONT_BREAKER_TIMEOUT" default:"30s"`
	FailureRatio float64       `envconfig:"STOREFRONT_BREAKER_FAILURE_RATIO" default:"0.5"`
	MinRequests  uint32        `envconfig:"STOREFRONT_BREAKER_MIN_REQUESTS" default:"5"`
	MaxRequests  uint32        `envconfig:"STOREFRONT_BREAKER_MAX_REQUESTS" default:"1"`
}

type ExpiryConfig struct {
	YearWindow int `envconfig:"STOREFRONT_EXPIRY_YEAR_WINDOW" default:"10"`
}

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv          = "STOREFRONT_APP_ENV"
	EnvPort            = "STOREFRONT_APP_PORT"
	EnvLogLevel        = "STOREFRONT_LOG_LEVEL"
	EnvLogFormat       = "STOREFRONT_LOG_FORMAT"
	EnvBackendURL      = "STOREFRONT_BACKEND_URL"
	EnvBackendTimeout  = "STOREFRONT_BACKEND_TIMEOUT"
	EnvSearchDebounce  = "STOREFRONT_SEARCH_DEBOUNCE"
	EnvRedisURL        = "STOREFRONT_REDIS_URL"
	EnvCatalogCacheTTL = "STOREFRONT_CATALOG_CACHE_TTL"
	EnvCORSOrigins     = "STOREFRONT_CORS_ORIGINS"
	EnvMetricsEnabled  = "STOREFRONT_METRICS_ENABLED"

	DefaultBackendURL = "http://localhost:8001"
)

type Config struct {
	App     AppConfig
	Backend BackendConfig
	Search  SearchConfig
	Redis   RedisConfig
	HTTP    HTTPConfig
}

// Load reads the process environment once and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Backend.normalize(); err != nil {
		return nil, err
	}
	if cfg.Search.Debounce < 0 {
		return nil, fmt.Errorf("%s must not be negative", EnvSearchDebounce)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig selects the REST backend origin. A zero Timeout keeps the
// http.Client default.
type BackendConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_BACKEND_URL" default:"http://localhost:8001"`
	Timeout time.Duration `envconfig:"STOREFRONT_BACKEND_TIMEOUT" default:"0s"`
}

func (b *BackendConfig) normalize() error {
	trimmed := strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if trimmed == "" {
		trimmed = DefaultBackendURL
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvBackendURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", EnvBackendURL, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host", EnvBackendURL)
	}
	if b.Timeout < 0 {
		return fmt.Errorf("%s must not be negative", EnvBackendTimeout)
	}
	b.BaseURL = trimmed
	return nil
}

type SearchConfig struct {
	Debounce time.Duration `envconfig:"STOREFRONT_SEARCH_DEBOUNCE" default:"300ms"`
}

// RedisConfig enables the catalog cache when URL or Address is set.
type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
	CatalogTTL   time.Duration `envconfig:"STOREFRONT_CATALOG_CACHE_TTL" default:"30s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type HTTPConfig struct {
	CORSOrigins    []string `envconfig:"STOREFRONT_CORS_ORIGINS" default:"http://localhost:3000"`
	MetricsEnabled bool     `envconfig:"STOREFRONT_METRICS_ENABLED" default:"true"`
}

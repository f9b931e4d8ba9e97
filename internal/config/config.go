package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	JWTSecret     string        `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	RedisAddr      string        `env:"REDIS_ADDR"` // empty disables the tenant cache
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	RedisDB        int           `env:"REDIS_DB" envDefault:"0"`
	TenantCacheTTL time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`

	MinioEndpoint   string        `env:"MINIO_ENDPOINT"` // empty disables the note archive
	MinioAccessKey  string        `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey  string        `env:"MINIO_SECRET_KEY"`
	MinioUseSSL     bool          `env:"MINIO_USE_SSL" envDefault:"false"`
	ArchiveBucket   string        `env:"ARCHIVE_BUCKET" envDefault:"notes-archive"`
	ArchiveInterval time.Duration `env:"ARCHIVE_INTERVAL" envDefault:"24h"`

	AMQPURL        string `env:"AMQP_URL"` // empty disables domain events
	EventsExchange string `env:"EVENTS_EXCHANGE" envDefault:"notes.events"`

	AuthStrict            bool     `env:"AUTH_STRICT" envDefault:"false"`
	QuotaStrict           bool     `env:"QUOTA_STRICT" envDefault:"true"`
	AdminEndpointsEnabled bool     `env:"ADMIN_ENDPOINTS_ENABLED" envDefault:"false"`
	AdminToken            string   `env:"ADMIN_TOKEN"`
	CORSAllowOrigins      []string `env:"CORS_ALLOW_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from the environment, after an optional .env file.
func Load() (*Config, error) {
	// .env is only for local development
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks combinations env tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be blank"))
	}
	if c.JWTExpiration <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION must be positive"))
	}
	if c.TenantCacheTTL <= 0 {
		errs = append(errs, errors.New("TENANT_CACHE_TTL must be positive"))
	}
	if c.ArchiveInterval <= 0 {
		errs = append(errs, errors.New("ARCHIVE_INTERVAL must be positive"))
	}
	if c.AdminEndpointsEnabled && c.AdminToken == "" {
		errs = append(errs, errors.New("ADMIN_TOKEN is required when ADMIN_ENDPOINTS_ENABLED is set"))
	}
	if c.MinioEndpoint != "" && c.ArchiveBucket == "" {
		errs = append(errs, errors.New("ARCHIVE_BUCKET is required when MINIO_ENDPOINT is set"))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q must be json or console", c.LogFormat))
	}
	return errors.Join(errs...)
}

// CacheEnabled reports whether a Redis address is configured.
func (c *Config) CacheEnabled() bool { return c.RedisAddr != "" }

// ArchiveEnabled reports whether object storage is configured.
func (c *Config) ArchiveEnabled() bool { return c.MinioEndpoint != "" }

// EventsEnabled reports whether an AMQP broker is configured.
func (c *Config) EventsEnabled() bool { return c.AMQPURL != "" }

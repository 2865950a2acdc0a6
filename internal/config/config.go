package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/tair/alcohol-tracker/pkg/cache"
	"github.com/tair/alcohol-tracker/pkg/database"
	"github.com/tair/alcohol-tracker/pkg/tracing"
)

const (
	StoreFile  = "file"
	StoreRedis = "redis"

	DefaultCatalogURL = "https://raw.githubusercontent.com/AlexGustafsson/systembolaget-api-data/main/data/assortment.json"
)

// Config holds all configuration for the tracker service
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"alcohol-tracker"`
	Version     string `env:"SERVICE_VERSION" envDefault:"1.0.0"`

	HTTPPort           int           `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// Database
	DBDriver   string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBPath     string `env:"DB_PATH" envDefault:"alcohol_tracker.db"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"alcohol_tracker"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// Redis is optional; empty address disables it
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka is optional; no brokers means events are dropped
	KafkaBrokers       []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaConsumerGroup string   `env:"KAFKA_CONSUMER_GROUP" envDefault:"alcohol-tracker"`
	// InstanceID tags published events and suffixes the consumer group; it
	// defaults to the host name so restarts rejoin the same group
	InstanceID string `env:"INSTANCE_ID"`

	// Catalog
	CatalogURL          string        `env:"CATALOG_URL" envDefault:"https://raw.githubusercontent.com/AlexGustafsson/systembolaget-api-data/main/data/assortment.json"`
	CatalogTTL          time.Duration `env:"CATALOG_TTL" envDefault:"24h"`
	CatalogStore        string        `env:"CATALOG_STORE" envDefault:"file"`
	CatalogCachePath    string        `env:"CATALOG_CACHE_PATH"`
	CatalogFetchTimeout time.Duration `env:"CATALOG_FETCH_TIMEOUT" envDefault:"60s"`

	// Auth
	JWTSecret string `env:"JWT_SECRET"`
	JWTIssuer string `env:"JWT_ISSUER" envDefault:"alcohol-tracker"`

	// Tracing
	TracingEnabled bool    `env:"TRACING_ENABLED" envDefault:"false"`
	JaegerEndpoint string  `env:"JAEGER_ENDPOINT" envDefault:"http://localhost:14268/api/traces"`
	SampleRatio    float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Rate limiting of catalog search
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"60"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// Load reads an optional .env file and then the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.InstanceID == "" {
		cfg.InstanceID = defaultInstanceID()
	}
	if cfg.CatalogCachePath == "" {
		cfg.CatalogCachePath = filepath.Join(os.TempDir(), "systembolaget_products.json")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultInstanceID() string {
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return uuid.NewString()
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	switch c.DBDriver {
	case database.DriverSQLite, database.DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.CatalogStore {
	case StoreFile:
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("CATALOG_STORE=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unsupported CATALOG_STORE %q", c.CatalogStore)
	}
	if c.CatalogTTL <= 0 {
		return fmt.Errorf("CATALOG_TTL must be positive, got %s", c.CatalogTTL)
	}
	if c.CatalogFetchTimeout <= 0 {
		return fmt.Errorf("CATALOG_FETCH_TIMEOUT must be positive, got %s", c.CatalogFetchTimeout)
	}
	if c.SampleRatio < 0 || c.SampleRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %v", c.SampleRatio)
	}
	if c.RateLimitRequests < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.RateLimitRequests)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

func (c *Config) Database() database.Config {
	return database.Config{
		Driver:     c.DBDriver,
		Path:       c.DBPath,
		Host:       c.DBHost,
		Port:       c.DBPort,
		User:       c.DBUser,
		Password:   c.DBPassword,
		DBName:     c.DBName,
		SSLMode:    c.DBSSLMode,
		LogQueries: c.IsDevelopment(),
	}
}

func (c *Config) Redis() cache.RedisConfig {
	return cache.RedisConfig{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB}
}

func (c *Config) Tracing() tracing.Config {
	return tracing.Config{
		ServiceName:    c.ServiceName,
		ServiceVersion: c.Version,
		JaegerEndpoint: c.JaegerEndpoint,
		SampleRatio:    c.SampleRatio,
	}
}

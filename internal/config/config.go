package config

import (
	"fmt"
	"strconv"
	"time"

	pkgconfig "github.com/utafrali/catalog-datagen/pkg/config"
	"github.com/utafrali/catalog-datagen/pkg/database"
	"github.com/utafrali/catalog-datagen/pkg/tracing"
)

// Catalog sources.
const (
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
)

// Config holds all environment configuration for a generation run.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Generation
	PlanFile  string `env:"DATAGEN_PLAN_FILE" envDefault:"configs/plan.yml"`
	OutputDir string `env:"DATAGEN_OUTPUT_DIR"`
	Seed      string `env:"DATAGEN_SEED"`
	Workers   int    `env:"DATAGEN_WORKERS" envDefault:"1"`
	Progress  bool   `env:"DATAGEN_PROGRESS" envDefault:"false"`

	// Catalog
	CatalogSource string `env:"DATAGEN_CATALOG_SOURCE" envDefault:"file"`
	CatalogFile   string `env:"DATAGEN_CATALOG_FILE" envDefault:"configs/catalog.yml"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"catalog"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"catalog_secret"`
	PostgresDB   string `env:"CATALOG_DB_NAME" envDefault:"catalog"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns int32 `env:"DB_MAX_CONNS" envDefault:"4"`
	DBMinConns int32 `env:"DB_MIN_CONNS" envDefault:"1"`

	// Slow query logging
	SlowQueryThresholdMs int `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`

	// Redis identifier sequence, disabled when REDIS_HOST is empty
	RedisHost   string `env:"REDIS_HOST"`
	RedisPort   int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass   string `env:"REDIS_PASSWORD"`
	RedisDB     int    `env:"REDIS_DB" envDefault:"0"`
	SequenceKey string `env:"DATAGEN_SEQUENCE_KEY" envDefault:"datagen:sequence:product"`

	// Kafka
	PublishEnabled   bool     `env:"DATAGEN_PUBLISH_ENABLED" envDefault:"false"`
	KafkaBrokers     []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	PublishBatchSize int      `env:"DATAGEN_PUBLISH_BATCH_SIZE" envDefault:"500"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Metrics and health server, disabled when 0
	MetricsPort int `env:"DATAGEN_METRICS_PORT" envDefault:"0"`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.0/8,::1/128" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load datagen config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.PlanFile == "" {
		return fmt.Errorf("DATAGEN_PLAN_FILE is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("DATAGEN_WORKERS must be at least 1, got %d", c.Workers)
	}
	if _, _, err := c.SeedValue(); err != nil {
		return err
	}
	switch c.CatalogSource {
	case CatalogSourceFile:
		if c.CatalogFile == "" {
			return fmt.Errorf("DATAGEN_CATALOG_FILE is required for the file catalog source")
		}
	case CatalogSourcePostgres:
		if c.PostgresHost == "" {
			return fmt.Errorf("POSTGRES_HOST is required")
		}
		if c.PostgresUser == "" {
			return fmt.Errorf("POSTGRES_USER is required")
		}
		if c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
		}
	default:
		return fmt.Errorf("invalid DATAGEN_CATALOG_SOURCE: %q", c.CatalogSource)
	}
	if c.RedisHost != "" && (c.RedisPort < 1 || c.RedisPort > 65535) {
		return fmt.Errorf("invalid Redis port: %d", c.RedisPort)
	}
	if c.PublishEnabled {
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required when publishing is enabled")
		}
		if c.PublishBatchSize < 1 {
			return fmt.Errorf("DATAGEN_PUBLISH_BATCH_SIZE must be at least 1, got %d", c.PublishBatchSize)
		}
	}
	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", c.MetricsPort)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}

// SeedValue parses DATAGEN_SEED. ok is false when the variable is unset.
func (c *Config) SeedValue() (seed int64, ok bool, err error) {
	if c.Seed == "" {
		return 0, false, nil
	}
	seed, err = strconv.ParseInt(c.Seed, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid DATAGEN_SEED %q: %w", c.Seed, err)
	}
	return seed, true, nil
}

// PostgresConfig returns the catalog database pool configuration.
func (c *Config) PostgresConfig() *database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPass
	pg.DBName = c.PostgresDB
	pg.SSLMode = c.PostgresSSL
	pg.MaxConns = c.DBMaxConns
	pg.MinConns = c.DBMinConns
	return &pg
}

// RedisEnabled reports whether identifier ranges come from Redis.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// RedisConfig returns the sequence store connection configuration.
func (c *Config) RedisConfig() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPass,
		DB:       c.RedisDB,
	}
}

// TracingConfig returns the OpenTelemetry configuration for serviceName.
func (c *Config) TracingConfig(serviceName string) tracing.Config {
	tc := tracing.DefaultConfig(serviceName)
	tc.Environment = c.Environment
	tc.OTLPEndpoint = c.OTELEndpoint
	tc.SampleRate = c.OTELSampleRate
	tc.Enabled = c.OTELEnabled
	return tc
}

// SlowQueryThreshold returns LOG_SLOW_QUERY_MS as a duration.
func (c *Config) SlowQueryThreshold() time.Duration {
	return time.Duration(c.SlowQueryThresholdMs) * time.Millisecond
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ftrs/dos-migration/internal/platform/db"
)

// QueueBatchLimit is the largest number of events a single queue batch may carry.
const QueueBatchLimit = 10

type Config struct {
	Env                string        `mapstructure:"ENVIRONMENT"`
	Workspace          string        `mapstructure:"WORKSPACE"`
	TablePrefix        string        `mapstructure:"TABLE_PREFIX"`
	Port               string        `mapstructure:"PORT"`
	SourceDatabaseURL  string        `mapstructure:"SOURCE_DATABASE_URL"`
	TargetDatabaseURL  string        `mapstructure:"TARGET_DATABASE_URL"`
	SourceSchema       string        `mapstructure:"SOURCE_SCHEMA"`
	TargetSchema       string        `mapstructure:"TARGET_SCHEMA"`
	DBMaxConns         int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns         int32         `mapstructure:"DB_MIN_CONNS"`
	DBStatementTimeout time.Duration `mapstructure:"DB_STATEMENT_TIMEOUT"`
	BatchSize          int           `mapstructure:"BATCH_SIZE"`
	AuthSigningKey     string        `mapstructure:"AUTH_SIGNING_KEY"`
	QueueURL           string        `mapstructure:"QUEUE_URL"`
	QueueWorkers       int           `mapstructure:"QUEUE_WORKERS"`
	QueueRateLimit     float64       `mapstructure:"QUEUE_RATE_LIMIT"`
	QueueBatchSize     int           `mapstructure:"QUEUE_BATCH_SIZE"`
	S3Endpoint         string        `mapstructure:"S3_ENDPOINT"`
	S3AccessKey        string        `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey        string        `mapstructure:"S3_SECRET_KEY"`
	S3Region           string        `mapstructure:"S3_REGION"`
	S3UseSSL           bool          `mapstructure:"S3_USE_SSL"`
	S3Bucket           string        `mapstructure:"S3_BUCKET"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("ENVIRONMENT", "local")
	v.SetDefault("TABLE_PREFIX", "ftrs-dos")
	v.SetDefault("PORT", "8000")
	v.SetDefault("SOURCE_SCHEMA", "pathwaysdos")
	v.SetDefault("TARGET_SCHEMA", "dos_migration")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DB_STATEMENT_TIMEOUT", "5m")
	v.SetDefault("BATCH_SIZE", 1000)
	v.SetDefault("QUEUE_WORKERS", 10)
	v.SetDefault("QUEUE_RATE_LIMIT", 50)
	v.SetDefault("QUEUE_BATCH_SIZE", QueueBatchLimit)
	v.SetDefault("S3_REGION", "eu-west-2")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"ENVIRONMENT", "WORKSPACE", "TABLE_PREFIX", "PORT",
		"SOURCE_DATABASE_URL", "TARGET_DATABASE_URL", "SOURCE_SCHEMA", "TARGET_SCHEMA",
		"DB_MAX_CONNS", "DB_MIN_CONNS", "DB_STATEMENT_TIMEOUT", "BATCH_SIZE",
		"AUTH_SIGNING_KEY",
		"QUEUE_URL", "QUEUE_WORKERS", "QUEUE_RATE_LIMIT", "QUEUE_BATCH_SIZE",
		"S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_REGION", "S3_USE_SSL", "S3_BUCKET",
	} {
		v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.SourceDatabaseURL == "" {
		return nil, fmt.Errorf("SOURCE_DATABASE_URL is required")
	}
	if cfg.TargetDatabaseURL == "" {
		cfg.TargetDatabaseURL = cfg.SourceDatabaseURL
	}
	if cfg.S3Bucket == "" {
		cfg.S3Bucket = cfg.MigrationStoreBucket()
	}

	return cfg, nil
}

// Pool returns the pool settings for one of the configured databases.
func (c *Config) Pool(url string) db.PoolConfig {
	return db.PoolConfig{
		URL:              url,
		MaxConns:         c.DBMaxConns,
		MinConns:         c.DBMinConns,
		StatementTimeout: c.DBStatementTimeout,
	}
}

func (c *Config) IsLocal() bool {
	return c.Env == "local"
}

// MigrationStoreBucket returns the object store bucket used for table
// exports in this environment.
func (c *Config) MigrationStoreBucket() string {
	name := fmt.Sprintf("%s-%s-data-migration-pipeline-store", c.TablePrefix, c.Env)
	if c.Workspace != "" {
		name += "-" + c.Workspace
	}
	return name
}

// Validate checks that the configuration is safe to run.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Env) == "" {
		return fmt.Errorf("ENVIRONMENT must not be empty")
	}
	if !c.IsLocal() && c.AuthSigningKey == "" {
		return fmt.Errorf("AUTH_SIGNING_KEY is required outside the local environment (current ENVIRONMENT=%q)", c.Env)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	if c.QueueBatchSize <= 0 || c.QueueBatchSize > QueueBatchLimit {
		return fmt.Errorf("QUEUE_BATCH_SIZE must be between 1 and %d, got %d", QueueBatchLimit, c.QueueBatchSize)
	}
	if c.QueueWorkers <= 0 {
		return fmt.Errorf("QUEUE_WORKERS must be positive, got %d", c.QueueWorkers)
	}
	return nil
}

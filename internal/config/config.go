package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
)

// Config holds the application's configuration values.
type Config struct {
	AppEnv     string `envconfig:"APP_ENV" default:"development"` // development, staging, production
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	HttpServer ServerConfig
	GrpcServer GrpcServerConfig
	Postgres   PostgresConfig
	S3         S3Config
	Tracing    TracingConfig
}

// ServerConfig holds HTTP server-specific configurations.
type ServerConfig struct {
	Port               string        `envconfig:"HTTP_SERVER_PORT" default:"8080"`
	TimeoutRead        time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_READ" default:"15s"`
	TimeoutWrite       time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_WRITE" default:"15s"`
	TimeoutIdle        time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_IDLE" default:"60s"`
	CORSAllowedOrigins []string      `envconfig:"HTTP_CORS_ALLOWED_ORIGINS" default:"*"`
}

// GrpcServerConfig holds gRPC server-specific configurations.
type GrpcServerConfig struct {
	Port string `envconfig:"GRPC_SERVER_PORT" default:"9090"`
}

// PostgresConfig holds PostgreSQL database connection details.
type PostgresConfig struct {
	Host         string        `envconfig:"POSTGRES_HOST" required:"true"`
	Port         string        `envconfig:"POSTGRES_PORT" default:"5432"`
	User         string        `envconfig:"POSTGRES_USER" required:"true"`
	Password     string        `envconfig:"POSTGRES_PASSWORD" required:"true"`
	DBName       string        `envconfig:"POSTGRES_DBNAME" required:"true"`
	SSLMode      string        `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	MaxOpenConns int           `envconfig:"POSTGRES_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns int           `envconfig:"POSTGRES_MAX_IDLE_CONNS" default:"25"`
	Automigrate  bool          `envconfig:"POSTGRES_AUTOMIGRATE" default:"true"`
	QueryTimeout time.Duration `envconfig:"POSTGRES_QUERY_TIMEOUT" default:"5s"`
}

// S3Config points product image uploads at an S3 compatible endpoint
// (LocalStack in development).
type S3Config struct {
	Enabled         bool   `envconfig:"S3_ENABLED" default:"false"`
	Endpoint        string `envconfig:"S3_ENDPOINT" default:"http://localhost:4566"`
	Bucket          string `envconfig:"S3_BUCKET_NAME" default:"product-images"`
	Region          string `envconfig:"AWS_REGION" default:"us-east-1"`
	AccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID" default:"test"`
	SecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY" default:"test"`
}

type TracingConfig struct {
	Enabled        bool   `envconfig:"TRACING_ENABLED" default:"false"`
	JaegerEndpoint string `envconfig:"JAEGER_ENDPOINT" default:"http://localhost:14268/api/traces"`
}

// DSN constructs the Data Source Name string for connecting to PostgreSQL.
func (pc *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		pc.Host, pc.Port, pc.User, pc.Password, pc.DBName, pc.SSLMode)
}

var validEnvs = map[string]bool{"development": true, "staging": true, "production": true}

// Load reads .env from the working directory when present, then the process
// environment. Variables already set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values envconfig accepts but the service cannot run with.
func (c *Config) Validate() error {
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV: %s", c.AppEnv)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %s", c.LogLevel)
	}
	if c.S3.Enabled && c.S3.Bucket == "" {
		return errors.New("S3_BUCKET_NAME is required when S3_ENABLED is set")
	}
	if c.Tracing.Enabled && c.Tracing.JaegerEndpoint == "" {
		return errors.New("JAEGER_ENDPOINT is required when TRACING_ENABLED is set")
	}
	return nil
}

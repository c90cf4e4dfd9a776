// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Metrics sink names accepted by METRICS_SINK.
const (
	SinkMemory   = "memory"
	SinkLog      = "log"
	SinkRedis    = "redis"
	SinkPostgres   = "postgres"
	SinkCloudWatch = "cloudwatch"
	SinkNoop       = "noop"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts. WriteTimeout is 0 (unbounded) by default because a
	// blog post generation can outlast any fixed budget.
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"0s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Bounds connecting to backends before the listener opens.
	StartupTimeout time.Duration `env:"STARTUP_TIMEOUT" envDefault:"10s"`

	// Comma-separated list of allowed origins, "*.example.com" patterns or "*".
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`

	// Tokens
	JWTSecret string        `env:"JWT_SECRET,required,unset"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"10m"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"quillgate"`

	// Password hashing (Argon2id)
	Argon2Time      uint32 `env:"ARGON2_TIME" envDefault:"3"`
	Argon2MemoryKiB uint32 `env:"ARGON2_MEMORY_KIB" envDefault:"65536"`
	Argon2Threads   uint8  `env:"ARGON2_THREADS" envDefault:"4"`
	// Concurrent derivations; each holds ARGON2_MEMORY_KIB.
	Argon2Concurrency int64 `env:"ARGON2_CONCURRENCY" envDefault:"4"`

	// AWS. Credentials come from the SDK default chain (env, shared config,
	// web identity, instance role).
	AWSRegion string `env:"AWS_REGION" envDefault:"us-west-2"`

	// Model backend. An empty ModelEndpoint uses the regional Bedrock runtime
	// endpoint. ModelAPIKey, when set, is sent as a bearer token instead of
	// SigV4 signing. ModelTimeout 0 means the call is bounded only by the
	// request context.
	ModelEndpoint string        `env:"MODEL_ENDPOINT"`
	ModelID       string        `env:"MODEL_ID" envDefault:"meta.llama3-1-70b-instruct-v1:0"`
	ModelAPIKey   string        `env:"MODEL_API_KEY,unset"`
	ModelTimeout  time.Duration `env:"MODEL_TIMEOUT" envDefault:"0s"`

	// Metrics
	MetricsSink      string        `env:"METRICS_SINK" envDefault:"memory"`
	MetricsNamespace string        `env:"METRICS_NAMESPACE" envDefault:"quillgate/production"`
	MetricsTimeout   time.Duration `env:"METRICS_TIMEOUT" envDefault:"2s"`
	MetricsTable     string        `env:"METRICS_TABLE" envDefault:"metric_events"`
	MetricsStream    string        `env:"METRICS_STREAM" envDefault:"stream:metric_events"`

	// Sink backends, required only by the matching METRICS_SINK.
	RedisURL    string `env:"REDIS_URL"`
	DatabaseURL string `env:"DATABASE_URL"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	var result []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Validate checks cross-field rules that struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if c.JWTTTL <= 0 {
		errs = append(errs, fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL))
	}
	if c.IsProduction() && len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 bytes in production"))
	}
	if c.AWSRegion == "" {
		errs = append(errs, errors.New("AWS_REGION must not be empty"))
	}
	if c.ModelID == "" {
		errs = append(errs, errors.New("MODEL_ID must not be empty"))
	}
	if c.ModelEndpoint != "" && !strings.HasPrefix(c.ModelEndpoint, "http://") && !strings.HasPrefix(c.ModelEndpoint, "https://") {
		errs = append(errs, fmt.Errorf("MODEL_ENDPOINT must be an http(s) URL, got %q", c.ModelEndpoint))
	}
	if c.Argon2Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("ARGON2_CONCURRENCY must be positive, got %d", c.Argon2Concurrency))
	}
	if c.StartupTimeout <= 0 {
		errs = append(errs, fmt.Errorf("STARTUP_TIMEOUT must be positive, got %s", c.StartupTimeout))
	}
	if c.ModelTimeout < 0 {
		errs = append(errs, fmt.Errorf("MODEL_TIMEOUT must not be negative, got %s", c.ModelTimeout))
	}
	if c.MetricsTimeout <= 0 {
		errs = append(errs, fmt.Errorf("METRICS_TIMEOUT must be positive, got %s", c.MetricsTimeout))
	}

	switch c.MetricsSink {
	case SinkMemory, SinkLog, SinkNoop, SinkCloudWatch:
	case SinkRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when METRICS_SINK=redis"))
		}
	case SinkPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when METRICS_SINK=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown METRICS_SINK %q", c.MetricsSink))
	}

	return errors.Join(errs...)
}

// Load parses environment variables and returns a validated Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

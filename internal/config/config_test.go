package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoad_WithRequiredVars(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.JWTSecret != "0123456789abcdef0123456789abcdef" {
		t.Errorf("expected JWTSecret to be set, got %s", cfg.JWTSecret)
	}
	if _, ok := os.LookupEnv("JWT_SECRET"); ok {
		t.Error("expected JWT_SECRET to be removed from the environment after load")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing JWT_SECRET, got nil")
	}
}

func TestConfig_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.AppEnv != "development" {
		t.Errorf("expected default AppEnv 'development', got %s", cfg.AppEnv)
	}
	if cfg.AppPort != 8080 {
		t.Errorf("expected default AppPort 8080, got %d", cfg.AppPort)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default LogLevel 'info', got %s", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("expected default LogFormat 'json', got %s", cfg.LogFormat)
	}
	if cfg.JWTTTL != 10*time.Minute {
		t.Errorf("expected default JWTTTL 10m, got %s", cfg.JWTTTL)
	}
	if cfg.WriteTimeout != 0 {
		t.Errorf("expected unbounded WriteTimeout, got %s", cfg.WriteTimeout)
	}
	if cfg.ModelTimeout != 0 {
		t.Errorf("expected no ModelTimeout, got %s", cfg.ModelTimeout)
	}
	if cfg.ModelID != "meta.llama3-1-70b-instruct-v1:0" {
		t.Errorf("unexpected default ModelID %s", cfg.ModelID)
	}
	if cfg.MetricsSink != SinkMemory {
		t.Errorf("expected default MetricsSink memory, got %s", cfg.MetricsSink)
	}
	if cfg.MetricsTimeout != 2*time.Second {
		t.Errorf("expected default MetricsTimeout 2s, got %s", cfg.MetricsTimeout)
	}
	if cfg.AWSRegion != "us-west-2" {
		t.Errorf("expected default AWSRegion us-west-2, got %s", cfg.AWSRegion)
	}
	if cfg.ModelEndpoint != "" {
		t.Errorf("expected regional model endpoint by default, got %s", cfg.ModelEndpoint)
	}
	if cfg.Argon2Concurrency != 4 {
		t.Errorf("expected default Argon2Concurrency 4, got %d", cfg.Argon2Concurrency)
	}
	if cfg.StartupTimeout != 10*time.Second {
		t.Errorf("expected default StartupTimeout 10s, got %s", cfg.StartupTimeout)
	}
}

func TestConfig_Validate(t *testing.T) {
	base := func() Config {
		return Config{
			AppEnv:            "development",
			JWTSecret:         "dev",
			JWTTTL:            time.Minute,
			AWSRegion:         "us-west-2",
			ModelID:           "meta.llama3-1-70b-instruct-v1:0",
			Argon2Concurrency: 1,
			StartupTimeout:    time.Second,
			MetricsSink:       SinkMemory,
			MetricsTimeout:    time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"zero ttl", func(c *Config) { c.JWTTTL = 0 }, "JWT_TTL"},
		{"short secret in production", func(c *Config) { c.AppEnv = "production" }, "JWT_SECRET"},
		{"negative model timeout", func(c *Config) { c.ModelTimeout = -time.Second }, "MODEL_TIMEOUT"},
		{"compatible model endpoint", func(c *Config) { c.ModelEndpoint = "http://localhost:9000" }, ""},
		{"model endpoint without scheme", func(c *Config) { c.ModelEndpoint = "localhost:9000" }, "MODEL_ENDPOINT"},
		{"empty model id", func(c *Config) { c.ModelID = "" }, "MODEL_ID"},
		{"empty region", func(c *Config) { c.AWSRegion = "" }, "AWS_REGION"},
		{"zero argon2 concurrency", func(c *Config) { c.Argon2Concurrency = 0 }, "ARGON2_CONCURRENCY"},
		{"zero startup timeout", func(c *Config) { c.StartupTimeout = 0 }, "STARTUP_TIMEOUT"},
		{"cloudwatch sink", func(c *Config) { c.MetricsSink = SinkCloudWatch }, ""},
		{"unknown sink", func(c *Config) { c.MetricsSink = "statsd" }, "unknown METRICS_SINK"},
		{"redis sink without url", func(c *Config) { c.MetricsSink = SinkRedis }, "REDIS_URL"},
		{"postgres sink without url", func(c *Config) { c.MetricsSink = SinkPostgres }, "DATABASE_URL"},
		{"redis sink with url", func(c *Config) {
			c.MetricsSink = SinkRedis
			c.RedisURL = "redis://localhost:6379"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfig_GetCORSAllowedOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " https://a.example , ,*.b.example"}

	got := cfg.GetCORSAllowedOrigins()
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "*.b.example" {
		t.Errorf("unexpected origins: %v", got)
	}
	if (&Config{}).GetCORSAllowedOrigins() != nil {
		t.Error("expected nil for empty origins")
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{AppEnv: "development"}
	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return true")
	}

	cfg.AppEnv = "production"
	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return false")
	}
	if !cfg.IsProduction() {
		t.Error("expected IsProduction to return true")
	}
}

// Package main is the entrypoint for the Quillgate API server.
package main

import (
	"log/slog"
	"os"

	"github.com/quillgate/quillgate/internal/auth"
	"github.com/quillgate/quillgate/internal/config"
	"github.com/quillgate/quillgate/internal/content"
	"github.com/quillgate/quillgate/internal/handler"
	"github.com/quillgate/quillgate/internal/llm"
	"github.com/quillgate/quillgate/internal/metrics"
	"github.com/quillgate/quillgate/internal/prompt"
	"github.com/quillgate/quillgate/internal/server"
	"github.com/quillgate/quillgate/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	awsCfg, err := loadAWSConfig(cfg)
	if err != nil {
		logger.Error("failed to load aws config", "error", err)
		os.Exit(1)
	}

	sink, err := bootstrapMetricsSink(cfg, awsCfg, logger)
	if err != nil {
		logger.Error("failed to initialize metrics sink",
			slog.String("sink", cfg.MetricsSink),
			slog.String("error", sanitizeError(err, cfg.RedisURL, cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	emitter := metrics.NewEmitter(sink.Sink, cfg.MetricsNamespace, cfg.MetricsTimeout, logger)

	hasher := auth.NewPasswordHasher(auth.Argon2Params{
		Time:        cfg.Argon2Time,
		Memory:      cfg.Argon2MemoryKiB,
		Threads:     cfg.Argon2Threads,
		Concurrency: cfg.Argon2Concurrency,
	})
	signer, err := auth.NewTokenSigner(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL, auth.NewULID)
	if err != nil {
		logger.Error("failed to initialize token signer", "error", err)
		os.Exit(1)
	}
	authService := auth.NewService(auth.NewMemoryRegistry(hasher), signer, logger)

	model, err := llm.NewBedrockClient(llm.BedrockConfig{
		AWS:      awsCfg,
		Endpoint: cfg.ModelEndpoint,
		ModelID:  cfg.ModelID,
		APIKey:   cfg.ModelAPIKey,
		Timeout:  cfg.ModelTimeout,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to initialize model client", "error", err)
		os.Exit(1)
	}
	generation := service.NewGenerationService(prompt.NewBuilder(), content.NewDefaultFilter(), model, logger)

	r := setupRouter(routerDeps{
		cfg:        cfg,
		logger:     logger,
		root:       handler.New(),
		health:     handler.NewHealthHandler(sink.Checks),
		metrics:    sink.Snapshotter,
		users:      handler.NewUserHandler(authService, logger),
		generation: handler.NewGenerationHandler(generation, logger),
		verifier:   authService,
		emitter:    emitter,
	})

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Registered first so it closes after the emitter has drained into it.
	if sink.Close != nil {
		srv.OnShutdown("metrics sink", sink.Close)
	}
	srv.OnShutdown("metrics emitter", emitter.Close)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"model_id", model.ModelID(),
		"aws_region", cfg.AWSRegion,
		"model_auth", modelAuthMode(cfg),
		"metrics_sink", cfg.MetricsSink,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// modelAuthMode names how model calls authenticate, for the startup log.
func modelAuthMode(cfg *config.Config) string {
	if cfg.ModelAPIKey != "" {
		return "bearer"
	}
	return "sigv4"
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

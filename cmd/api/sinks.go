package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/quillgate/quillgate/internal/config"
	"github.com/quillgate/quillgate/internal/handler"
	"github.com/quillgate/quillgate/internal/metrics"
)

// metricsSink is the sink selected by METRICS_SINK plus what the rest of the
// composition root needs from it.
type metricsSink struct {
	Sink        metrics.Sink
	Snapshotter metrics.Snapshotter
	Checks      map[string]handler.HealthChecker
	Close       func(ctx context.Context) error
}

// bootstrapMetricsSink is newMetricsSink bounded by STARTUP_TIMEOUT.
func bootstrapMetricsSink(cfg *config.Config, awsCfg aws.Config, logger *slog.Logger) (*metricsSink, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.StartupTimeout)
	defer cancel()
	return newMetricsSink(ctx, cfg, awsCfg, logger)
}

// newMetricsSink builds the configured sink. Sinks that implement
// metrics.Pinger are registered as readiness checks.
func newMetricsSink(ctx context.Context, cfg *config.Config, awsCfg aws.Config, logger *slog.Logger) (*metricsSink, error) {
	s, err := openMetricsSink(ctx, cfg, awsCfg, logger)
	if err != nil {
		return nil, err
	}
	s.Checks = readinessChecks(cfg.MetricsSink, s.Sink)
	return s, nil
}

func readinessChecks(name string, sink metrics.Sink) map[string]handler.HealthChecker {
	p, ok := sink.(metrics.Pinger)
	if !ok {
		return nil
	}
	return map[string]handler.HealthChecker{"metrics_" + name: p}
}

func openMetricsSink(ctx context.Context, cfg *config.Config, awsCfg aws.Config, logger *slog.Logger) (*metricsSink, error) {
	switch cfg.MetricsSink {
	case config.SinkMemory:
		mem := metrics.NewInMemory(false)
		return &metricsSink{Sink: mem, Snapshotter: mem}, nil

	case config.SinkLog:
		return &metricsSink{Sink: metrics.NewLogSink(logger)}, nil

	case config.SinkNoop:
		return &metricsSink{Sink: metrics.NewNoop()}, nil

	case config.SinkRedis:
		sink, err := metrics.NewRedisSink(ctx, cfg.RedisURL, cfg.MetricsStream)
		if err != nil {
			return nil, err
		}
		logger.Info("metrics sink connected", "sink", "redis", "redis_url", redactURL(cfg.RedisURL))
		return &metricsSink{
			Sink:  sink,
			Close: func(context.Context) error { return sink.Close() },
		}, nil

	case config.SinkPostgres:
		sink, err := metrics.NewPostgresSink(ctx, cfg.DatabaseURL, cfg.MetricsTable)
		if err != nil {
			return nil, err
		}
		if err := sink.EnsureSchema(ctx); err != nil {
			sink.Close()
			return nil, err
		}
		logger.Info("metrics sink connected", "sink", "postgres", "database_url", redactURL(cfg.DatabaseURL))
		return &metricsSink{
			Sink: sink,
			Close: func(context.Context) error {
				sink.Close()
				return nil
			},
		}, nil

	case config.SinkCloudWatch:
		logger.Info("metrics sink configured", "sink", "cloudwatch", "region", awsCfg.Region)
		return &metricsSink{Sink: metrics.NewCloudWatchSink(awsCfg)}, nil

	default:
		return nil, fmt.Errorf("unknown metrics sink %q", cfg.MetricsSink)
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

// redactURL drops the password from a connection URL before it is logged.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		if username := parsed.User.Username(); username != "" {
			parsed.User = url.User(username)
		} else {
			parsed.User = url.User("redacted")
		}
	}

	return parsed.String()
}

// sanitizeError replaces connection URLs in err's message with their
// redacted form.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}

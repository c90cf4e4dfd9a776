package metrics

import (
	"context"
	"log/slog"
)

// LogSink writes each datum as a structured log line.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink returns a sink that logs at info level.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger.With("component", "metrics.log")}
}

// PutMetricData implements Sink.
func (s *LogSink) PutMetricData(ctx context.Context, namespace string, data []Datum) error {
	for _, d := range data {
		attrs := []slog.Attr{
			slog.String("namespace", namespace),
			slog.String("metric", d.Name),
			slog.Float64("value", d.Value),
			slog.String("unit", string(d.Unit)),
		}
		for _, dim := range d.Dimensions {
			attrs = append(attrs, slog.String(dim.Name, dim.Value))
		}
		s.logger.LogAttrs(ctx, slog.LevelInfo, "metric", attrs...)
	}
	return nil
}

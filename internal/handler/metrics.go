package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/quillgate/quillgate/internal/metrics"
)

// MetricsHandler exposes the in-memory metrics sink.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// Metrics returns metrics in Prometheus exposition format.
//
// GET /metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeHelp(w, "quillgate_request_latency_milliseconds", "summary", "Request latency in milliseconds.")
	for _, s := range snap.Series {
		if s.Name != metrics.MetricLatency {
			continue
		}
		labels := seriesLabels(snap.Namespace, s)
		writeMetric(w, "quillgate_request_latency_milliseconds_sum%s %.3f\n", labels, s.Sum)
		writeMetric(w, "quillgate_request_latency_milliseconds_count%s %d\n", labels, s.Count)
	}

	writeHelp(w, "quillgate_requests_total", "counter", "Completed requests.")
	for _, s := range snap.Series {
		if s.Name == metrics.MetricRequests {
			writeMetric(w, "quillgate_requests_total%s %.0f\n", seriesLabels(snap.Namespace, s), s.Sum)
		}
	}

	writeHelp(w, "quillgate_errors_total", "counter", "Requests that failed with an unhandled error.")
	for _, s := range snap.Series {
		if s.Name == metrics.MetricErrors {
			writeMetric(w, "quillgate_errors_total%s %.0f\n", seriesLabels(snap.Namespace, s), s.Sum)
		}
	}
}

func seriesLabels(namespace string, s metrics.Series) string {
	var b strings.Builder
	fmt.Fprintf(&b, `{namespace="%s",route="%s",method="%s"`,
		labelEscaper.Replace(namespace), labelEscaper.Replace(s.Route), labelEscaper.Replace(s.Method))
	if s.ErrorType != "" {
		fmt.Fprintf(&b, `,error_type="%s"`, labelEscaper.Replace(s.ErrorType))
	}
	b.WriteByte('}')
	return b.String()
}

func writeHelp(w io.Writer, name, typ, help string) {
	_, _ = fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", name, help, name, typ)
}

func writeMetric(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

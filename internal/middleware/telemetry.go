package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quillgate/quillgate/internal/metrics"
)

// MetricsEmitter accepts data points for delivery to a sink.
type MetricsEmitter interface {
	Emit(data ...metrics.Datum)
}

// Telemetry returns a middleware that measures every request it wraps.
// A completed request emits Latency and Requests; a panic emits Errors with the
// panic's Go type as ErrorType and is then re-raised for Recoverer to handle.
// Mount it inside Recoverer and outside Auth so auth failures are measured too.
//
// The Route dimension is the matched chi route pattern, or metrics.RouteUnmatched
// when no route matched, so client-chosen paths never become series.
func Telemetry(emitter MetricsEmitter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			method := methodLabel(r.Method)

			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr != http.ErrAbortHandler {
						emitter.Emit(metrics.RequestFailed(routeLabel(r), method, errorType(rvr), time.Now())...)
					}
					panic(rvr)
				}
			}()

			next.ServeHTTP(w, r)

			emitter.Emit(metrics.RequestCompleted(routeLabel(r), method, time.Since(start), time.Now())...)
		})
	}
}

// routeLabel reads the pattern chi matched. It must run after routing.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return metrics.RouteUnmatched
}

func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodConnect, http.MethodOptions, http.MethodTrace:
		return method
	default:
		return metrics.MethodOther
	}
}

// errorType names the dynamic type of a recovered value, e.g. "*errors.errorString".
func errorType(v any) string {
	return fmt.Sprintf("%T", v)
}

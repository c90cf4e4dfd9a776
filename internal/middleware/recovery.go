package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
)

// Recoverer is a middleware that recovers from panics.
// It logs the panic and returns a 500 carrying the panic message, so an
// unanticipated failure surfaces as a diagnostic response instead of a crash.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				requestID := GetRequestID(r.Context())

				logger.Error("panic recovered",
					slog.String("request_id", requestID),
					slog.Any("panic", rvr),
					slog.String("stack", string(debug.Stack())),
				)

				// In development, also print to stderr for visibility
				if os.Getenv("APP_ENV") == "development" {
					debug.PrintStack()
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"detail": panicMessage(rvr),
					"code":   "INTERNAL_ERROR",
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func panicMessage(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(v)
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/quillgate/quillgate/internal/service"
)

// statusFor maps a failure kind to its HTTP status and error code.
func statusFor(kind service.Kind) (int, string) {
	switch kind {
	case service.KindValidation:
		return http.StatusUnprocessableEntity, "VALIDATION_FAILED"
	case service.KindUnauthorized:
		return http.StatusForbidden, "UNAUTHORIZED"
	case service.KindContentPolicy:
		return http.StatusBadRequest, "CONTENT_POLICY_VIOLATION"
	case service.KindGenerationFailed:
		return http.StatusInternalServerError, "GENERATION_FAILED"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// writeServiceError is the single translation point from gateway errors to
// HTTP responses. Unknown errors become 500 INTERNAL_ERROR with their message.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	kind := service.KindOf(err)
	status, code := statusFor(kind)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", slog.String("kind", kind.String()), slog.String("error", err.Error()))
	}
	writeError(w, status, code, err.Error())
}

package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/quillgate/quillgate/internal/service"
)

var errPayloadTooLarge = errors.New("Request body too large") //nolint:stylecheck // client-facing message

// decodeJSON reads a single JSON object into dst. Malformed bodies are
// validation errors; oversize bodies are reported separately.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return service.Errorf(service.KindValidation, "request body is required")
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return errPayloadTooLarge
		case errors.Is(err, io.EOF):
			return service.Errorf(service.KindValidation, "request body is required")
		default:
			return service.Errorf(service.KindValidation, "invalid JSON body: %v", err)
		}
	}
	if dec.More() {
		return service.Errorf(service.KindValidation, "invalid JSON body: unexpected data after object")
	}
	return nil
}

// writeDecodeError reports a decodeJSON failure.
func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errPayloadTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", err.Error())
		return
	}
	status, code := statusFor(service.KindOf(err))
	writeError(w, status, code, err.Error())
}

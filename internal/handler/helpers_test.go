package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/quillgate/quillgate/internal/handler/dto"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body
}

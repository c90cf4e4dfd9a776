package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) Ping(ctx context.Context) error {
	return m.err
}

func TestHealthHandler_Healthz(t *testing.T) {
	h := NewHealthHandler(map[string]HealthChecker{"metrics_sink": &mockHealthChecker{err: errors.New("down")}})

	rec := httptest.NewRecorder()
	h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var response HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != "ok" {
		t.Errorf("expected status 'ok', got %s", response.Status)
	}
}

func TestHealthHandler_Readyz(t *testing.T) {
	tests := []struct {
		name       string
		checkers   map[string]HealthChecker
		wantStatus int
		wantBody   string
		wantChecks map[string]string
	}{
		{
			name:       "no dependencies",
			checkers:   nil,
			wantStatus: http.StatusOK,
			wantBody:   "ok",
			wantChecks: map[string]string{},
		},
		{
			name:       "healthy sink",
			checkers:   map[string]HealthChecker{"metrics_sink": &mockHealthChecker{}},
			wantStatus: http.StatusOK,
			wantBody:   "ok",
			wantChecks: map[string]string{"metrics_sink": "ok"},
		},
		{
			name:       "unconfigured sink",
			checkers:   map[string]HealthChecker{"metrics_sink": nil},
			wantStatus: http.StatusOK,
			wantBody:   "ok",
			wantChecks: map[string]string{"metrics_sink": "not configured"},
		},
		{
			name:       "failing sink",
			checkers:   map[string]HealthChecker{"metrics_sink": &mockHealthChecker{err: errors.New("connection refused")}},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "unhealthy",
			wantChecks: map[string]string{"metrics_sink": "error: connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.checkers)

			rec := httptest.NewRecorder()
			h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var response HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.Status != tt.wantBody {
				t.Errorf("expected status %q, got %q", tt.wantBody, response.Status)
			}
			for name, want := range tt.wantChecks {
				if got := response.Checks[name]; got != want {
					t.Errorf("expected check %s=%q, got %q", name, want, got)
				}
			}
		})
	}
}

package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mindflow/backend/pkg/httpx"
)

type stubChecker struct{ err error }

func (s *stubChecker) Ping(_ context.Context) error { return s.err }

type healthBody struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

func TestHealthHandler(t *testing.T) {
	down := errors.New("down")

	tests := []struct {
		name       string
		checks     []httpx.HealthCheck
		wantCode   int
		wantStatus string
		want       map[string]string
	}{
		{
			name: "all healthy",
			checks: []httpx.HealthCheck{
				{Name: "database", Checker: &stubChecker{}},
				{Name: "redis", Checker: &stubChecker{}},
				{Name: "event_bus", Checker: &stubChecker{}},
			},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			want:       map[string]string{"database": "ok", "redis": "ok", "event_bus": "ok"},
		},
		{
			name: "database down",
			checks: []httpx.HealthCheck{
				{Name: "database", Checker: &stubChecker{err: down}},
				{Name: "redis", Checker: &stubChecker{}},
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
			want:       map[string]string{"database": "unreachable", "redis": "ok"},
		},
		{
			name: "everything down",
			checks: []httpx.HealthCheck{
				{Name: "database", Checker: &stubChecker{err: down}},
				{Name: "redis", Checker: &stubChecker{err: down}},
				{Name: "event_bus", Checker: &stubChecker{err: down}},
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
			want:       map[string]string{"database": "unreachable", "redis": "unreachable", "event_bus": "unreachable"},
		},
		{
			name: "disabled dependency does not degrade",
			checks: []httpx.HealthCheck{
				{Name: "database", Checker: &stubChecker{}},
				{Name: "temporal"},
			},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			want:       map[string]string{"database": "ok", "temporal": "disabled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			httpx.HealthHandler(tt.checks...).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

			if rr.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rr.Code)
			}
			var body healthBody
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Status != tt.wantStatus {
				t.Errorf("status: got %q, want %q", body.Status, tt.wantStatus)
			}
			for k, v := range tt.want {
				if body.Components[k] != v {
					t.Errorf("%s: got %q, want %q", k, body.Components[k], v)
				}
			}
		})
	}
}

func TestHealthHandler_ContentType(t *testing.T) {
	rr := httptest.NewRecorder()
	httpx.HealthHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json; charset=utf-8")
	}
}

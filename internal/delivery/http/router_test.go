package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clinic-operations/config"
	"clinic-operations/internal/delivery/http/handler"
	"clinic-operations/internal/delivery/http/middleware"
	"clinic-operations/internal/infrastructure/metrics"
	"clinic-operations/pkg/jwt"
	"clinic-operations/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	v := validator.NewValidator()
	auth := middleware.NewAuthMiddleware(jwt.NewJWTService(config.JWTConfig{Secret: "s", AccessExpiry: time.Minute}), nil, nil, log)

	h := Handlers{
		Room:   handler.NewRoomHandler(nil, v),
		Bed:    handler.NewBedHandler(nil, v),
		Ledger: handler.NewLedgerHandler(nil, v),
	}
	return NewRouter(h, auth, middleware.NewCORSMiddleware([]string{"*"}), middleware.NewAccessLog(log, m), reg).Setup()
}

func TestRouterPublicAndProtected(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method, path string
		status       int
	}{
		{http.MethodGet, "/api/v1/health", http.StatusOK},
		{http.MethodGet, "/api/v1/rooms", http.StatusUnauthorized},
		{http.MethodPatch, "/api/v1/beds/6f1c8f3e-4c63-4b59-9d43-8b0a0c8f3a10/assign", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/payment", http.StatusUnauthorized},
		{http.MethodOptions, "/api/v1/rooms", http.StatusOK},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.status {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, rec.Code, tt.status)
		}
		if rec.Header().Get(middleware.RequestIDHeader) == "" {
			t.Errorf("%s %s: missing request id", tt.method, tt.path)
		}
	}
}

func TestRouterServesMetrics(t *testing.T) {
	router := newTestRouter(t)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `http_requests_total{method="GET",route="/api/v1/health",status="200"} 1`) {
		t.Errorf("metrics body missing health counter:\n%s", rec.Body.String())
	}
}

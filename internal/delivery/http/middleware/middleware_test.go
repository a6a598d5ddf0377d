package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"clinic-operations/config"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/infrastructure/metrics"
	"clinic-operations/internal/service"
	"clinic-operations/pkg/jwt"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	dto "github.com/prometheus/client_model/go"
	"github.com/sirupsen/logrus"
)

type memTokens struct {
	mu     sync.Mutex
	active map[string]bool
}

func (m *memTokens) Register(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[tokenID] = true
	return nil
}

func (m *memTokens) IsActive(ctx context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active[tokenID], nil
}

func (m *memTokens) Revoke(ctx context.Context, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, tokenID)
	return nil
}

type stubResolver struct {
	principal *entity.Principal
	err       error
}

func (s *stubResolver) Resolve(ctx context.Context, claims *jwt.Claims) (*entity.Principal, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.principal, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type authFixture struct {
	mw       *AuthMiddleware
	jwt      *jwt.JWTService
	tokens   *memTokens
	resolver *stubResolver
}

func newAuthFixture() *authFixture {
	tokens := &memTokens{active: map[string]bool{}}
	resolver := &stubResolver{principal: &entity.Principal{UserID: uuid.New(), Role: entity.RoleStaff, ClinicID: uuid.New()}}
	svc := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour})
	return &authFixture{
		mw:       NewAuthMiddleware(svc, tokens, resolver, quietLogger()),
		jwt:      svc,
		tokens:   tokens,
		resolver: resolver,
	}
}

func (f *authFixture) token(t *testing.T) (string, string) {
	t.Helper()
	p := f.resolver.principal
	token, id, err := f.jwt.GenerateAccessToken(p.UserID, "staff@clinic.test", string(p.Role), &p.ClinicID)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	_ = f.tokens.Register(context.Background(), id, p.UserID, time.Hour)
	return token, id
}

func echoPrincipal(t *testing.T, want *entity.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := GetPrincipalFromContext(r.Context())
		if !ok || p.UserID != want.UserID {
			t.Errorf("principal = %+v, want %s", p, want.UserID)
		}
		if _, ok := GetTokenIDFromContext(r.Context()); !ok {
			t.Error("token id missing from context")
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticate(t *testing.T) {
	f := newAuthFixture()
	token, _ := f.token(t)
	handler := f.mw.Authenticate(echoPrincipal(t, f.resolver.principal))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusNoContent},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AuthCookieName, Value: token}) }, http.StatusNoContent},
		{"missing", func(r *http.Request) {}, http.StatusUnauthorized},
		{"malformed header", func(r *http.Request) { r.Header.Set("Authorization", "Token "+token) }, http.StatusUnauthorized},
		{"garbage token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestAuthenticateRejectsRevokedToken(t *testing.T) {
	f := newAuthFixture()
	token, id := f.token(t)
	_ = f.tokens.Revoke(context.Background(), id)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.mw.Authenticate(http.NotFoundHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	f := newAuthFixture()
	token, _ := f.token(t)
	f.resolver.err = service.ErrPrincipalInactive

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.mw.Authenticate(http.NotFoundHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name      string
		principal *entity.Principal
		guard     func(http.Handler) http.Handler
		status    int
	}{
		{"no principal", nil, RequireFrontDesk, http.StatusUnauthorized},
		{"staff at front desk", &entity.Principal{Role: entity.RoleStaff}, RequireFrontDesk, http.StatusOK},
		{"doctor at front desk", &entity.Principal{Role: entity.RoleDoctor}, RequireFrontDesk, http.StatusForbidden},
		{"doctor as clinician", &entity.Principal{Role: entity.RoleDoctor}, RequireClinician, http.StatusOK},
		{"admin as super admin", &entity.Principal{Role: entity.RoleAdmin}, RequireSuperAdmin, http.StatusForbidden},
		{"admin as manager", &entity.Principal{Role: entity.RoleAdmin}, RequireClinicManager, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.principal != nil {
				req = req.WithContext(WithPrincipal(req.Context(), tt.principal))
			}
			rec := httptest.NewRecorder()
			tt.guard(ok).ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestRequestIDPropagates(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "abc-123" || rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("request id = %q, header = %q", seen, rec.Header().Get(RequestIDHeader))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if _, err := uuid.Parse(rec.Header().Get(RequestIDHeader)); err != nil {
		t.Fatalf("generated id %q is not a uuid", rec.Header().Get(RequestIDHeader))
	}
}

func TestAccessLogCountsByRouteTemplate(t *testing.T) {
	m := metrics.NewNop()
	router := mux.NewRouter()
	router.Use(NewAccessLog(quietLogger(), m).Handle)
	router.HandleFunc("/beds/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	for i := 0; i < 2; i++ {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPatch, "/beds/"+uuid.NewString(), nil))
	}

	var out dto.Metric
	if err := m.HTTPRequests.WithLabelValues(http.MethodPatch, "/beds/{id}", "409").Write(&out); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := out.GetCounter().GetValue(); got != 2 {
		t.Fatalf("counter = %v, want 2", got)
	}
}

func TestCORS(t *testing.T) {
	mw := NewCORSMiddleware([]string{"https://app.clinic.test"})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.clinic.test")
	rec := httptest.NewRecorder()
	mw.Handle(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Header().Get("Access-Control-Allow-Origin") != "https://app.clinic.test" {
		t.Fatalf("preflight status=%d origin=%q", rec.Code, rec.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.test")
	rec = httptest.NewRecorder()
	mw.Handle(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusTeapot || rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("foreign origin status=%d origin=%q", rec.Code, rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

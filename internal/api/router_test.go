package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/propdata/property-api/internal/core/domain"
	"github.com/propdata/property-api/internal/core/ports"
	"github.com/propdata/property-api/internal/core/service"
	"github.com/propdata/property-api/internal/ratelimit"
)

// --- Stubs ---

type memUserRepo struct {
	users map[string]*domain.User
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.Email]; ok {
		return nil, domain.ErrUserExists
	}
	clone := *user
	r.users[user.Email] = &clone
	return &clone, nil
}

func (r *memUserRepo) UpdateRole(_ context.Context, email string, role domain.Role) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Role = role
	clone := *u
	return &clone, nil
}

type memPropertyRepo struct{}

func (r *memPropertyRepo) Search(context.Context, string, int, int) (int64, []domain.Property, error) {
	return 1, []domain.Property{{ListingID: "MLS-2024-43494", Price: 575000, Status: "Active"}}, nil
}

func (r *memPropertyRepo) Upsert(context.Context, *domain.Property) error {
	return nil
}

type memQueue struct {
	enqueued int
}

func (q *memQueue) EnqueueBatch(listings []ports.PropertyInput) {
	q.enqueued += len(listings)
}

// --- Harness ---

func seededRepo(t *testing.T) *memUserRepo {
	t.Helper()
	repo := &memUserRepo{users: make(map[string]*domain.User)}
	for email, def := range map[string]struct {
		password string
		role     domain.Role
	}{
		"admin@example.com":   {"admin123", domain.RoleAdmin},
		"manager@example.com": {"manager123", domain.RoleManager},
		"agent@example.com":   {"agent123", domain.RoleAgent},
		"user@example.com":    {"user123", domain.RoleUser},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(def.password), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		repo.users[email] = &domain.User{
			ID:           email,
			Email:        email,
			PasswordHash: string(hash),
			Role:         def.role,
		}
	}
	return repo
}

func newTestRouter(t *testing.T) (*echo.Echo, *memQueue) {
	t.Helper()
	tokens, err := service.NewTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	queue := &memQueue{}
	e, err := NewRouter(Dependencies{
		Users:      seededRepo(t),
		Properties: &memPropertyRepo{},
		Tokens:     tokens,
		Limiter:    ratelimit.NewLimiter(ratelimit.NewMemoryStore()),
		Queue:      queue,
		Log:        zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return e, queue
}

func do(e *echo.Echo, method, path, ip, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if ip != "" {
		req.Header.Set("X-Real-IP", ip)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, ip, email, password string) string {
	t.Helper()
	rec := do(e, http.MethodPost, "/login", ip, "", `{"email":"`+email+`","password":"`+password+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d (%s)", email, rec.Code, rec.Body.String())
	}
	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.TokenType != "bearer" {
		t.Fatalf("token_type = %q", resp.TokenType)
	}
	return resp.AccessToken
}

// --- Scenarios ---

func TestPipeline_LoginAndRoleMatrix(t *testing.T) {
	e, queue := newTestRouter(t)

	adminToken := login(t, e, "10.1.0.1", "admin@example.com", "admin123")
	userToken := login(t, e, "10.1.0.2", "user@example.com", "user123")
	agentToken := login(t, e, "10.1.0.3", "agent@example.com", "agent123")

	// Admin on an admin-only route.
	rec := do(e, http.MethodPost, "/api/data-load", "10.1.0.1", adminToken,
		`{"properties":[{"listing_id":"MLS-1","status":"Active"}]}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("admin data-load: expected 202, got %d (%s)", rec.Code, rec.Body.String())
	}
	if queue.enqueued != 1 {
		t.Fatalf("expected 1 enqueued listing, got %d", queue.enqueued)
	}

	// Agent on the search route (admin, manager, agent).
	rec = do(e, http.MethodPost, "/api/search", "10.1.0.3", agentToken, `{"query":"cozy family home"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("agent search: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	// User is not in the search route's allowed set.
	rec = do(e, http.MethodPost, "/api/search", "10.1.0.2", userToken, `{"query":"anything"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("user search: expected 403, got %d", rec.Code)
	}

	// Profile allows only the user role: a valid admin token gets 403 there.
	rec = do(e, http.MethodGet, "/api/profile", "10.1.0.1", adminToken, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("admin profile: expected 403, got %d", rec.Code)
	}
	rec = do(e, http.MethodGet, "/api/profile", "10.1.0.2", userToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("user profile: expected 200, got %d", rec.Code)
	}

	// User on the admin role-update route.
	rec = do(e, http.MethodPut, "/admin/update-role", "10.1.0.2", userToken,
		`{"email":"agent@example.com","role":"manager"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("user update-role: expected 403, got %d", rec.Code)
	}
	rec = do(e, http.MethodPut, "/admin/update-role", "10.1.0.1", adminToken,
		`{"email":"agent@example.com","role":"manager"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin update-role: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestPipeline_AuthenticationFailures(t *testing.T) {
	e, _ := newTestRouter(t)

	// Wrong password and unknown email produce the same generic 401.
	for _, body := range []string{
		`{"email":"admin@example.com","password":"wrong"}`,
		`{"email":"ghost@example.com","password":"admin123"}`,
	} {
		rec := do(e, http.MethodPost, "/login", "10.2.0.1", "", body)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "invalid credentials") {
			t.Fatalf("unexpected body: %s", rec.Body.String())
		}
	}

	// Protected route without, and with a garbage, token.
	rec := do(e, http.MethodPost, "/api/search", "10.2.0.2", "", `{"query":"q"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", rec.Code)
	}
	rec = do(e, http.MethodPost, "/api/search", "10.2.0.2", "not.a.token", `{"query":"q"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", rec.Code)
	}
}

func TestPipeline_LoginRateLimit(t *testing.T) {
	e, _ := newTestRouter(t)

	// /login is limited to 5/minute per client.
	for i := 1; i <= 5; i++ {
		rec := do(e, http.MethodPost, "/login", "10.3.0.1", "", `{"email":"admin@example.com","password":"wrong"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i, rec.Code)
		}
	}

	rec := do(e, http.MethodPost, "/login", "10.3.0.1", "", `{"email":"admin@example.com","password":"admin123"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("6th attempt: expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("429 must carry Retry-After")
	}

	// Another client is unaffected.
	if tok := login(t, e, "10.3.0.2", "admin@example.com", "admin123"); tok == "" {
		t.Fatalf("expected token for unthrottled client")
	}
}

func TestPipeline_SecurityHeadersOnEveryResponse(t *testing.T) {
	e, _ := newTestRouter(t)
	adminToken := login(t, e, "10.4.0.1", "admin@example.com", "admin123")

	cases := []struct {
		name string
		rec  *httptest.ResponseRecorder
	}{
		{"success", do(e, http.MethodGet, "/health", "10.4.0.2", "", "")},
		{"unauthorized", do(e, http.MethodGet, "/api/profile", "10.4.0.3", "", "")},
		{"forbidden", do(e, http.MethodGet, "/api/profile", "10.4.0.1", adminToken, "")},
		{"not found", do(e, http.MethodGet, "/nope", "10.4.0.4", "", "")},
	}
	for _, tc := range cases {
		h := tc.rec.Header()
		if h.Get("X-Frame-Options") != "DENY" ||
			h.Get("X-Content-Type-Options") != "nosniff" ||
			h.Get("Strict-Transport-Security") != "max-age=63072000" {
			t.Fatalf("%s (%d): security headers missing: %v", tc.name, tc.rec.Code, h)
		}
	}
}

func TestPipeline_Registration(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(e, http.MethodPost, "/registration", "10.5.0.1", "", `{"email":"new@example.com","password":"longenough"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("registration: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	// The fresh account logs in with the default user role.
	token := login(t, e, "10.5.0.2", "new@example.com", "longenough")
	rec = do(e, http.MethodGet, "/api/profile", "10.5.0.2", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"role":"user"`) {
		t.Fatalf("expected default user role, got %s", rec.Body.String())
	}

	// Duplicate registration conflicts.
	rec = do(e, http.MethodPost, "/registration", "10.5.0.1", "", `{"email":"new@example.com","password":"longenough"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate registration: expected 409, got %d", rec.Code)
	}
}

func TestPipeline_ExpiredToken(t *testing.T) {
	tokens, err := service.NewTokenService("test-secret", time.Nanosecond)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	e, err := NewRouter(Dependencies{
		Users:      seededRepo(t),
		Properties: &memPropertyRepo{},
		Tokens:     tokens,
		Limiter:    ratelimit.NewLimiter(ratelimit.NewMemoryStore()),
		Queue:      &memQueue{},
		Log:        zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	token := login(t, e, "10.6.0.1", "user@example.com", "user123")
	time.Sleep(10 * time.Millisecond)

	rec := do(e, http.MethodGet, "/api/profile", "10.6.0.1", token, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expired token: expected 401, got %d", rec.Code)
	}
}

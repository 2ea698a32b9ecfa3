package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/propdata/property-api/internal/core/domain"
)

type stubAuthService struct {
	token       string
	user        *domain.User
	loginErr    error
	registerErr error
	updateErr   error
}

func (s *stubAuthService) Login(context.Context, string, string) (string, *domain.User, error) {
	if s.loginErr != nil {
		return "", nil, s.loginErr
	}
	return s.token, s.user, nil
}

func (s *stubAuthService) Register(_ context.Context, email, _ string) (*domain.User, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &domain.User{Email: email, Role: domain.RoleUser}, nil
}

func (s *stubAuthService) UpdateRole(_ context.Context, email string, role domain.Role) (*domain.User, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &domain.User{Email: email, Role: role}, nil
}

func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		token: "signed-token",
		user:  &domain.User{Email: "admin@example.com", Role: domain.RoleAdmin},
	})

	c, rec := newJSONContext(t, http.MethodPost, "/login", `{"email":"admin@example.com","password":"admin123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken != "signed-token" {
		t.Fatalf("unexpected token: %q", resp.AccessToken)
	}
	if resp.TokenType != "bearer" {
		t.Fatalf("token_type = %q, want bearer", resp.TokenType)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{loginErr: domain.ErrInvalidCredentials})

	c, _ := newJSONContext(t, http.MethodPost, "/login", `{"email":"admin@example.com","password":"wrong"}`)
	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_RejectsInvalidPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	for _, body := range []string{
		`{"password":"x"}`,
		`{"email":"not-an-email","password":"x"}`,
		`{"email":"a@example.com"}`,
	} {
		c, _ := newJSONContext(t, http.MethodPost, "/login", body)
		err := h.Login(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %v", body, err)
		}
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newJSONContext(t, http.MethodPost, "/registration", `{"email":"new@example.com","password":"longenough"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newJSONContext(t, http.MethodPost, "/registration", `{"email":"new@example.com","password":"short"}`)
	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{registerErr: domain.ErrUserExists})

	c, _ := newJSONContext(t, http.MethodPost, "/registration", `{"email":"new@example.com","password":"longenough"}`)
	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_UpdateRole(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newJSONContext(t, http.MethodPut, "/admin/update-role", `{"email":"bob@example.com","role":"manager"}`)
	if err := h.UpdateRole(c); err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// A role outside the closed set never reaches the service.
	c, _ = newJSONContext(t, http.MethodPut, "/admin/update-role", `{"email":"bob@example.com","role":"root"}`)
	err := h.UpdateRole(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role, got %v", err)
	}
}

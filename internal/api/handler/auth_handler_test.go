package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/ports"
	"github.com/buildco/cms-api/internal/pkg/query"
)

// newContext builds an echo.Context around a JSON request, with the validator
// installed the way the router installs it.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withPrincipal(c echo.Context, p *domain.Principal) {
	req := c.Request()
	c.SetRequest(req.WithContext(domain.WithPrincipal(req.Context(), p)))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

type stubAuthService struct {
	loginFn          func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error)
	registerFn       func(ctx context.Context, in ports.NewUserInput) (*domain.User, error)
	authenticateFn   func(ctx context.Context, credential string) (*domain.Principal, error)
	logoutFn         func(ctx context.Context, p *domain.Principal) error
	changePasswordFn func(ctx context.Context, p *domain.Principal, current, next string) error
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.NewUserInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Authenticate(ctx context.Context, credential string) (*domain.Principal, error) {
	return s.authenticateFn(ctx, credential)
}

func (s *stubAuthService) Logout(ctx context.Context, p *domain.Principal) error {
	return s.logoutFn(ctx, p)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, p *domain.Principal, current, next string) error {
	return s.changePasswordFn(ctx, p, current, next)
}

type stubUserService struct {
	updateProfileFn func(ctx context.Context, p *domain.Principal, patch domain.UserPatch) (*domain.User, error)
	deleteFn        func(ctx context.Context, actor *domain.Principal, id string) error
}

func (s *stubUserService) List(context.Context, query.Params) (query.Page[*domain.User], error) {
	return query.Page[*domain.User]{}, nil
}

func (s *stubUserService) Get(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) Create(context.Context, ports.NewUserInput) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUserService) Update(context.Context, string, domain.UserPatch) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUserService) UpdateProfile(ctx context.Context, p *domain.Principal, patch domain.UserPatch) (*domain.User, error) {
	return s.updateProfileFn(ctx, p, patch)
}

func (s *stubUserService) Delete(ctx context.Context, actor *domain.Principal, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	expires := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
			if in.Email != "alice@example.com" || in.Password != "secret-pass" {
				t.Fatalf("unexpected args: %s %s", in.Email, in.Password)
			}
			return &ports.LoginResult{
				Token:     "token123",
				ExpiresAt: expires,
				User: &domain.User{
					ID: "u1", Name: "Alice", Email: "alice@example.com",
					PasswordHash: "hash", Role: domain.RoleAdmin,
				},
			}, nil
		},
	}
	h := NewAuthHandler(stub, &stubUserService{})

	c, rec := newContext(http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"secret-pass"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["success"] != true {
		t.Fatalf("expected success=true, got %v", resp["success"])
	}
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", resp["data"])
	}
	if data["token"] != "token123" {
		t.Fatalf("expected token, got %v", data["token"])
	}
	user, ok := data["user"].(map[string]any)
	if !ok || user["id"] != "u1" || user["role"] != "admin" || user["name"] != "Alice" {
		t.Fatalf("unexpected user payload: %+v", data["user"])
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Fatalf("password hash must never be rendered")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, &stubUserService{})

	c, rec := newContext(http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"wrong"}`)
	err := h.Login(c)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("handler must leave rendering to the error handler")
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, &stubUserService{})

	tests := []struct {
		name string
		body string
	}{
		{"missing password", `{"email":"alice@example.com"}`},
		{"malformed email", `{"email":"alice","password":"secret-pass"}`},
		{"empty body", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(http.MethodPost, "/api/auth/login", tt.body)
			if err := h.Login(c); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAuthHandler_Login_NotJSON(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{})

	c, _ := newContext(http.MethodPost, "/api/auth/login", "not-json")
	err := h.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 bind error, got %v", err)
	}
}

func TestLoginResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{domain.ErrInvalidCredentials, "invalid_credentials"},
		{domain.ErrLoginThrottled, "throttled"},
		{errors.New("db down"), "error"},
	}
	for _, tt := range tests {
		if got := loginResult(tt.err); got != tt.want {
			t.Fatalf("loginResult(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{})

	c, rec := newContext(http.MethodGet, "/api/auth/me", "")
	withPrincipal(c, &domain.Principal{
		User:      &domain.User{ID: "u1", Name: "Alice", Role: domain.RoleEditor},
		SessionID: "s1",
	})
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	data, _ := decodeBody(t, rec)["data"].(map[string]any)
	if data["id"] != "u1" || data["role"] != "editor" {
		t.Fatalf("unexpected user: %+v", data)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	var revoked string
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, p *domain.Principal) error {
			revoked = p.SessionID
			return nil
		},
	}
	h := NewAuthHandler(stub, &stubUserService{})

	c, rec := newContext(http.MethodPost, "/api/auth/logout", "")
	withPrincipal(c, &domain.Principal{User: &domain.User{ID: "u1"}, SessionID: "s1"})
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if revoked != "s1" {
		t.Fatalf("expected session s1 revoked, got %q", revoked)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout_RequiresPrincipal(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{})

	c, _ := newContext(http.MethodPost, "/api/auth/logout", "")
	if err := h.Logout(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAuthHandler_ChangePassword_Validation(t *testing.T) {
	stub := &stubAuthService{
		changePasswordFn: func(ctx context.Context, p *domain.Principal, current, next string) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	h := NewAuthHandler(stub, &stubUserService{})

	c, _ := newContext(http.MethodPut, "/api/auth/change-password", `{"currentPassword":"old-pass","newPassword":"short"}`)
	withPrincipal(c, &domain.Principal{User: &domain.User{ID: "u1"}, SessionID: "s1"})
	err := h.ChangePassword(c)

	var de *domain.Error
	if !errors.As(err, &de) || !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := de.Details["newPassword"]; !ok {
		t.Fatalf("expected newPassword detail, got %+v", de.Details)
	}
}

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/buildco/cms-api/internal/core/domain"
)

func contextAs(role domain.Role) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if role != "" {
		p := &domain.Principal{User: &domain.User{ID: "u1", Role: role}, SessionID: "sess-1"}
		req = req.WithContext(domain.WithPrincipal(req.Context(), p))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthorize_Allows(t *testing.T) {
	c, rec := contextAs(domain.RoleEditor)

	called := false
	mw := Authorize(domain.RoleAdmin, domain.RoleEditor)
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthorize_Forbids(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleViewer, domain.RoleEmployee, domain.RoleEditor} {
		c, _ := contextAs(role)

		handler := Authorize(domain.RoleAdmin)(func(c echo.Context) error {
			t.Fatalf("%s: should not reach next handler", role)
			return nil
		})

		err := handler(c)
		if !errors.Is(err, domain.ErrInsufficientRole) || !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("%s: expected insufficient role, got %v", role, err)
		}
	}
}

func TestAuthorize_RequiresPrincipal(t *testing.T) {
	c, _ := contextAs("")

	handler := Authorize(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
}

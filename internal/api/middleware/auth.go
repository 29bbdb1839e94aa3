package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/buildco/cms-api/internal/api/metrics"
	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/ports"
)

// Authenticate resolves the bearer credential to a principal and stores it in
// the request context. Requests without a valid credential stop here with a
// 401 error; the error handler renders it.
func Authenticate(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			credential, ok := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				reject(domain.ErrNoToken)
				return domain.ErrNoToken
			}

			p, err := auth.Authenticate(c.Request().Context(), credential)
			if err != nil {
				reject(err)
				return err
			}

			attach(c, p)
			return next(c)
		}
	}
}

// OptionalAuthenticate attaches a principal when the request carries a valid
// credential. Anything else, including a stale or malformed credential, is
// served as anonymous; failures are only counted.
func OptionalAuthenticate(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if strings.TrimSpace(header) == "" {
				return next(c)
			}
			credential, ok := bearer(header)
			if !ok {
				reject(domain.ErrInvalidToken)
				return next(c)
			}

			p, err := auth.Authenticate(c.Request().Context(), credential)
			if err != nil {
				reject(err)
				return next(c)
			}

			attach(c, p)
			return next(c)
		}
	}
}

// bearer extracts the credential from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearer(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	credential := strings.TrimSpace(parts[1])
	return credential, credential != ""
}

func attach(c echo.Context, p *domain.Principal) {
	req := c.Request()
	c.SetRequest(req.WithContext(domain.WithPrincipal(req.Context(), p)))
}

var rejectionReasons = []struct {
	err    error
	reason string
}{
	{domain.ErrNoToken, "no_token"},
	{domain.ErrInvalidToken, "invalid_token"},
	{domain.ErrSessionNotFound, "session_not_found"},
	{domain.ErrSessionExpired, "session_expired"},
	{domain.ErrSessionUserMissing, "user_missing"},
	{domain.ErrInvalidSession, "invalid_session"},
	{domain.ErrAuthRequired, "auth_required"},
	{domain.ErrInsufficientRole, "insufficient_role"},
}

func reject(err error) {
	reason := "other"
	for _, r := range rejectionReasons {
		if errors.Is(err, r.err) {
			reason = r.reason
			break
		}
	}
	metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
}

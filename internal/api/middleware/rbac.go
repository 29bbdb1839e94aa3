package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/buildco/cms-api/internal/core/domain"
)

// Authorize enforces role-based access control. It must run after
// Authenticate: a request without a principal fails with 401, a principal
// holding none of roles fails with 403.
func Authorize(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := domain.PrincipalFrom(c.Request().Context())
			if !ok {
				reject(domain.ErrAuthRequired)
				return domain.ErrAuthRequired
			}
			if _, ok := allowed[p.Role()]; !ok {
				reject(domain.ErrInsufficientRole)
				return domain.ErrInsufficientRole
			}
			return next(c)
		}
	}
}

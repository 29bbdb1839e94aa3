package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/pkg/query"
)

// viewer returns the principal attached by the authentication middleware, or
// nil for anonymous requests.
func viewer(c echo.Context) *domain.Principal {
	p, ok := domain.PrincipalFrom(c.Request().Context())
	if !ok {
		return nil
	}
	return p
}

// requireViewer fails fast with 401 when no principal is attached. Routes
// behind Authenticate never hit this; it guards against a missing middleware.
func requireViewer(c echo.Context) (*domain.Principal, error) {
	p := viewer(c)
	if p == nil {
		return nil, domain.ErrAuthRequired
	}
	return p, nil
}

// bindValid decodes the request body into req and runs the struct validator.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}

func listParams(c echo.Context) query.Params {
	return query.Parse(c.QueryParams())
}

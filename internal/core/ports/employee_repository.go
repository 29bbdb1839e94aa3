package ports

import (
	"context"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/pkg/query"
)

// EmployeeFilter carries the constraints a listing applies on top of the
// caller's query parameters.
type EmployeeFilter struct {
	ActiveOnly bool
}

// EmployeeRepository persists employee profiles. Every read takes the
// projection to load; restricted fields are fetched only for
// domain.ProjectionPrivate.
type EmployeeRepository interface {
	Create(ctx context.Context, e *domain.Employee) error
	FindByID(ctx context.Context, id string, proj domain.Projection) (*domain.Employee, error)
	FindByUserID(ctx context.Context, userID string, proj domain.Projection) (*domain.Employee, error)
	ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error)
	List(ctx context.Context, filter EmployeeFilter, p query.Params, proj domain.Projection) ([]*domain.Employee, int64, error)
	Update(ctx context.Context, id string, patch domain.EmployeePatch, proj domain.Projection) (*domain.Employee, error)
	SetProjects(ctx context.Context, id string, projectIDs []string, proj domain.Projection) (*domain.Employee, error)
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

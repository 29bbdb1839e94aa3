package ports

import (
	"context"
	"time"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/pkg/query"
)

// CreateEmployeeInput carries the identity and employment data of a new
// employee. Both records are created together.
type CreateEmployeeInput struct {
	Name        string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	EmployeeID  string
	Position    domain.Position
	Department  string
	HireDate    time.Time
	Skills      []string
	Personal    domain.PersonalData
}

type EmployeeService interface {
	Directory(ctx context.Context, p query.Params) (query.Page[*domain.Employee], error)
	AdminList(ctx context.Context, viewer *domain.Principal, p query.Params) (query.Page[*domain.Employee], error)
	GetProfile(ctx context.Context, viewer *domain.Principal, id string) (*domain.Employee, error)
	GetMine(ctx context.Context, viewer *domain.Principal) (*domain.Employee, error)
	GetAdmin(ctx context.Context, viewer *domain.Principal, id string) (*domain.Employee, error)
	Create(ctx context.Context, viewer *domain.Principal, in CreateEmployeeInput) (*domain.Employee, error)
	Update(ctx context.Context, viewer *domain.Principal, id string, patch domain.EmployeePatch) (*domain.Employee, error)
	SetProjects(ctx context.Context, viewer *domain.Principal, id string, projectIDs []string) (*domain.Employee, error)
	Delete(ctx context.Context, id string) error
}

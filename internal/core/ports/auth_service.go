package ports

import (
	"context"
	"time"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/pkg/query"
)

// LoginInput carries credentials and the client metadata recorded on the session.
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IP        string
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// NewUserInput carries the fields of a new identity.
type NewUserInput struct {
	Name              string
	Email             string
	Password          string
	Role              domain.Role
	Phone             string
	Photo             string
	YearsOfExperience int
	Description       domain.Bilingual
}

type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Register(ctx context.Context, in NewUserInput) (*domain.User, error)
	// Authenticate resolves a bearer credential to a principal or fails with
	// an error of kind domain.ErrUnauthorized.
	Authenticate(ctx context.Context, credential string) (*domain.Principal, error)
	Logout(ctx context.Context, p *domain.Principal) error
	ChangePassword(ctx context.Context, p *domain.Principal, current, next string) error
}

type UserService interface {
	List(ctx context.Context, p query.Params) (query.Page[*domain.User], error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, in NewUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	// UpdateProfile applies a self-service patch; role changes are rejected.
	UpdateProfile(ctx context.Context, p *domain.Principal, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, actor *domain.Principal, id string) error
}

package ports

import (
	"context"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/pkg/query"
)

// UserRepository persists identities. Only the FindCredentials* methods load
// the password hash; every other read leaves User.PasswordHash empty.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
	FindCredentialsByEmail(ctx context.Context, email string) (*domain.User, error)
	FindCredentialsByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, p query.Params) ([]*domain.User, int64, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

// SessionRepository persists login sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *domain.Session) error
	FindByID(ctx context.Context, id string) (*domain.Session, error)
	// Delete removes a session. A missing session is not an error.
	Delete(ctx context.Context, id string) error
	// DeleteByUserID removes every session of userID except exceptID.
	DeleteByUserID(ctx context.Context, userID, exceptID string) (int64, error)
}

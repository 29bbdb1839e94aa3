package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/ports"
	"github.com/buildco/cms-api/internal/pkg/query"
)

// UserService implements administrative identity management.
type UserService struct {
	users     ports.UserRepository
	sessions  ports.SessionRepository
	employees ports.EmployeeRepository
	hasher    PasswordHasher
	log       zerolog.Logger
	now       func() time.Time
}

func NewUserService(
	users ports.UserRepository,
	sessions ports.SessionRepository,
	employees ports.EmployeeRepository,
	hasher PasswordHasher,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		sessions:  sessions,
		employees: employees,
		hasher:    hasher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *UserService) List(ctx context.Context, p query.Params) (query.Page[*domain.User], error) {
	users, total, err := s.users.List(ctx, p)
	if err != nil {
		return query.Page[*domain.User]{}, fmt.Errorf("list users: %w", err)
	}
	return query.NewPage(users, total, p), nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) Create(ctx context.Context, in ports.NewUserInput) (*domain.User, error) {
	return createUser(ctx, s.users, s.hasher, in, s.now())
}

func (s *UserService) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	if err := normalizeUserPatch(&patch); err != nil {
		return nil, err
	}
	return s.users.Update(ctx, id, patch)
}

func (s *UserService) UpdateProfile(ctx context.Context, p *domain.Principal, patch domain.UserPatch) (*domain.User, error) {
	if p == nil {
		return nil, domain.ErrAuthRequired
	}
	if patch.Role != nil && *patch.Role != p.Role() {
		return nil, domain.ErrInsufficientRole
	}
	patch.Role = nil
	if err := normalizeUserPatch(&patch); err != nil {
		return nil, err
	}
	return s.users.Update(ctx, p.UserID(), patch)
}

// Delete removes an identity, its sessions and any employee profile linked
// to it. An identity cannot delete itself.
func (s *UserService) Delete(ctx context.Context, actor *domain.Principal, id string) error {
	if actor != nil && actor.UserID() == id {
		return domain.ErrCannotDeleteSelf
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	if _, err := s.sessions.DeleteByUserID(ctx, id, ""); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("failed to delete sessions of removed user")
	}
	if err := s.employees.DeleteByUserID(ctx, id); err != nil && !errors.Is(err, domain.ErrEmployeeNotFound) {
		s.log.Warn().Err(err).Str("user_id", id).Msg("failed to delete employee profile of removed user")
	}
	return nil
}

// createUser is the single creation path for identities. It always hashes the
// password before anything is written.
func createUser(ctx context.Context, users ports.UserRepository, hasher PasswordHasher, in ports.NewUserInput, now time.Time) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, domain.Validationf("name, email and password are required")
	}
	if err := checkPasswordLength("password", in.Password); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = domain.RoleViewer
	}
	if !in.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	// The unique index on email is authoritative; this only gives the common
	// case a clean error before paying for a hash.
	exists, err := users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	hash, err := hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: hash: %w", err)
	}

	created, err := users.Create(ctx, &domain.User{
		Name:              in.Name,
		Email:             in.Email,
		PasswordHash:      hash,
		Role:              in.Role,
		Phone:             in.Phone,
		Photo:             in.Photo,
		YearsOfExperience: in.YearsOfExperience,
		Description:       in.Description,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		return nil, err
	}
	created.PasswordHash = ""
	return created, nil
}

func normalizeUserPatch(patch *domain.UserPatch) error {
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email == "" {
			return domain.Validationf("email cannot be empty")
		}
		patch.Email = &email
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return domain.Validationf("name cannot be empty")
		}
		patch.Name = &name
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return domain.ErrInvalidRole
	}
	if patch.YearsOfExperience != nil && *patch.YearsOfExperience < 0 {
		return domain.Validationf("yearsOfExperience cannot be negative")
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/ports"
)

func newUserFixture() (*UserService, *stubUserRepo, *stubSessionRepo, *stubEmployeeRepo) {
	users := newStubUserRepo()
	sessions := newStubSessionRepo()
	employees := newStubEmployeeRepo()
	return NewUserService(users, sessions, employees, plainHasher{}, zerolog.Nop()), users, sessions, employees
}

func TestUserDelete_CannotDeleteSelf(t *testing.T) {
	svc, users, _, _ := newUserFixture()
	users.seed(&domain.User{ID: "u1", Email: "a@example.com", Role: domain.RoleAdmin})

	err := svc.Delete(context.Background(), principal("u1", domain.RoleAdmin), "u1")
	if !errors.Is(err, domain.ErrCannotDeleteSelf) {
		t.Fatalf("expected ErrCannotDeleteSelf, got %v", err)
	}
	if users.count() != 1 {
		t.Fatalf("user should remain")
	}
}

func TestUserDelete_CascadesToSessionsAndEmployee(t *testing.T) {
	svc, users, sessions, employees := newUserFixture()
	ctx := context.Background()
	users.seed(&domain.User{ID: "u2", Email: "b@example.com", Role: domain.RoleEmployee})
	_ = sessions.Create(ctx, &domain.Session{ID: "s2", UserID: "u2"})
	_ = employees.Create(ctx, &domain.Employee{UserID: "u2", EmployeeID: "EMP-9"})

	if err := svc.Delete(ctx, principal("admin", domain.RoleAdmin), "u2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if users.count() != 0 || employees.count() != 0 || sessions.has("s2") {
		t.Fatalf("expected cascade to remove user, employee and session")
	}
}

func TestUserDelete_NotFound(t *testing.T) {
	svc, _, _, _ := newUserFixture()

	err := svc.Delete(context.Background(), principal("admin", domain.RoleAdmin), "missing")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserUpdateProfile_CannotChangeRole(t *testing.T) {
	svc, users, _, _ := newUserFixture()
	users.seed(&domain.User{ID: "u1", Name: "Ann", Email: "a@example.com", Role: domain.RoleViewer})
	p := principal("u1", domain.RoleViewer)

	admin := domain.RoleAdmin
	if _, err := svc.UpdateProfile(context.Background(), p, domain.UserPatch{Role: &admin}); !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("expected ErrInsufficientRole, got %v", err)
	}

	name := "  Annie "
	got, err := svc.UpdateProfile(context.Background(), p, domain.UserPatch{Name: &name})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if got.Name != "Annie" || got.Role != domain.RoleViewer {
		t.Fatalf("unexpected user after update: %+v", got)
	}
}

func TestUserCreate_Validation(t *testing.T) {
	svc, _, _, _ := newUserFixture()

	tests := []struct {
		name string
		in   ports.NewUserInput
		want error
	}{
		{"missing email", ports.NewUserInput{Name: "A", Password: "long-enough"}, domain.ErrValidation},
		{"short password", ports.NewUserInput{Name: "A", Email: "a@example.com", Password: "short"}, domain.ErrValidation},
		{"password over 72 bytes", ports.NewUserInput{Name: "A", Email: "a@example.com", Password: strings.Repeat("a", 80)}, domain.ErrValidation},
		{"bad role", ports.NewUserInput{Name: "A", Email: "a@example.com", Password: "long-enough", Role: "root"}, domain.ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestUserCreate_LongPasswordNeverReachesBcrypt(t *testing.T) {
	users := newStubUserRepo()
	svc := NewUserService(users, newStubSessionRepo(), newStubEmployeeRepo(), NewBcryptHasher(4), zerolog.Nop())

	_, err := svc.Create(context.Background(), ports.NewUserInput{
		Name:     "A",
		Email:    "a@example.com",
		Password: strings.Repeat("é", 40),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if exists, _ := users.ExistsByEmail(context.Background(), "a@example.com"); exists {
		t.Fatalf("nothing must be written for a rejected password")
	}
}

func TestUserCreate_DefaultsToViewer(t *testing.T) {
	svc, _, _, _ := newUserFixture()

	u, err := svc.Create(context.Background(), ports.NewUserInput{Name: "A", Email: "a@example.com", Password: "long-enough"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Role != domain.RoleViewer {
		t.Fatalf("expected viewer, got %q", u.Role)
	}
	if u.PasswordHash != "" {
		t.Fatalf("password hash returned from create")
	}
}

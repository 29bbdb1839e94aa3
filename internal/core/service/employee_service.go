package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/policy"
	"github.com/buildco/cms-api/internal/core/ports"
	"github.com/buildco/cms-api/internal/pkg/query"
)

// EmployeeService implements the employee directory and employee lifecycle.
// Every read asks the visibility policy for its projection before touching
// storage.
type EmployeeService struct {
	employees ports.EmployeeRepository
	users     ports.UserRepository
	sessions  ports.SessionRepository
	hasher    PasswordHasher
	policy    policy.Policy
	log       zerolog.Logger
	now       func() time.Time
}

func NewEmployeeService(
	employees ports.EmployeeRepository,
	users ports.UserRepository,
	sessions ports.SessionRepository,
	hasher PasswordHasher,
	pol policy.Policy,
	log zerolog.Logger,
) *EmployeeService {
	return &EmployeeService{
		employees: employees,
		users:     users,
		sessions:  sessions,
		hasher:    hasher,
		policy:    pol,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Directory lists active employees with the public card only.
func (s *EmployeeService) Directory(ctx context.Context, p query.Params) (query.Page[*domain.Employee], error) {
	proj := s.policy.EmployeeProjection(nil, policy.AccessDirectory, "")
	emps, total, err := s.employees.List(ctx, ports.EmployeeFilter{ActiveOnly: true}, p, proj)
	if err != nil {
		return query.Page[*domain.Employee]{}, fmt.Errorf("employee directory: %w", err)
	}
	return query.NewPage(emps, total, p), nil
}

// AdminList lists every employee, active or not, without personal data.
func (s *EmployeeService) AdminList(ctx context.Context, viewer *domain.Principal, p query.Params) (query.Page[*domain.Employee], error) {
	proj := s.policy.EmployeeProjection(viewer, policy.AccessAdminList, "")
	emps, total, err := s.employees.List(ctx, ports.EmployeeFilter{}, p, proj)
	if err != nil {
		return query.Page[*domain.Employee]{}, fmt.Errorf("list employees: %w", err)
	}
	s.populate(ctx, emps...)
	return query.NewPage(emps, total, p), nil
}

func (s *EmployeeService) GetProfile(ctx context.Context, viewer *domain.Principal, id string) (*domain.Employee, error) {
	proj := s.policy.EmployeeProjection(viewer, policy.AccessProfile, "")
	return s.employees.FindByID(ctx, id, proj)
}

func (s *EmployeeService) GetMine(ctx context.Context, viewer *domain.Principal) (*domain.Employee, error) {
	if viewer == nil {
		return nil, domain.ErrAuthRequired
	}
	proj := s.policy.EmployeeProjection(viewer, policy.AccessSelf, viewer.UserID())
	emp, err := s.employees.FindByUserID(ctx, viewer.UserID(), proj)
	if err != nil {
		return nil, err
	}
	s.populate(ctx, emp)
	return emp, nil
}

func (s *EmployeeService) GetAdmin(ctx context.Context, viewer *domain.Principal, id string) (*domain.Employee, error) {
	proj := s.policy.EmployeeProjection(viewer, policy.AccessAdmin, "")
	emp, err := s.employees.FindByID(ctx, id, proj)
	if err != nil {
		return nil, err
	}
	s.populate(ctx, emp)
	return emp, nil
}

// Create makes the identity first and the employee second. If the employee
// insert fails the identity is removed again; a failed removal is logged and
// does not change the returned error.
func (s *EmployeeService) Create(ctx context.Context, viewer *domain.Principal, in ports.CreateEmployeeInput) (*domain.Employee, error) {
	if err := validateNewEmployee(&in); err != nil {
		return nil, err
	}

	taken, err := s.employees.ExistsByEmployeeID(ctx, in.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	if taken {
		return nil, domain.ErrEmployeeIDTaken
	}

	now := s.now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = in.FirstName + " " + in.LastName
	}
	user, err := createUser(ctx, s.users, s.hasher, ports.NewUserInput{
		Name:     name,
		Email:    in.Email,
		Password: in.Password,
		Role:     domain.RoleEmployee,
		Phone:    in.PhoneNumber,
	}, now)
	if err != nil {
		return nil, err
	}

	personal := in.Personal
	emp := &domain.Employee{
		UserID:      user.ID,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
		EmployeeID:  in.EmployeeID,
		Position:    in.Position,
		Department:  in.Department,
		HireDate:    in.HireDate,
		Projects:    []string{},
		Skills:      in.Skills,
		IsActive:    true,
		JoinDate:    now,
		CreatedAt:   now,
		UpdatedAt:   now,
		Personal:    &personal,
	}
	if emp.Skills == nil {
		emp.Skills = []string{}
	}

	if err := s.employees.Create(ctx, emp); err != nil {
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("user_id", user.ID).Msg("failed to roll back user after employee insert failed")
		}
		return nil, err
	}

	s.log.Info().Str("employee_id", emp.EmployeeID).Str("user_id", user.ID).Msg("employee created")

	emp.User = &domain.UserSummary{ID: user.ID, Name: user.Name, Email: user.Email}
	emp.Projection = s.policy.EmployeeProjection(viewer, policy.AccessAdmin, user.ID)
	if emp.Projection != domain.ProjectionPrivate {
		emp.Personal = nil
	}
	return emp, nil
}

func (s *EmployeeService) Update(ctx context.Context, viewer *domain.Principal, id string, patch domain.EmployeePatch) (*domain.Employee, error) {
	if err := validateEmployeePatch(patch); err != nil {
		return nil, err
	}
	proj := s.policy.EmployeeProjection(viewer, policy.AccessAdmin, "")
	emp, err := s.employees.Update(ctx, id, patch, proj)
	if err != nil {
		return nil, err
	}
	s.populate(ctx, emp)
	return emp, nil
}

// SetProjects replaces the project list of an employee.
func (s *EmployeeService) SetProjects(ctx context.Context, viewer *domain.Principal, id string, projectIDs []string) (*domain.Employee, error) {
	if projectIDs == nil {
		return nil, domain.Validationf("projectIds must be an array")
	}
	seen := make(map[string]struct{}, len(projectIDs))
	ids := make([]string, 0, len(projectIDs))
	for _, pid := range projectIDs {
		pid = strings.TrimSpace(pid)
		if pid == "" {
			return nil, domain.ErrInvalidID
		}
		if _, dup := seen[pid]; dup {
			continue
		}
		seen[pid] = struct{}{}
		ids = append(ids, pid)
	}

	proj := s.policy.EmployeeProjection(viewer, policy.AccessAdmin, "")
	emp, err := s.employees.SetProjects(ctx, id, ids, proj)
	if err != nil {
		return nil, err
	}
	s.populate(ctx, emp)
	return emp, nil
}

// Delete removes the linked identity first and the employee record second.
// If the identity is already gone the employee is still removed.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	emp, err := s.employees.FindByID(ctx, id, domain.ProjectionStandard)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, emp.UserID); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("delete employee user: %w", err)
	}
	if _, err := s.sessions.DeleteByUserID(ctx, emp.UserID, ""); err != nil {
		s.log.Warn().Err(err).Str("user_id", emp.UserID).Msg("failed to delete sessions of removed employee")
	}

	if err := s.employees.Delete(ctx, emp.ID); err != nil {
		s.log.Error().Err(err).Str("employee", emp.ID).Msg("identity removed but employee delete failed")
		return fmt.Errorf("delete employee: %w", err)
	}

	s.log.Info().Str("employee_id", emp.EmployeeID).Str("user_id", emp.UserID).Msg("employee deleted")
	return nil
}

func (s *EmployeeService) populate(ctx context.Context, emps ...*domain.Employee) {
	ids := make([]string, 0, len(emps))
	for _, e := range emps {
		if e != nil && e.UserID != "" {
			ids = append(ids, e.UserID)
		}
	}
	if len(ids) == 0 {
		return
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to load users for employees")
		return
	}
	for _, e := range emps {
		if u, ok := users[e.UserID]; ok {
			e.User = &domain.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
		}
	}
}

func validateNewEmployee(in *ports.CreateEmployeeInput) error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)
	in.Department = strings.TrimSpace(in.Department)

	missing := make(map[string]string)
	for field, value := range map[string]string{
		"email":       in.Email,
		"password":    in.Password,
		"firstName":   in.FirstName,
		"lastName":    in.LastName,
		"phoneNumber": in.PhoneNumber,
		"employeeId":  in.EmployeeID,
		"department":  in.Department,
	} {
		if strings.TrimSpace(value) == "" {
			missing[field] = field + " is required"
		}
	}
	if in.HireDate.IsZero() {
		missing["hireDate"] = "hireDate is required"
	}
	if len(missing) > 0 {
		return domain.ValidationDetails(missing)
	}
	if !in.Position.Valid() {
		return domain.ErrInvalidPosition
	}
	if in.Personal.Salary != nil && *in.Personal.Salary < 0 {
		return domain.Validationf("salary cannot be negative")
	}
	return nil
}

func validateEmployeePatch(patch domain.EmployeePatch) error {
	if patch.Position != nil && !patch.Position.Valid() {
		return domain.ErrInvalidPosition
	}
	if patch.Salary != nil && *patch.Salary < 0 {
		return domain.Validationf("salary cannot be negative")
	}
	for field, value := range map[string]*string{
		"firstName":   patch.FirstName,
		"lastName":    patch.LastName,
		"phoneNumber": patch.PhoneNumber,
		"department":  patch.Department,
	} {
		if value != nil && strings.TrimSpace(*value) == "" {
			return domain.Validationf("%s cannot be empty", field)
		}
	}
	return nil
}

package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/ports"
	"github.com/buildco/cms-api/internal/pkg/query"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

// plainHasher avoids bcrypt's cost in tests.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (plainHasher) Verify(plain, hash string) bool { return hash != "" && hash == "hashed:"+plain }

type stubUserRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.User
	seq       int
	deleteErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if u.ID == "" {
		u.ID = fmt.Sprintf("user-%d", r.seq)
	}
	clone := *u
	r.byID[u.ID] = &clone
	return u
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			r.mu.Unlock()
			return nil, domain.ErrEmailTaken
		}
	}
	r.mu.Unlock()
	out := *r.seed(u)
	return &out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone, nil
}

func (r *stubUserRepo) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	out := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, err := r.FindByID(ctx, id); err == nil {
			out[id] = u
		}
	}
	return out, nil
}

func (r *stubUserRepo) FindCredentialsByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindCredentialsByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindCredentialsByEmail(ctx, email)
	return err == nil, nil
}

func (r *stubUserRepo) List(_ context.Context, p query.Params) ([]*domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.byID {
		clone := *u
		clone.PasswordHash = ""
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone, nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type stubSessionRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Session
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{byID: make(map[string]*domain.Session)}
}

func (r *stubSessionRepo) Create(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *s
	r.byID[s.ID] = &clone
	return nil
}

func (r *stubSessionRepo) FindByID(_ context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubSessionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *stubSessionRepo) DeleteByUserID(_ context.Context, userID, exceptID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.byID {
		if s.UserID == userID && id != exceptID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

func (r *stubSessionRepo) has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byID[id]
	return ok
}

// stubEmployeeRepo mirrors the Mongo projections: restricted fields are only
// returned for domain.ProjectionPrivate.
type stubEmployeeRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Employee
	seq       int
	createErr error
	lastProj  domain.Projection
}

func newStubEmployeeRepo() *stubEmployeeRepo {
	return &stubEmployeeRepo{byID: make(map[string]*domain.Employee)}
}

func (r *stubEmployeeRepo) project(e *domain.Employee, proj domain.Projection) *domain.Employee {
	r.lastProj = proj
	clone := *e
	clone.Projection = proj
	if proj == domain.ProjectionPrivate && e.Personal != nil {
		personal := *e.Personal
		clone.Personal = &personal
	} else {
		clone.Personal = nil
	}
	return &clone
}

func (r *stubEmployeeRepo) Create(_ context.Context, e *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	e.ID = fmt.Sprintf("emp-%d", r.seq)
	clone := *e
	r.byID[e.ID] = &clone
	return nil
}

func (r *stubEmployeeRepo) FindByID(_ context.Context, id string, proj domain.Projection) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return r.project(e, proj), nil
}

func (r *stubEmployeeRepo) FindByUserID(_ context.Context, userID string, proj domain.Projection) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.byID {
		if e.UserID == userID {
			return r.project(e, proj), nil
		}
	}
	return nil, domain.ErrEmployeeNotFound
}

func (r *stubEmployeeRepo) ExistsByEmployeeID(_ context.Context, employeeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.byID {
		if strings.EqualFold(e.EmployeeID, employeeID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubEmployeeRepo) List(_ context.Context, f ports.EmployeeFilter, _ query.Params, proj domain.Projection) ([]*domain.Employee, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Employee
	for _, e := range r.byID {
		if f.ActiveOnly && !e.IsActive {
			continue
		}
		out = append(out, r.project(e, proj))
	}
	return out, int64(len(out)), nil
}

func (r *stubEmployeeRepo) Update(_ context.Context, id string, patch domain.EmployeePatch, proj domain.Projection) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	if patch.Department != nil {
		e.Department = *patch.Department
	}
	if patch.IsActive != nil {
		e.IsActive = *patch.IsActive
	}
	if patch.Salary != nil {
		if e.Personal == nil {
			e.Personal = &domain.PersonalData{}
		}
		e.Personal.Salary = patch.Salary
	}
	return r.project(e, proj), nil
}

func (r *stubEmployeeRepo) SetProjects(_ context.Context, id string, ids []string, proj domain.Projection) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	e.Projects = ids
	return r.project(e, proj), nil
}

func (r *stubEmployeeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrEmployeeNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubEmployeeRepo) DeleteByUserID(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.byID {
		if e.UserID == userID {
			delete(r.byID, id)
			return nil
		}
	}
	return domain.ErrEmployeeNotFound
}

func (r *stubEmployeeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type stubThrottle struct {
	blocked  map[string]bool
	failures map[string]int
	resets   int
}

func newStubThrottle() *stubThrottle {
	return &stubThrottle{blocked: make(map[string]bool), failures: make(map[string]int)}
}

func (t *stubThrottle) Allow(_ context.Context, key string) (bool, error) { return !t.blocked[key], nil }

func (t *stubThrottle) Fail(_ context.Context, key string) error {
	t.failures[key]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, key string) error {
	delete(t.failures, key)
	t.resets++
	return nil
}

func principal(id string, role domain.Role) *domain.Principal {
	return &domain.Principal{User: &domain.User{ID: id, Role: role}, SessionID: "sess-" + id}
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/ports"
	"github.com/buildco/cms-api/internal/pkg/query"
)

var restrictedKeys = []string{"ssn", "dateOfBirth", "address", "emergencyContact", "salary"}

type stubEmployeeService struct {
	directoryFn   func(ctx context.Context, p query.Params) (query.Page[*domain.Employee], error)
	getProfileFn  func(ctx context.Context, viewer *domain.Principal, id string) (*domain.Employee, error)
	getMineFn     func(ctx context.Context, viewer *domain.Principal) (*domain.Employee, error)
	createFn      func(ctx context.Context, viewer *domain.Principal, in ports.CreateEmployeeInput) (*domain.Employee, error)
	setProjectsFn func(ctx context.Context, viewer *domain.Principal, id string, ids []string) (*domain.Employee, error)
}

func (s *stubEmployeeService) Directory(ctx context.Context, p query.Params) (query.Page[*domain.Employee], error) {
	return s.directoryFn(ctx, p)
}

func (s *stubEmployeeService) AdminList(context.Context, *domain.Principal, query.Params) (query.Page[*domain.Employee], error) {
	return query.Page[*domain.Employee]{}, nil
}

func (s *stubEmployeeService) GetProfile(ctx context.Context, viewer *domain.Principal, id string) (*domain.Employee, error) {
	return s.getProfileFn(ctx, viewer, id)
}

func (s *stubEmployeeService) GetMine(ctx context.Context, viewer *domain.Principal) (*domain.Employee, error) {
	return s.getMineFn(ctx, viewer)
}

func (s *stubEmployeeService) GetAdmin(context.Context, *domain.Principal, string) (*domain.Employee, error) {
	return nil, domain.ErrEmployeeNotFound
}

func (s *stubEmployeeService) Create(ctx context.Context, viewer *domain.Principal, in ports.CreateEmployeeInput) (*domain.Employee, error) {
	return s.createFn(ctx, viewer, in)
}

func (s *stubEmployeeService) Update(context.Context, *domain.Principal, string, domain.EmployeePatch) (*domain.Employee, error) {
	return nil, domain.ErrEmployeeNotFound
}

func (s *stubEmployeeService) SetProjects(ctx context.Context, viewer *domain.Principal, id string, ids []string) (*domain.Employee, error) {
	return s.setProjectsFn(ctx, viewer, id, ids)
}

func (s *stubEmployeeService) Delete(context.Context, string) error {
	return nil
}

func sampleEmployee(projection domain.Projection) *domain.Employee {
	salary := 52000.0
	dob := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	return &domain.Employee{
		ID:          "e1",
		UserID:      "u1",
		FirstName:   "Sara",
		LastName:    "Haddad",
		PhoneNumber: "+96170000000",
		EmployeeID:  "EMP-001",
		Position:    domain.Position("engineer"),
		Department:  "Civil",
		HireDate:    time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC),
		IsActive:    true,
		Personal: &domain.PersonalData{
			SSN:              "123-45-6789",
			DateOfBirth:      &dob,
			Address:          "Beirut",
			EmergencyContact: "Omar",
			Salary:           &salary,
		},
		Projection: projection,
	}
}

func renderKeys(t *testing.T, v any) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return m
}

func TestToEmployeeResponse_Projections(t *testing.T) {
	tests := []struct {
		name           string
		projection     domain.Projection
		wantRestricted bool
		wantEmployeeID bool
	}{
		{"directory card", domain.ProjectionDirectory, false, false},
		{"standard", domain.ProjectionStandard, false, true},
		{"private", domain.ProjectionPrivate, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := renderKeys(t, toEmployeeResponse(sampleEmployee(tt.projection)))
			for _, k := range restrictedKeys {
				if _, ok := m[k]; ok != tt.wantRestricted {
					t.Fatalf("key %q present=%v, want %v", k, ok, tt.wantRestricted)
				}
			}
			if _, ok := m["employeeId"]; ok != tt.wantEmployeeID {
				t.Fatalf("employeeId present=%v, want %v", ok, tt.wantEmployeeID)
			}
			if m["firstName"] != "Sara" {
				t.Fatalf("expected firstName, got %v", m["firstName"])
			}
		})
	}
}

func TestToEmployeeResponse_PrivateWithoutPersonalData(t *testing.T) {
	e := sampleEmployee(domain.ProjectionPrivate)
	e.Personal = nil

	m := renderKeys(t, toEmployeeResponse(e))
	for _, k := range restrictedKeys {
		if _, ok := m[k]; ok {
			t.Fatalf("key %q must not render without personal data", k)
		}
	}
}

func TestEmployeeHandler_Directory_NeverRendersRestrictedFields(t *testing.T) {
	stub := &stubEmployeeService{
		directoryFn: func(ctx context.Context, p query.Params) (query.Page[*domain.Employee], error) {
			// A misbehaving store that loaded personal data anyway.
			e := sampleEmployee(domain.ProjectionDirectory)
			return query.NewPage([]*domain.Employee{e}, 1, p), nil
		},
	}
	h := NewEmployeeHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/employees/directory", "")
	if err := h.Directory(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decodeBody(t, rec)
	items, ok := resp["data"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected one item, got %v", resp["data"])
	}
	card := items[0].(map[string]any)
	for _, k := range append(restrictedKeys, "employeeId", "userId") {
		if _, ok := card[k]; ok {
			t.Fatalf("directory card must not carry %q", k)
		}
	}
	if _, ok := resp["pagination"].(map[string]any); !ok {
		t.Fatalf("expected pagination block")
	}
}

func TestEmployeeHandler_Me(t *testing.T) {
	stub := &stubEmployeeService{
		getMineFn: func(ctx context.Context, viewer *domain.Principal) (*domain.Employee, error) {
			if viewer.UserID() != "u1" {
				t.Fatalf("unexpected viewer %q", viewer.UserID())
			}
			return sampleEmployee(domain.ProjectionPrivate), nil
		},
	}
	h := NewEmployeeHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/employees/me", "")
	withPrincipal(c, &domain.Principal{User: &domain.User{ID: "u1", Role: domain.RoleEmployee}, SessionID: "s1"})
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	data, _ := decodeBody(t, rec)["data"].(map[string]any)
	if data["ssn"] != "123-45-6789" || data["salary"] != 52000.0 {
		t.Fatalf("expected own personal data, got %+v", data)
	}
}

func TestEmployeeHandler_Me_Anonymous(t *testing.T) {
	h := NewEmployeeHandler(&stubEmployeeService{})

	c, _ := newContext(http.MethodGet, "/api/employees/me", "")
	if err := h.Me(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestEmployeeHandler_Create(t *testing.T) {
	stub := &stubEmployeeService{
		createFn: func(ctx context.Context, viewer *domain.Principal, in ports.CreateEmployeeInput) (*domain.Employee, error) {
			if in.HireDate.Format(time.DateOnly) != "2024-02-01" {
				t.Fatalf("unexpected hire date %v", in.HireDate)
			}
			if in.Personal.Salary == nil || *in.Personal.Salary != 4000 {
				t.Fatalf("expected salary to be carried")
			}
			return sampleEmployee(domain.ProjectionPrivate), nil
		},
	}
	h := NewEmployeeHandler(stub)

	body := `{"email":"sara@example.com","password":"long-enough","firstName":"Sara","lastName":"Haddad",
		"phoneNumber":"+96170000000","employeeId":"EMP-001","position":"engineer","department":"Civil",
		"hireDate":"2024-02-01","salary":4000}`
	c, rec := newContext(http.MethodPost, "/api/employees", body)
	withPrincipal(c, &domain.Principal{User: &domain.User{ID: "admin", Role: domain.RoleAdmin}, SessionID: "s1"})
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestEmployeeHandler_Create_InvalidPosition(t *testing.T) {
	stub := &stubEmployeeService{
		createFn: func(context.Context, *domain.Principal, ports.CreateEmployeeInput) (*domain.Employee, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewEmployeeHandler(stub)

	body := `{"email":"sara@example.com","password":"long-enough","firstName":"Sara","lastName":"Haddad",
		"phoneNumber":"1","employeeId":"EMP-001","position":"ceo","department":"Civil","hireDate":"2024-02-01"}`
	c, _ := newContext(http.MethodPost, "/api/employees", body)
	err := h.Create(c)

	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := de.Details["position"]; !ok {
		t.Fatalf("expected position detail, got %+v", de.Details)
	}
}

func TestEmployeeHandler_SetProjects_RejectsMalformedIDs(t *testing.T) {
	stub := &stubEmployeeService{
		setProjectsFn: func(context.Context, *domain.Principal, string, []string) (*domain.Employee, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewEmployeeHandler(stub)

	for _, body := range []string{`{"projectIds":["not-an-id"]}`, `{}`} {
		c, _ := newContext(http.MethodPut, "/api/employees/e1/projects", body)
		if err := h.SetProjects(c); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("body %s: expected validation error, got %v", body, err)
		}
	}
}

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{`"2024-02-01"`, "2024-02-01", false},
		{`"2024-02-01T10:00:00Z"`, "2024-02-01", false},
		{`null`, "0001-01-01", false},
		{`"01/02/2024"`, "", true},
	}
	for _, tt := range tests {
		var d date
		err := d.UnmarshalJSON([]byte(tt.in))
		if (err != nil) != tt.wantErr {
			t.Fatalf("%s: err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if !tt.wantErr && d.Format(time.DateOnly) != tt.want {
			t.Fatalf("%s: got %s, want %s", tt.in, d.Format(time.DateOnly), tt.want)
		}
	}
}

package handler

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/ports"
)

// date accepts either an RFC 3339 timestamp or a plain YYYY-MM-DD date.
type date struct {
	time.Time
}

func (d *date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return &time.ParseError{Layout: time.DateOnly, Value: s}
}

func (d *date) ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// --- Request types ---

type createEmployeeRequest struct {
	Name             string   `json:"name" validate:"omitempty,max=100"`
	Email            string   `json:"email" validate:"required,email"`
	Password         string   `json:"password" validate:"required,min=8,max=72"`
	FirstName        string   `json:"firstName" validate:"required,max=50"`
	LastName         string   `json:"lastName" validate:"required,max=50"`
	PhoneNumber      string   `json:"phoneNumber" validate:"required,max=20"`
	EmployeeID       string   `json:"employeeId" validate:"required"`
	Position         string   `json:"position" validate:"required,oneof=engineer technician supervisor manager"`
	Department       string   `json:"department" validate:"required"`
	HireDate         date     `json:"hireDate" validate:"required"`
	Skills           []string `json:"skills"`
	SSN              string   `json:"ssn"`
	DateOfBirth      *date    `json:"dateOfBirth"`
	Address          string   `json:"address"`
	EmergencyContact string   `json:"emergencyContact"`
	Salary           *float64 `json:"salary" validate:"omitempty,gte=0"`
}

func (r createEmployeeRequest) toInput() ports.CreateEmployeeInput {
	return ports.CreateEmployeeInput{
		Name:        r.Name,
		Email:       r.Email,
		Password:    r.Password,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		PhoneNumber: r.PhoneNumber,
		EmployeeID:  r.EmployeeID,
		Position:    domain.Position(r.Position),
		Department:  r.Department,
		HireDate:    r.HireDate.Time,
		Skills:      r.Skills,
		Personal: domain.PersonalData{
			SSN:              r.SSN,
			DateOfBirth:      r.DateOfBirth.ptr(),
			Address:          r.Address,
			EmergencyContact: r.EmergencyContact,
			Salary:           r.Salary,
		},
	}
}

// updateEmployeeRequest lists every field an admin update may change. The
// employee number, linked user and project list are not among them.
type updateEmployeeRequest struct {
	FirstName        *string   `json:"firstName" validate:"omitempty,min=1,max=50"`
	LastName         *string   `json:"lastName" validate:"omitempty,min=1,max=50"`
	PhoneNumber      *string   `json:"phoneNumber" validate:"omitempty,min=1,max=20"`
	Position         *string   `json:"position" validate:"omitempty,oneof=engineer technician supervisor manager"`
	Department       *string   `json:"department" validate:"omitempty,min=1"`
	Skills           *[]string `json:"skills"`
	IsActive         *bool     `json:"isActive"`
	SSN              *string   `json:"ssn"`
	DateOfBirth      *date     `json:"dateOfBirth"`
	Address          *string   `json:"address"`
	EmergencyContact *string   `json:"emergencyContact"`
	Salary           *float64  `json:"salary" validate:"omitempty,gte=0"`
}

func (r updateEmployeeRequest) toPatch() domain.EmployeePatch {
	patch := domain.EmployeePatch{
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		PhoneNumber:      r.PhoneNumber,
		Department:       r.Department,
		Skills:           r.Skills,
		IsActive:         r.IsActive,
		SSN:              r.SSN,
		DateOfBirth:      r.DateOfBirth.ptr(),
		Address:          r.Address,
		EmergencyContact: r.EmergencyContact,
		Salary:           r.Salary,
	}
	if r.Position != nil {
		pos := domain.Position(*r.Position)
		patch.Position = &pos
	}
	return patch
}

type setProjectsRequest struct {
	ProjectIDs []string `json:"projectIds" validate:"required,dive,mongodb"`
}

// --- Response types ---

// employeeCardResponse is the public directory card.
type employeeCardResponse struct {
	ID          string   `json:"id"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Position    string   `json:"position"`
	Department  string   `json:"department"`
	PhoneNumber string   `json:"phoneNumber"`
	Skills      []string `json:"skills"`
	Projects    []string `json:"projects"`
}

// employeePublicResponse carries every field except the restricted personal set.
type employeePublicResponse struct {
	employeeCardResponse
	UserID     string              `json:"userId"`
	User       *domain.UserSummary `json:"user,omitempty"`
	EmployeeID string              `json:"employeeId"`
	HireDate   time.Time           `json:"hireDate"`
	IsActive   bool                `json:"isActive"`
	JoinDate   time.Time           `json:"joinDate"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// employeePrivateResponse adds the restricted personal set.
type employeePrivateResponse struct {
	employeePublicResponse
	SSN              string     `json:"ssn"`
	DateOfBirth      *time.Time `json:"dateOfBirth"`
	Address          string     `json:"address"`
	EmergencyContact string     `json:"emergencyContact"`
	Salary           *float64   `json:"salary"`
}

// toEmployeeResponse picks the response shape from the projection the record
// was read with, so a record without personal data can never render it.
func toEmployeeResponse(e *domain.Employee) any {
	card := employeeCardResponse{
		ID:          e.ID,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Position:    string(e.Position),
		Department:  e.Department,
		PhoneNumber: e.PhoneNumber,
		Skills:      orEmpty(e.Skills),
		Projects:    orEmpty(e.Projects),
	}
	if e.Projection == domain.ProjectionDirectory {
		return card
	}

	public := employeePublicResponse{
		employeeCardResponse: card,
		UserID:               e.UserID,
		User:                 e.User,
		EmployeeID:           e.EmployeeID,
		HireDate:             e.HireDate,
		IsActive:             e.IsActive,
		JoinDate:             e.JoinDate,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
	if e.Projection != domain.ProjectionPrivate || e.Personal == nil {
		return public
	}

	return employeePrivateResponse{
		employeePublicResponse: public,
		SSN:                    e.Personal.SSN,
		DateOfBirth:            e.Personal.DateOfBirth,
		Address:                e.Personal.Address,
		EmergencyContact:       e.Personal.EmergencyContact,
		Salary:                 e.Personal.Salary,
	}
}

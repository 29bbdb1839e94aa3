package domain

import "time"

// Position is the closed set of employee positions.
type Position string

const (
	PositionEngineer   Position = "engineer"
	PositionTechnician Position = "technician"
	PositionSupervisor Position = "supervisor"
	PositionManager    Position = "manager"
)

func (p Position) Valid() bool {
	switch p {
	case PositionEngineer, PositionTechnician, PositionSupervisor, PositionManager:
		return true
	}
	return false
}

// Projection selects which employee fields a read loads from storage.
type Projection int

const (
	// ProjectionDirectory loads the public card: names, position, department,
	// phone number, skills and projects.
	ProjectionDirectory Projection = iota
	// ProjectionStandard loads every field except the restricted personal set.
	ProjectionStandard
	// ProjectionPrivate loads every field including the restricted personal set.
	ProjectionPrivate
)

func (p Projection) String() string {
	switch p {
	case ProjectionStandard:
		return "standard"
	case ProjectionPrivate:
		return "private"
	default:
		return "directory"
	}
}

// RestrictedEmployeeFields lists the response keys of the personal data set.
var RestrictedEmployeeFields = []string{"ssn", "dateOfBirth", "address", "emergencyContact", "salary"}

// PersonalData is the restricted part of an employee record.
type PersonalData struct {
	SSN              string
	DateOfBirth      *time.Time
	Address          string
	EmergencyContact string
	Salary           *float64
}

// UserSummary is the linked identity as shown next to an employee.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Employee is an employment profile linked one-to-one with a User.
type Employee struct {
	ID          string
	UserID      string
	User        *UserSummary
	FirstName   string
	LastName    string
	PhoneNumber string
	EmployeeID  string
	Position    Position
	Department  string
	HireDate    time.Time
	Projects    []string
	Skills      []string
	IsActive    bool
	JoinDate    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Personal is nil unless the record was read with ProjectionPrivate.
	Personal *PersonalData
	// Projection records what the read loaded.
	Projection Projection
}

// EmployeePatch is the statically declared set of fields an admin update may
// change. Nil fields are left untouched.
type EmployeePatch struct {
	FirstName        *string
	LastName         *string
	PhoneNumber      *string
	Position         *Position
	Department       *string
	Skills           *[]string
	IsActive         *bool
	SSN              *string
	DateOfBirth      *time.Time
	Address          *string
	EmergencyContact *string
	Salary           *float64
}

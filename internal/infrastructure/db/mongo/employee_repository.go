package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/ports"
	"github.com/buildco/cms-api/internal/pkg/query"
)

const collectionEmployees = "employees"

// Projections per domain.Projection. Private reads load the whole document.
var (
	directoryProjection = bson.M{
		"first_name":   1,
		"last_name":    1,
		"position":     1,
		"department":   1,
		"phone_number": 1,
		"skills":       1,
		"projects":     1,
	}
	standardProjection = bson.M{
		"ssn":               0,
		"date_of_birth":     0,
		"address":           0,
		"emergency_contact": 0,
		"salary":            0,
	}
)

func employeeProjection(proj domain.Projection) bson.M {
	switch proj {
	case domain.ProjectionPrivate:
		return nil
	case domain.ProjectionStandard:
		return standardProjection
	default:
		return directoryProjection
	}
}

// Restricted fields are deliberately absent: filtering on them would reveal
// their values to callers who cannot read them.
var employeeSchema = query.Schema{
	Fields: timestampFields(map[string]query.Field{
		"firstName":  {Path: "first_name", Kind: query.String},
		"lastName":   {Path: "last_name", Kind: query.String},
		"position":   {Path: "position", Kind: query.String},
		"department": {Path: "department", Kind: query.String},
		"skills":     {Path: "skills", Kind: query.String},
		"isActive":   {Path: "is_active", Kind: query.Bool},
		"hireDate":   {Path: "hire_date", Kind: query.Time},
		"employeeId": {Path: "employee_id", Kind: query.String},
	}),
	Search:      []string{"first_name", "last_name", "department", "position"},
	DefaultSort: []query.SortKey{{Field: "lastName"}, {Field: "firstName"}},
}

type mongoEmployee struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	UserID      primitive.ObjectID   `bson:"user_id,omitempty"`
	FirstName   string               `bson:"first_name"`
	LastName    string               `bson:"last_name"`
	PhoneNumber string               `bson:"phone_number"`
	EmployeeID  string               `bson:"employee_id,omitempty"`
	Position    string               `bson:"position"`
	Department  string               `bson:"department"`
	HireDate    time.Time            `bson:"hire_date,omitempty"`
	Projects    []primitive.ObjectID `bson:"projects"`
	Skills      []string             `bson:"skills"`
	IsActive    bool                 `bson:"is_active"`
	JoinDate    time.Time            `bson:"join_date,omitempty"`
	CreatedAt   time.Time            `bson:"created_at,omitempty"`
	UpdatedAt   time.Time            `bson:"updated_at,omitempty"`

	SSN              string     `bson:"ssn,omitempty"`
	DateOfBirth      *time.Time `bson:"date_of_birth,omitempty"`
	Address          string     `bson:"address,omitempty"`
	EmergencyContact string     `bson:"emergency_contact,omitempty"`
	Salary           *float64   `bson:"salary,omitempty"`
}

func (m *mongoEmployee) toDomain(proj domain.Projection) *domain.Employee {
	e := &domain.Employee{
		ID:          m.ID.Hex(),
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		PhoneNumber: m.PhoneNumber,
		EmployeeID:  m.EmployeeID,
		Position:    domain.Position(m.Position),
		Department:  m.Department,
		HireDate:    m.HireDate,
		Projects:    make([]string, 0, len(m.Projects)),
		Skills:      m.Skills,
		IsActive:    m.IsActive,
		JoinDate:    m.JoinDate,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Projection:  proj,
	}
	if !m.UserID.IsZero() {
		e.UserID = m.UserID.Hex()
	}
	for _, p := range m.Projects {
		e.Projects = append(e.Projects, p.Hex())
	}
	if e.Skills == nil {
		e.Skills = []string{}
	}
	if proj == domain.ProjectionPrivate {
		e.Personal = &domain.PersonalData{
			SSN:              m.SSN,
			DateOfBirth:      m.DateOfBirth,
			Address:          m.Address,
			EmergencyContact: m.EmergencyContact,
			Salary:           m.Salary,
		}
	}
	return e
}

type employeePatchDoc struct {
	FirstName        *string    `bson:"first_name,omitempty"`
	LastName         *string    `bson:"last_name,omitempty"`
	PhoneNumber      *string    `bson:"phone_number,omitempty"`
	Position         *string    `bson:"position,omitempty"`
	Department       *string    `bson:"department,omitempty"`
	Skills           *[]string  `bson:"skills,omitempty"`
	IsActive         *bool      `bson:"is_active,omitempty"`
	SSN              *string    `bson:"ssn,omitempty"`
	DateOfBirth      *time.Time `bson:"date_of_birth,omitempty"`
	Address          *string    `bson:"address,omitempty"`
	EmergencyContact *string    `bson:"emergency_contact,omitempty"`
	Salary           *float64   `bson:"salary,omitempty"`
}

// EmployeeRepository stores employee profiles. The projection passed to each
// read decides which fields leave the database.
type EmployeeRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{
		col: db.Collection(collectionEmployees),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	userID, err := objectID(e.UserID)
	if err != nil {
		return err
	}
	projects, err := objectIDs(e.Projects)
	if err != nil {
		return err
	}
	doc := mongoEmployee{
		UserID:      userID,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		PhoneNumber: e.PhoneNumber,
		EmployeeID:  e.EmployeeID,
		Position:    string(e.Position),
		Department:  e.Department,
		HireDate:    e.HireDate,
		Projects:    projects,
		Skills:      e.Skills,
		IsActive:    e.IsActive,
		JoinDate:    e.JoinDate,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if p := e.Personal; p != nil {
		doc.SSN = p.SSN
		doc.DateOfBirth = p.DateOfBirth
		doc.Address = p.Address
		doc.EmergencyContact = p.EmergencyContact
		doc.Salary = p.Salary
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return employeeConflict(fmt.Errorf("insert employee: %w", err))
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		e.ID = oid.Hex()
	}
	return nil
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id string, proj domain.Projection) (*domain.Employee, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid}, proj)
}

func (r *EmployeeRepository) FindByUserID(ctx context.Context, userID string, proj domain.Projection) (*domain.Employee, error) {
	oid, err := objectID(userID)
	if err != nil {
		return nil, domain.ErrEmployeeNotFound
	}
	return r.findOne(ctx, bson.M{"user_id": oid}, proj)
}

func (r *EmployeeRepository) ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"employee_id": employeeID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count employees: %w", err)
	}
	return n > 0, nil
}

func (r *EmployeeRepository) List(ctx context.Context, f ports.EmployeeFilter, p query.Params, proj domain.Projection) ([]*domain.Employee, int64, error) {
	base := bson.M{}
	if f.ActiveOnly {
		base["is_active"] = true
	}
	filter, err := listFilter(employeeSchema, p, base)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}
	opts := findOptions(employeeSchema, p)
	if projection := employeeProjection(proj); projection != nil {
		opts.SetProjection(projection)
	}
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}
	var docs []mongoEmployee
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode employees: %w", err)
	}

	out := make([]*domain.Employee, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain(proj))
	}
	return out, total, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, id string, patch domain.EmployeePatch, proj domain.Projection) (*domain.Employee, error) {
	doc := employeePatchDoc{
		FirstName:        patch.FirstName,
		LastName:         patch.LastName,
		PhoneNumber:      patch.PhoneNumber,
		Department:       patch.Department,
		Skills:           patch.Skills,
		IsActive:         patch.IsActive,
		SSN:              patch.SSN,
		DateOfBirth:      patch.DateOfBirth,
		Address:          patch.Address,
		EmergencyContact: patch.EmergencyContact,
		Salary:           patch.Salary,
	}
	if patch.Position != nil {
		pos := string(*patch.Position)
		doc.Position = &pos
	}
	set, err := patchSet(doc, r.now())
	if err != nil {
		return nil, err
	}
	return r.update(ctx, id, bson.M{"$set": set}, proj)
}

func (r *EmployeeRepository) SetProjects(ctx context.Context, id string, projectIDs []string, proj domain.Projection) (*domain.Employee, error) {
	projects, err := objectIDs(projectIDs)
	if err != nil {
		return nil, err
	}
	return r.update(ctx, id, bson.M{"$set": bson.M{"projects": projects, "updated_at": r.now()}}, proj)
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return r.deleteOne(ctx, bson.M{"_id": oid})
}

func (r *EmployeeRepository) DeleteByUserID(ctx context.Context, userID string) error {
	oid, err := objectID(userID)
	if err != nil {
		return err
	}
	return r.deleteOne(ctx, bson.M{"user_id": oid})
}

// EnsureIndexes creates the one-to-one user link and the unique employee
// number, plus the directory lookup index.
func (r *EmployeeRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		uniqueIndex("user_id"),
		uniqueIndex("employee_id"),
		mongo.IndexModel{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "last_name", Value: 1}}},
	)
}

func (r *EmployeeRepository) findOne(ctx context.Context, filter bson.M, proj domain.Projection) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne()
	if projection := employeeProjection(proj); projection != nil {
		opts.SetProjection(projection)
	}
	var doc mongoEmployee
	if err := r.col.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return nil, notFound(err, domain.ErrEmployeeNotFound)
	}
	return doc.toDomain(proj), nil
}

func (r *EmployeeRepository) update(ctx context.Context, id string, update bson.M, proj domain.Projection) (*domain.Employee, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoEmployee
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, afterUpdate(employeeProjection(proj))).Decode(&doc)
	if err != nil {
		return nil, notFound(err, domain.ErrEmployeeNotFound)
	}
	return doc.toDomain(proj), nil
}

func (r *EmployeeRepository) deleteOne(ctx context.Context, filter bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

// employeeConflict tells the two unique indexes apart by name.
func employeeConflict(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}
	if strings.Contains(err.Error(), "employee_id") {
		return domain.ErrEmployeeIDTaken
	}
	return domain.ErrEmployeeLinked
}

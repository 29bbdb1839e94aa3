package mongo

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/policy"
	"github.com/buildco/cms-api/internal/pkg/query"
)

func TestListFilter_ConditionsAndSearch(t *testing.T) {
	p := query.Parse(url.Values{
		"position_in":  {"engineer,manager"},
		"hireDate_gte": {"2020-01-01"},
		"hireDate_lt":  {"2021-01-01"},
		"isActive":     {"true"},
		"salary_gte":   {"1000"},
		"search":       {"a.b"},
	})

	filter, err := listFilter(employeeSchema, p, bson.M{"is_active": true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in, ok := filter["position"].(bson.M)
	if !ok || len(in["$in"].(bson.A)) != 2 {
		t.Fatalf("expected $in with two values, got %v", filter["position"])
	}
	hire, ok := filter["hire_date"].(bson.M)
	if !ok {
		t.Fatalf("expected range on hire_date, got %v", filter["hire_date"])
	}
	gte, _ := hire["$gte"].(time.Time)
	if !gte.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)) || hire["$lt"] == nil {
		t.Fatalf("range not merged: %v", hire)
	}
	if _, leaked := filter["salary"]; leaked {
		t.Fatalf("restricted field must not be filterable")
	}
	or, ok := filter["$or"].(bson.A)
	if !ok || len(or) != len(employeeSchema.Search) {
		t.Fatalf("expected search across every search path, got %v", filter["$or"])
	}
	re := or[0].(bson.M)["first_name"].(primitive.Regex)
	if re.Pattern != `a\.b` || re.Options != "i" {
		t.Fatalf("search must be quoted and case-insensitive, got %+v", re)
	}
	if filter["is_active"] != true {
		t.Fatalf("base filter lost")
	}
}

func TestListFilter_BaseWinsOverRequest(t *testing.T) {
	p := query.Parse(url.Values{"isVisible": {"false"}})

	filter, err := listFilter(contentSchema(map[string]query.Field{}, "name.en"), p, scopeFilter(policy.VisibleOnly))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter["is_visible"] != true {
		t.Fatalf("public scope must not be overridable, got %v", filter["is_visible"])
	}
}

func TestListFilter_CoercionFailure(t *testing.T) {
	tests := []url.Values{
		{"isActive": {"maybe"}},
		{"hireDate_gte": {"yesterday"}},
		{"skills_exists": {"x"}},
	}
	for _, v := range tests {
		if _, err := listFilter(employeeSchema, query.Parse(v), nil); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%v: expected validation error, got %v", v, err)
		}
	}
}

func TestListSort(t *testing.T) {
	p := query.Parse(url.Values{"sort": {"-hireDate,ssn"}})
	got := listSort(employeeSchema, p)
	want := bson.D{{Key: "hire_date", Value: -1}, {Key: "_id", Value: 1}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	def := listSort(userSchema, query.Parse(url.Values{}))
	if def[0].Key != "created_at" || def[0].Value != -1 {
		t.Fatalf("expected newest first by default, got %v", def)
	}
}

func TestPatchSet_OnlyProvidedFields(t *testing.T) {
	hidden := false
	title := domain.Bilingual{Ar: "عنوان", En: "Title"}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	set, err := patchSet(domain.ProjectPatch{Title: &title, IsVisible: &hidden}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set) != 3 {
		t.Fatalf("expected title, is_visible and updated_at, got %v", set)
	}
	if set["is_visible"] != false {
		t.Fatalf("explicit false must be kept, got %v", set["is_visible"])
	}
	if _, ok := set["category"]; ok {
		t.Fatalf("nil fields must be omitted")
	}
}

func TestEmployeeProjection(t *testing.T) {
	if employeeProjection(domain.ProjectionPrivate) != nil {
		t.Fatalf("private reads load the whole document")
	}
	for _, f := range []string{"ssn", "date_of_birth", "address", "emergency_contact", "salary"} {
		if v, ok := standardProjection[f]; !ok || v != 0 {
			t.Fatalf("standard projection must exclude %s", f)
		}
		if _, ok := directoryProjection[f]; ok {
			t.Fatalf("directory projection must not include %s", f)
		}
	}
}

func TestMongoEmployee_ToDomainHonoursProjection(t *testing.T) {
	salary := 10.0
	doc := mongoEmployee{
		ID:       primitive.NewObjectID(),
		UserID:   primitive.NewObjectID(),
		SSN:      "123",
		Salary:   &salary,
		Projects: []primitive.ObjectID{primitive.NewObjectID()},
	}

	if e := doc.toDomain(domain.ProjectionStandard); e.Personal != nil {
		t.Fatalf("standard read must not expose personal data")
	}
	e := doc.toDomain(domain.ProjectionPrivate)
	if e.Personal == nil || e.Personal.SSN != "123" {
		t.Fatalf("private read should carry personal data")
	}
	if len(e.Projects) != 1 || e.Projects[0] != doc.Projects[0].Hex() {
		t.Fatalf("projects not converted: %v", e.Projects)
	}
}

func TestObjectID_Invalid(t *testing.T) {
	if _, err := objectID("nope"); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := objectIDs([]string{primitive.NewObjectID().Hex(), "bad"}); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

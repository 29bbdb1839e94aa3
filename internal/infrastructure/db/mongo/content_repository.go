package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/policy"
	"github.com/buildco/cms-api/internal/pkg/query"
)

const (
	collectionProjects    = "projects"
	collectionServices    = "services"
	collectionPartners    = "partners"
	collectionDepartments = "departments"
	collectionCategories  = "categories"
)

// contentSchema adds the fields shared by every content family.
func contentSchema(fields map[string]query.Field, search ...string) query.Schema {
	fields["order"] = query.Field{Path: "order", Kind: query.Int}
	fields["isVisible"] = query.Field{Path: "is_visible", Kind: query.Bool}
	return query.Schema{
		Fields:      timestampFields(fields),
		Search:      search,
		DefaultSort: []query.SortKey{{Field: "order"}, {Field: "createdAt", Desc: true}},
	}
}

// ContentRepository stores one family of public content documents. T embeds
// domain.ContentMeta inline and P is a patch struct with omitempty pointers.
type ContentRepository[T any, P any] struct {
	col      *mongo.Collection
	schema   query.Schema
	missing  error
	conflict error
	slugged  bool
	now      func() time.Time
}

func newContentRepository[T any, P any](db *mongo.Database, name string, schema query.Schema, missing error) *ContentRepository[T, P] {
	return &ContentRepository[T, P]{
		col:      db.Collection(name),
		schema:   schema,
		missing:  missing,
		conflict: domain.ErrDuplicateKey,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (r *ContentRepository[T, P]) withSlug() *ContentRepository[T, P] {
	r.slugged = true
	r.conflict = domain.ErrSlugTaken
	r.schema.Fields["slug"] = query.Field{Path: "slug", Kind: query.String}
	return r
}

func NewProjectRepository(db *mongo.Database) *ContentRepository[domain.Project, domain.ProjectPatch] {
	schema := contentSchema(map[string]query.Field{
		"category":  {Path: "category", Kind: query.String},
		"isWorking": {Path: "is_working", Kind: query.Bool},
		"area":      {Path: "area", Kind: query.String},
	}, "title.ar", "title.en", "location.ar", "location.en", "category")
	return newContentRepository[domain.Project, domain.ProjectPatch](db, collectionProjects, schema, domain.ErrProjectNotFound)
}

func NewServiceRepository(db *mongo.Database) *ContentRepository[domain.Service, domain.ServicePatch] {
	schema := contentSchema(map[string]query.Field{}, "title.ar", "title.en", "slug")
	return newContentRepository[domain.Service, domain.ServicePatch](db, collectionServices, schema, domain.ErrServiceNotFound).withSlug()
}

func NewPartnerRepository(db *mongo.Database) *ContentRepository[domain.Partner, domain.PartnerPatch] {
	schema := contentSchema(map[string]query.Field{}, "name.ar", "name.en")
	return newContentRepository[domain.Partner, domain.PartnerPatch](db, collectionPartners, schema, domain.ErrPartnerNotFound)
}

func NewDepartmentRepository(db *mongo.Database) *ContentRepository[domain.Department, domain.DepartmentPatch] {
	schema := contentSchema(map[string]query.Field{}, "title.ar", "title.en")
	return newContentRepository[domain.Department, domain.DepartmentPatch](db, collectionDepartments, schema, domain.ErrDepartmentNotFound)
}

func NewCategoryRepository(db *mongo.Database) *ContentRepository[domain.Category, domain.CategoryPatch] {
	schema := contentSchema(map[string]query.Field{
		"color": {Path: "color", Kind: query.String},
	}, "title.ar", "title.en", "slug")
	return newContentRepository[domain.Category, domain.CategoryPatch](db, collectionCategories, schema, domain.ErrCategoryNotFound).withSlug()
}

func scopeFilter(scope policy.Scope) bson.M {
	if scope == policy.AllContent {
		return bson.M{}
	}
	return bson.M{"is_visible": true}
}

func (r *ContentRepository[T, P]) List(ctx context.Context, scope policy.Scope, p query.Params) ([]*T, int64, error) {
	filter, err := listFilter(r.schema, p, scopeFilter(scope))
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.col.Name(), err)
	}
	cur, err := r.col.Find(ctx, filter, findOptions(r.schema, p))
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", r.col.Name(), err)
	}
	docs := make([]*T, 0, p.Size)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", r.col.Name(), err)
	}
	return docs, total, nil
}

func (r *ContentRepository[T, P]) FindByID(ctx context.Context, id string, scope policy.Scope) (*T, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	filter := scopeFilter(scope)
	filter["_id"] = oid
	return r.findOne(ctx, filter)
}

// FindBySlug only applies to families addressed by slug.
func (r *ContentRepository[T, P]) FindBySlug(ctx context.Context, slug string, scope policy.Scope) (*T, error) {
	if !r.slugged {
		return nil, r.missing
	}
	filter := scopeFilter(scope)
	filter["slug"] = slug
	return r.findOne(ctx, filter)
}

func (r *ContentRepository[T, P]) Create(ctx context.Context, doc *T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return duplicate(fmt.Errorf("insert %s: %w", r.col.Name(), err), r.conflict)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		if d, ok := any(doc).(interface{ SetID(string) }); ok {
			d.SetID(oid.Hex())
		}
	}
	return nil
}

func (r *ContentRepository[T, P]) Update(ctx context.Context, id string, patch P) (*T, error) {
	set, err := patchSet(patch, r.now())
	if err != nil {
		return nil, err
	}
	return r.update(ctx, id, set)
}

func (r *ContentRepository[T, P]) SetVisibility(ctx context.Context, id string, visible bool) (*T, error) {
	return r.update(ctx, id, bson.M{"is_visible": visible, "updated_at": r.now()})
}

func (r *ContentRepository[T, P]) SetOrder(ctx context.Context, id string, order int) (*T, error) {
	return r.update(ctx, id, bson.M{"order": order, "updated_at": r.now()})
}

func (r *ContentRepository[T, P]) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.col.Name(), err)
	}
	if res.DeletedCount == 0 {
		return r.missing
	}
	return nil
}

// EnsureIndexes creates the ordering index and, for slugged families, the
// unique slug index.
func (r *ContentRepository[T, P]) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "is_visible", Value: 1}, {Key: "order", Value: 1}}},
	}
	if r.slugged {
		models = append(models, uniqueIndex("slug"))
	}
	return createIndexes(ctx, r.col, models...)
}

func (r *ContentRepository[T, P]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := new(T)
	if err := r.col.FindOne(ctx, filter).Decode(doc); err != nil {
		return nil, notFound(err, r.missing)
	}
	return doc, nil
}

func (r *ContentRepository[T, P]) update(ctx context.Context, id string, set bson.M) (*T, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := new(T)
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, afterUpdate(nil)).Decode(doc)
	if err != nil {
		return nil, duplicate(notFound(err, r.missing), r.conflict)
	}
	return doc, nil
}

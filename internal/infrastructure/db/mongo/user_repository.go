package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/pkg/query"
)

const collectionUsers = "users"

// withoutPassword is the default projection of every users read.
var withoutPassword = bson.M{"password_hash": 0}

var userSchema = query.Schema{
	Fields: timestampFields(map[string]query.Field{
		"name":              {Path: "name", Kind: query.String},
		"email":             {Path: "email", Kind: query.String},
		"role":              {Path: "role", Kind: query.String},
		"yearsOfExperience": {Path: "years_of_experience", Kind: query.Int},
		"photo":             {Path: "photo", Kind: query.String},
	}),
	Search:      []string{"name", "email"},
	DefaultSort: newestFirst,
}

type mongoUser struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	Email             string             `bson:"email"`
	PasswordHash      string             `bson:"password_hash,omitempty"`
	Role              string             `bson:"role"`
	Phone             string             `bson:"phone,omitempty"`
	Photo             string             `bson:"photo,omitempty"`
	YearsOfExperience int                `bson:"years_of_experience,omitempty"`
	Description       domain.Bilingual   `bson:"description"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

func (m *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:                m.ID.Hex(),
		Name:              m.Name,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Role:              domain.Role(m.Role),
		Phone:             m.Phone,
		Photo:             m.Photo,
		YearsOfExperience: m.YearsOfExperience,
		Description:       m.Description,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

type userPatchDoc struct {
	Name              *string           `bson:"name,omitempty"`
	Email             *string           `bson:"email,omitempty"`
	Role              *string           `bson:"role,omitempty"`
	Phone             *string           `bson:"phone,omitempty"`
	Photo             *string           `bson:"photo,omitempty"`
	YearsOfExperience *int              `bson:"years_of_experience,omitempty"`
	Description       *domain.Bilingual `bson:"description,omitempty"`
}

// UserRepository stores identities in the users collection.
type UserRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		col: db.Collection(collectionUsers),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		Name:              user.Name,
		Email:             user.Email,
		PasswordHash:      user.PasswordHash,
		Role:              string(user.Role),
		Phone:             user.Phone,
		Photo:             user.Photo,
		YearsOfExperience: user.YearsOfExperience,
		Description:       user.Description,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, duplicate(fmt.Errorf("insert user: %w", err), domain.ErrEmailTaken)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid}, withoutPassword)
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	oids, err := objectIDs(ids)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, options.Find().SetProjection(withoutPassword))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	out := make(map[string]*domain.User, len(docs))
	for i := range docs {
		u := docs[i].toDomain()
		out[u.ID] = u
	}
	return out, nil
}

// FindCredentialsByEmail is one of the two reads that load the password hash.
func (r *UserRepository) FindCredentialsByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, nil)
}

func (r *UserRepository) FindCredentialsByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid}, nil)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) List(ctx context.Context, p query.Params) ([]*domain.User, int64, error) {
	filter, err := listFilter(userSchema, p, nil)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	cur, err := r.col.Find(ctx, filter, findOptions(userSchema, p).SetProjection(withoutPassword))
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	doc := userPatchDoc{
		Name:              patch.Name,
		Email:             patch.Email,
		Phone:             patch.Phone,
		Photo:             patch.Photo,
		YearsOfExperience: patch.YearsOfExperience,
		Description:       patch.Description,
	}
	if patch.Role != nil {
		role := string(*patch.Role)
		doc.Role = &role
	}
	set, err := patchSet(doc, r.now())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var out mongoUser
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, afterUpdate(withoutPassword)).Decode(&out)
	if err != nil {
		return nil, duplicate(notFound(err, domain.ErrUserNotFound), domain.ErrEmailTaken)
	}
	return out.toDomain(), nil
}

// UpdatePassword is the only write path for the password hash after creation.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"password_hash": passwordHash,
		"updated_at":    r.now(),
	}})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		uniqueIndex("email"),
		mongo.IndexModel{Keys: bson.D{{Key: "role", Value: 1}}},
	)
}

func (r *UserRepository) findOne(ctx context.Context, filter, projection bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}
	var doc mongoUser
	if err := r.col.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return doc.toDomain(), nil
}

package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/pkg/query"
)

const collectionMedia = "media"

var mediaSchema = query.Schema{
	Fields: timestampFields(map[string]query.Field{
		"mimeType": {Path: "mime_type", Kind: query.String},
		"size":     {Path: "size", Kind: query.Int},
	}),
	Search:      []string{"original_name", "alt"},
	DefaultSort: newestFirst,
}

// MediaRepository stores upload metadata; the bytes live in the object store.
type MediaRepository struct {
	col *mongo.Collection
}

func NewMediaRepository(db *mongo.Database) *MediaRepository {
	return &MediaRepository{col: db.Collection(collectionMedia)}
}

func (r *MediaRepository) Create(ctx context.Context, m *domain.Media) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, m)
	if err != nil {
		return fmt.Errorf("insert media: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		m.ID = oid.Hex()
	}
	return nil
}

func (r *MediaRepository) FindByID(ctx context.Context, id string) (*domain.Media, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m domain.Media
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		return nil, notFound(err, domain.ErrMediaNotFound)
	}
	return &m, nil
}

func (r *MediaRepository) List(ctx context.Context, p query.Params) ([]*domain.Media, int64, error) {
	filter, err := listFilter(mediaSchema, p, nil)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count media: %w", err)
	}
	cur, err := r.col.Find(ctx, filter, findOptions(mediaSchema, p))
	if err != nil {
		return nil, 0, fmt.Errorf("list media: %w", err)
	}
	items := make([]*domain.Media, 0, p.Size)
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode media: %w", err)
	}
	return items, total, nil
}

func (r *MediaRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMediaNotFound
	}
	return nil
}

func (r *MediaRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: -1}}},
	)
}

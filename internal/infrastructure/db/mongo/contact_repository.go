package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/pkg/query"
)

const collectionContacts = "contacts"

var contactSchema = query.Schema{
	Fields: timestampFields(map[string]query.Field{
		"status": {Path: "status", Kind: query.String},
		"email":  {Path: "email", Kind: query.String},
	}),
	Search:      []string{"name", "email", "subject", "message"},
	DefaultSort: newestFirst,
}

// ContactRepository stores contact form submissions.
type ContactRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{
		col: db.Collection(collectionContacts),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *ContactRepository) Create(ctx context.Context, m *domain.ContactMessage) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, m)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		m.ID = oid.Hex()
	}
	return nil
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*domain.ContactMessage, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m domain.ContactMessage
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		return nil, notFound(err, domain.ErrContactNotFound)
	}
	return &m, nil
}

func (r *ContactRepository) List(ctx context.Context, p query.Params) ([]*domain.ContactMessage, int64, error) {
	filter, err := listFilter(contactSchema, p, nil)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}
	cur, err := r.col.Find(ctx, filter, findOptions(contactSchema, p))
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	msgs := make([]*domain.ContactMessage, 0, p.Size)
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, 0, fmt.Errorf("decode contacts: %w", err)
	}
	return msgs, total, nil
}

func (r *ContactRepository) SetStatus(ctx context.Context, id string, status domain.ContactStatus) (*domain.ContactMessage, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updated_at": r.now()}}
	var m domain.ContactMessage
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, afterUpdate(nil)).Decode(&m); err != nil {
		return nil, notFound(err, domain.ErrContactNotFound)
	}
	return &m, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

// Stats counts messages per status in one aggregation.
func (r *ContactRepository) Stats(ctx context.Context) (*domain.ContactStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate contacts: %w", err)
	}
	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode contact stats: %w", err)
	}

	stats := &domain.ContactStats{ByStatus: map[string]int64{
		string(domain.ContactNew):     0,
		string(domain.ContactRead):    0,
		string(domain.ContactReplied): 0,
	}}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
	}
	stats.NewMessages = stats.ByStatus[string(domain.ContactNew)]
	return stats, nil
}

func (r *ContactRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	)
}

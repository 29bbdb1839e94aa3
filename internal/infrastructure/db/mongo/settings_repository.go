package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/buildco/cms-api/internal/core/domain"
)

const (
	collectionCompanySettings = "company_settings"
	collectionSiteSettings    = "site_settings"

	// singletonKey is the fixed _id of the site settings document.
	singletonKey = "site"
)

// CompanySettingsRepository stores the single company profile document.
type CompanySettingsRepository struct {
	col *mongo.Collection
}

func NewCompanySettingsRepository(db *mongo.Database) *CompanySettingsRepository {
	return &CompanySettingsRepository{col: db.Collection(collectionCompanySettings)}
}

func (r *CompanySettingsRepository) Get(ctx context.Context) (*domain.CompanySettings, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.CompanySettings
	if err := r.col.FindOne(ctx, bson.M{}).Decode(&s); err != nil {
		return nil, notFound(err, domain.ErrCompanySettingsNotFound)
	}
	return &s, nil
}

// Insert only succeeds while the collection is empty. The upsert matches any
// document and only inserts when none exists, so two concurrent creates can
// not both succeed.
func (r *CompanySettingsRepository) Insert(ctx context.Context, s *domain.CompanySettings) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{}, bson.M{"$setOnInsert": s}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("insert company settings: %w", err)
	}
	if res.UpsertedCount == 0 {
		return domain.ErrCompanySettingsSet
	}
	if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
		s.ID = id.Hex()
	}
	return nil
}

func (r *CompanySettingsRepository) Upsert(ctx context.Context, s *domain.CompanySettings) (*domain.CompanySettings, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set, err := toSetDoc(s)
	if err != nil {
		return nil, err
	}
	delete(set, "created_at")

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"created_at": s.UpdatedAt},
	}
	var out domain.CompanySettings
	if err := r.col.FindOneAndUpdate(ctx, bson.M{}, update, opts).Decode(&out); err != nil {
		return nil, fmt.Errorf("upsert company settings: %w", err)
	}
	return &out, nil
}

// SiteSettingsRepository stores the site settings under a fixed key.
type SiteSettingsRepository struct {
	col *mongo.Collection
}

func NewSiteSettingsRepository(db *mongo.Database) *SiteSettingsRepository {
	return &SiteSettingsRepository{col: db.Collection(collectionSiteSettings)}
}

// GetOrCreate inserts defaults on first use. The upsert keeps concurrent first
// reads from creating two documents.
func (r *SiteSettingsRepository) GetOrCreate(ctx context.Context, defaults *domain.SiteSettings) (*domain.SiteSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	insert, err := toSetDoc(defaults)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var out domain.SiteSettings
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": singletonKey}, bson.M{"$setOnInsert": insert}, opts).Decode(&out)
	if err != nil {
		return nil, fmt.Errorf("load site settings: %w", err)
	}
	return &out, nil
}

func (r *SiteSettingsRepository) Replace(ctx context.Context, s *domain.SiteSettings) (*domain.SiteSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *s
	doc.ID = singletonKey
	opts := options.FindOneAndReplace().SetUpsert(true).SetReturnDocument(options.After)
	var out domain.SiteSettings
	if err := r.col.FindOneAndReplace(ctx, bson.M{"_id": singletonKey}, doc, opts).Decode(&out); err != nil {
		return nil, fmt.Errorf("replace site settings: %w", err)
	}
	return &out, nil
}

// toSetDoc flattens v into a document without its _id.
func toSetDoc(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	delete(doc, "_id")
	return doc, nil
}

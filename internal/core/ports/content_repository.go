package ports

import (
	"context"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/policy"
	"github.com/buildco/cms-api/internal/pkg/query"
)

// ContentRepository persists one family of public content documents of type
// T, updated through patches of type P.
type ContentRepository[T any, P any] interface {
	List(ctx context.Context, scope policy.Scope, p query.Params) ([]*T, int64, error)
	FindByID(ctx context.Context, id string, scope policy.Scope) (*T, error)
	FindBySlug(ctx context.Context, slug string, scope policy.Scope) (*T, error)
	Create(ctx context.Context, doc *T) error
	Update(ctx context.Context, id string, patch P) (*T, error)
	SetVisibility(ctx context.Context, id string, visible bool) (*T, error)
	SetOrder(ctx context.Context, id string, order int) (*T, error)
	Delete(ctx context.Context, id string) error
}

// CompanySettingsRepository persists the company profile singleton.
type CompanySettingsRepository interface {
	Get(ctx context.Context) (*domain.CompanySettings, error)
	// Insert fails with domain.ErrCompanySettingsSet when one already exists.
	Insert(ctx context.Context, s *domain.CompanySettings) error
	Upsert(ctx context.Context, s *domain.CompanySettings) (*domain.CompanySettings, error)
}

// SiteSettingsRepository persists the site settings singleton.
type SiteSettingsRepository interface {
	// GetOrCreate returns the singleton, inserting defaults on first use.
	GetOrCreate(ctx context.Context, defaults *domain.SiteSettings) (*domain.SiteSettings, error)
	Replace(ctx context.Context, s *domain.SiteSettings) (*domain.SiteSettings, error)
}

// MediaRepository persists upload metadata.
type MediaRepository interface {
	Create(ctx context.Context, m *domain.Media) error
	FindByID(ctx context.Context, id string) (*domain.Media, error)
	List(ctx context.Context, p query.Params) ([]*domain.Media, int64, error)
	Delete(ctx context.Context, id string) error
}

// ContactRepository persists contact form submissions.
type ContactRepository interface {
	Create(ctx context.Context, m *domain.ContactMessage) error
	FindByID(ctx context.Context, id string) (*domain.ContactMessage, error)
	List(ctx context.Context, p query.Params) ([]*domain.ContactMessage, int64, error)
	SetStatus(ctx context.Context, id string, status domain.ContactStatus) (*domain.ContactMessage, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*domain.ContactStats, error)
}

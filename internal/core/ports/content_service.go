package ports

import (
	"context"
	"io"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/policy"
	"github.com/buildco/cms-api/internal/pkg/query"
)

// ContentService manages one family of public content documents.
type ContentService[T any, P any] interface {
	List(ctx context.Context, scope policy.Scope, p query.Params) (query.Page[*T], error)
	Get(ctx context.Context, id string, scope policy.Scope) (*T, error)
	GetBySlug(ctx context.Context, slug string, scope policy.Scope) (*T, error)
	Create(ctx context.Context, doc *T) (*T, error)
	Update(ctx context.Context, id string, patch P) (*T, error)
	SetVisibility(ctx context.Context, id string, visible bool) (*T, error)
	SetOrder(ctx context.Context, id string, order int) (*T, error)
	Delete(ctx context.Context, id string) error
}

type SettingsService interface {
	Site(ctx context.Context) (*domain.SiteSettings, error)
	UpdateSite(ctx context.Context, s *domain.SiteSettings) (*domain.SiteSettings, error)
	Company(ctx context.Context) (*domain.CompanySettings, error)
	CreateCompany(ctx context.Context, s *domain.CompanySettings) (*domain.CompanySettings, error)
	UpsertCompany(ctx context.Context, s *domain.CompanySettings) (*domain.CompanySettings, error)
}

// UploadInput is one file of a multipart upload.
type UploadInput struct {
	OriginalName string
	Size         int64
	Alt          string
	Body         io.Reader
}

type MediaService interface {
	List(ctx context.Context, p query.Params) (query.Page[*domain.Media], error)
	Upload(ctx context.Context, in UploadInput) (*domain.Media, error)
	Delete(ctx context.Context, id string) error
}

// ContactInput is a public contact form submission.
type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

type ContactService interface {
	Submit(ctx context.Context, in ContactInput) (*domain.ContactMessage, error)
	List(ctx context.Context, p query.Params) (query.Page[*domain.ContactMessage], error)
	// Open returns a message and marks it read if it was new.
	Open(ctx context.Context, id string) (*domain.ContactMessage, error)
	SetStatus(ctx context.Context, id string, status domain.ContactStatus) (*domain.ContactMessage, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*domain.ContactStats, error)
}

package service

import (
	"context"
	"time"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/ports"
)

// SettingsService manages the site and company settings singletons.
type SettingsService struct {
	site    ports.SiteSettingsRepository
	company ports.CompanySettingsRepository
	now     func() time.Time
}

func NewSettingsService(site ports.SiteSettingsRepository, company ports.CompanySettingsRepository) *SettingsService {
	return &SettingsService{
		site:    site,
		company: company,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Site returns the site settings, creating the defaults on first use.
func (s *SettingsService) Site(ctx context.Context) (*domain.SiteSettings, error) {
	return s.site.GetOrCreate(ctx, domain.DefaultSiteSettings(s.now()))
}

func (s *SettingsService) UpdateSite(ctx context.Context, in *domain.SiteSettings) (*domain.SiteSettings, error) {
	in.ID = ""
	in.UpdatedAt = s.now()
	in.FillEmpty()
	return s.site.Replace(ctx, in)
}

func (s *SettingsService) Company(ctx context.Context) (*domain.CompanySettings, error) {
	return s.company.Get(ctx)
}

// CreateCompany inserts the company profile; a second one is a conflict.
func (s *SettingsService) CreateCompany(ctx context.Context, in *domain.CompanySettings) (*domain.CompanySettings, error) {
	now := s.now()
	in.ID = ""
	in.Email = normalizeEmail(in.Email)
	in.CreatedAt, in.UpdatedAt = now, now
	if err := s.company.Insert(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

func (s *SettingsService) UpsertCompany(ctx context.Context, in *domain.CompanySettings) (*domain.CompanySettings, error) {
	in.ID = ""
	in.Email = normalizeEmail(in.Email)
	in.UpdatedAt = s.now()
	return s.company.Upsert(ctx, in)
}

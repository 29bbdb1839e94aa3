package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/policy"
	"github.com/buildco/cms-api/internal/core/ports"
	"github.com/buildco/cms-api/internal/pkg/query"
)

// stamper is implemented by documents embedding domain.ContentMeta.
type stamper interface {
	Stamp(now time.Time)
}

// ContentService implements CRUD for one family of public content documents.
type ContentService[T any, P any] struct {
	kind string
	repo ports.ContentRepository[T, P]
	log  zerolog.Logger
	now  func() time.Time
}

func NewContentService[T any, P any](kind string, repo ports.ContentRepository[T, P], log zerolog.Logger) *ContentService[T, P] {
	return &ContentService[T, P]{
		kind: kind,
		repo: repo,
		log:  log.With().Str("resource", kind).Logger(),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *ContentService[T, P]) List(ctx context.Context, scope policy.Scope, p query.Params) (query.Page[*T], error) {
	docs, total, err := s.repo.List(ctx, scope, p)
	if err != nil {
		return query.Page[*T]{}, fmt.Errorf("list %s: %w", s.kind, err)
	}
	return query.NewPage(docs, total, p), nil
}

func (s *ContentService[T, P]) Get(ctx context.Context, id string, scope policy.Scope) (*T, error) {
	return s.repo.FindByID(ctx, id, scope)
}

func (s *ContentService[T, P]) GetBySlug(ctx context.Context, slug string, scope policy.Scope) (*T, error) {
	return s.repo.FindBySlug(ctx, slug, scope)
}

func (s *ContentService[T, P]) Create(ctx context.Context, doc *T) (*T, error) {
	if st, ok := any(doc).(stamper); ok {
		st.Stamp(s.now())
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}
	s.log.Info().Msg("content created")
	return doc, nil
}

func (s *ContentService[T, P]) Update(ctx context.Context, id string, patch P) (*T, error) {
	return s.repo.Update(ctx, id, patch)
}

func (s *ContentService[T, P]) SetVisibility(ctx context.Context, id string, visible bool) (*T, error) {
	return s.repo.SetVisibility(ctx, id, visible)
}

func (s *ContentService[T, P]) SetOrder(ctx context.Context, id string, order int) (*T, error) {
	if order < 0 {
		return nil, domain.Validationf("order cannot be negative")
	}
	return s.repo.SetOrder(ctx, id, order)
}

func (s *ContentService[T, P]) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("id", id).Msg("content deleted")
	return nil
}

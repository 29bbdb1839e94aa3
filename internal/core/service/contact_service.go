package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/ports"
	"github.com/buildco/cms-api/internal/pkg/query"
)

// ContactService handles the public contact form inbox.
type ContactService struct {
	repo ports.ContactRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewContactService(repo ports.ContactRepository, log zerolog.Logger) *ContactService {
	return &ContactService{
		repo: repo,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *ContactService) Submit(ctx context.Context, in ports.ContactInput) (*domain.ContactMessage, error) {
	now := s.now()
	msg := &domain.ContactMessage{
		Name:      strings.TrimSpace(in.Name),
		Email:     normalizeEmail(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Subject:   strings.TrimSpace(in.Subject),
		Message:   strings.TrimSpace(in.Message),
		Status:    domain.ContactNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if msg.Name == "" || msg.Email == "" || msg.Phone == "" || msg.Subject == "" || msg.Message == "" {
		return nil, domain.Validationf("name, email, phone, subject and message are required")
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("submit contact message: %w", err)
	}
	s.log.Info().Str("contact_id", msg.ID).Msg("contact message received")
	return msg, nil
}

func (s *ContactService) List(ctx context.Context, p query.Params) (query.Page[*domain.ContactMessage], error) {
	msgs, total, err := s.repo.List(ctx, p)
	if err != nil {
		return query.Page[*domain.ContactMessage]{}, fmt.Errorf("list contact messages: %w", err)
	}
	return query.NewPage(msgs, total, p), nil
}

func (s *ContactService) Open(ctx context.Context, id string) (*domain.ContactMessage, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.Status != domain.ContactNew {
		return msg, nil
	}
	return s.repo.SetStatus(ctx, id, domain.ContactRead)
}

func (s *ContactService) SetStatus(ctx context.Context, id string, status domain.ContactStatus) (*domain.ContactMessage, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	return s.repo.SetStatus(ctx, id, status)
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *ContactService) Stats(ctx context.Context) (*domain.ContactStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("contact stats: %w", err)
	}
	return stats, nil
}

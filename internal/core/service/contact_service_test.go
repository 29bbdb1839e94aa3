package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/ports"
	"github.com/buildco/cms-api/internal/pkg/query"
)

type stubContactRepo struct {
	byID map[string]*domain.ContactMessage
}

func (r *stubContactRepo) Create(_ context.Context, m *domain.ContactMessage) error {
	m.ID = "c1"
	clone := *m
	r.byID[m.ID] = &clone
	return nil
}

func (r *stubContactRepo) FindByID(_ context.Context, id string) (*domain.ContactMessage, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrContactNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *stubContactRepo) List(context.Context, query.Params) ([]*domain.ContactMessage, int64, error) {
	return nil, 0, nil
}

func (r *stubContactRepo) SetStatus(_ context.Context, id string, status domain.ContactStatus) (*domain.ContactMessage, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrContactNotFound
	}
	m.Status = status
	clone := *m
	return &clone, nil
}

func (r *stubContactRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *stubContactRepo) Stats(context.Context) (*domain.ContactStats, error) {
	return &domain.ContactStats{ByStatus: map[string]int64{}}, nil
}

func TestContactSubmitAndOpen(t *testing.T) {
	repo := &stubContactRepo{byID: make(map[string]*domain.ContactMessage)}
	svc := NewContactService(repo, zerolog.Nop())
	ctx := context.Background()

	msg, err := svc.Submit(ctx, ports.ContactInput{
		Name:    "Client",
		Email:   "Client@Example.com",
		Phone:   "0500000000",
		Subject: "Quote",
		Message: "We need a warehouse.",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if msg.Status != domain.ContactNew || msg.Email != "client@example.com" {
		t.Fatalf("unexpected message: %+v", msg)
	}

	opened, err := svc.Open(ctx, msg.ID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if opened.Status != domain.ContactRead {
		t.Fatalf("expected opening a new message to mark it read, got %q", opened.Status)
	}

	if _, err := svc.SetStatus(ctx, msg.ID, domain.ContactReplied); err != nil {
		t.Fatalf("set status: %v", err)
	}
	opened, err = svc.Open(ctx, msg.ID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if opened.Status != domain.ContactReplied {
		t.Fatalf("opening a replied message must not change it, got %q", opened.Status)
	}
}

func TestContactRejections(t *testing.T) {
	repo := &stubContactRepo{byID: make(map[string]*domain.ContactMessage)}
	svc := NewContactService(repo, zerolog.Nop())

	if _, err := svc.Submit(context.Background(), ports.ContactInput{Name: "x"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.SetStatus(context.Background(), "c1", "archived"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

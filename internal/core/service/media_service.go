package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/ports"
	"github.com/buildco/cms-api/internal/pkg/query"
)

// DefaultMaxUploadBytes caps a single upload.
const DefaultMaxUploadBytes = 5 << 20

// MediaService stores uploaded images and their metadata.
type MediaService struct {
	repo     ports.MediaRepository
	store    ports.ObjectStore
	thumbs   ports.Thumbnailer
	maxBytes int64
	log      zerolog.Logger
	now      func() time.Time
}

// NewMediaService wires the service. thumbs may be nil to skip thumbnails.
func NewMediaService(repo ports.MediaRepository, store ports.ObjectStore, thumbs ports.Thumbnailer, maxBytes int64, log zerolog.Logger) *MediaService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &MediaService{
		repo:     repo,
		store:    store,
		thumbs:   thumbs,
		maxBytes: maxBytes,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MediaService) List(ctx context.Context, p query.Params) (query.Page[*domain.Media], error) {
	items, total, err := s.repo.List(ctx, p)
	if err != nil {
		return query.Page[*domain.Media]{}, fmt.Errorf("list media: %w", err)
	}
	return query.NewPage(items, total, p), nil
}

// Upload sniffs the content type from the bytes rather than trusting the
// client, stores the file under a random name and records its metadata.
func (s *MediaService) Upload(ctx context.Context, in ports.UploadInput) (*domain.Media, error) {
	if in.Size > s.maxBytes {
		return nil, domain.ErrMediaTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(in.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, domain.ErrMediaTooLarge
	}
	if len(data) == 0 {
		return nil, domain.Validationf("file is empty")
	}

	contentType, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	ext, ok := domain.AllowedImageTypes[contentType]
	if !ok {
		return nil, domain.ErrUnsupportedMedia
	}

	name := uuid.NewString() + ext
	url, err := s.store.Put(ctx, name, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	m := &domain.Media{
		Filename:     name,
		OriginalName: path.Base(strings.ReplaceAll(in.OriginalName, "\\", "/")),
		URL:          url,
		MimeType:     contentType,
		Size:         int64(len(data)),
		Alt:          strings.TrimSpace(in.Alt),
		CreatedAt:    s.now(),
	}
	if s.thumbs != nil && domain.Rasterizable(contentType) {
		m.ThumbnailURL = s.storeThumbnail(ctx, name, data)
	}

	if err := s.repo.Create(ctx, m); err != nil {
		s.removeObjects(ctx, m)
		return nil, err
	}
	return m, nil
}

func (s *MediaService) Delete(ctx context.Context, id string) error {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeObjects(ctx, m)
	return nil
}

func (s *MediaService) storeThumbnail(ctx context.Context, name string, data []byte) string {
	thumb, contentType, err := s.thumbs.Thumbnail(data)
	if err != nil {
		s.log.Warn().Err(err).Str("file", name).Msg("thumbnail rendering failed")
		return ""
	}
	url, err := s.store.Put(ctx, thumbnailName(name), bytes.NewReader(thumb), int64(len(thumb)), contentType)
	if err != nil {
		s.log.Warn().Err(err).Str("file", name).Msg("thumbnail upload failed")
		return ""
	}
	return url
}

func (s *MediaService) removeObjects(ctx context.Context, m *domain.Media) {
	if err := s.store.Remove(ctx, m.Filename); err != nil {
		s.log.Warn().Err(err).Str("file", m.Filename).Msg("failed to remove stored file")
	}
	if m.ThumbnailURL == "" {
		return
	}
	if err := s.store.Remove(ctx, thumbnailName(m.Filename)); err != nil {
		s.log.Warn().Err(err).Str("file", m.Filename).Msg("failed to remove stored thumbnail")
	}
}

// thumbnailName derives the object name of a thumbnail from its original.
func thumbnailName(name string) string {
	return "thumbs/" + strings.TrimSuffix(name, path.Ext(name)) + ".jpg"
}

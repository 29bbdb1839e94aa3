package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/buildco/cms-api/internal/api/metrics"
	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/ports"
)

// MaxFilesPerUpload caps a multi-file upload.
const MaxFilesPerUpload = 10

// MediaHandler serves the media library.
type MediaHandler struct {
	service ports.MediaService
}

func NewMediaHandler(service ports.MediaService) *MediaHandler {
	return &MediaHandler{service: service}
}

// List returns a page of media, newest first.
//
// @Summary      List media
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page number"
// @Param        size  query     int  false  "Page size (max 100)"
// @Success      200   {object}  pageResponse{data=[]domain.Media}
// @Failure      403   {object}  errorResponse
// @Router       /media [get]
func (h *MediaHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), listParams(c))
	if err != nil {
		return err
	}
	return respondPage(c, page)
}

// Upload stores one image sent as the multipart field "file".
//
// @Summary      Upload an image
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file    true   "Image"
// @Param        alt   formData  string  false  "Alternative text"
// @Success      201   {object}  dataResponse{data=domain.Media}
// @Failure      400   {object}  errorResponse
// @Router       /media/upload [post]
func (h *MediaHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return domain.Validationf("no file uploaded")
	}
	m, err := h.store(c.Request().Context(), fh, c.FormValue("alt"))
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusCreated, m, "file uploaded")
}

// UploadMultiple stores up to MaxFilesPerUpload images sent as the multipart
// field "files". Either every file is stored or none is.
//
// @Summary      Upload several images
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        files  formData  file  true  "Images"
// @Success      201    {object}  dataResponse{data=[]domain.Media}
// @Failure      400    {object}  errorResponse
// @Router       /media/upload-multiple [post]
func (h *MediaHandler) UploadMultiple(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return domain.Validationf("no files uploaded")
	}
	files := form.File["files"]
	switch {
	case len(files) == 0:
		return domain.Validationf("no files uploaded")
	case len(files) > MaxFilesPerUpload:
		return domain.Validationf("at most %d files may be uploaded at once", MaxFilesPerUpload)
	}

	ctx := c.Request().Context()
	stored := make([]*domain.Media, 0, len(files))
	for _, fh := range files {
		m, err := h.store(ctx, fh, "")
		if err != nil {
			h.rollback(ctx, stored)
			return err
		}
		stored = append(stored, m)
	}
	return respondMessage(c, http.StatusCreated, stored, "files uploaded")
}

// Delete removes the media record and its stored file.
//
// @Summary      Delete media
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Media ID"
// @Success      200  {object}  dataResponse
// @Failure      404  {object}  errorResponse
// @Router       /media/{id} [delete]
func (h *MediaHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, nil, "media deleted")
}

func (h *MediaHandler) store(ctx context.Context, fh *multipart.FileHeader, alt string) (*domain.Media, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, domain.Validationf("unreadable upload %q", fh.Filename)
	}
	defer f.Close()

	m, err := h.service.Upload(ctx, ports.UploadInput{
		OriginalName: fh.Filename,
		Size:         fh.Size,
		Alt:          alt,
		Body:         f,
	})
	metrics.MediaUploadsTotal.WithLabelValues(metrics.Outcome(err, isValidation)).Inc()
	if err != nil {
		return nil, err
	}
	metrics.MediaUploadBytes.Observe(float64(m.Size))
	return m, nil
}

// rollback removes files stored earlier in a failed multi-file upload. The
// original error is what the client sees, so failures here are dropped.
func (h *MediaHandler) rollback(ctx context.Context, stored []*domain.Media) {
	for _, m := range stored {
		_ = h.service.Delete(ctx, m.ID)
	}
}

func isValidation(err error) bool {
	return errors.Is(err, domain.ErrValidation)
}

package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/buildco/cms-api/internal/api/metrics"
	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/ports"
)

type ContactHandler struct {
	service ports.ContactService
}

func NewContactHandler(service ports.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,min=7,max=20"`
	Subject string `json:"subject" validate:"required,min=3,max=200"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

type contactStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new read replied"`
}

// contactReceipt is what an anonymous sender gets back.
type contactReceipt struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Submit accepts a message from the public contact form.
//
// @Summary      Send a contact message
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body      contactRequest  true  "Message"
// @Success      201   {object}  dataResponse{data=contactReceipt}
// @Failure      400   {object}  errorResponse
// @Router       /contact [post]
func (h *ContactHandler) Submit(c echo.Context) error {
	var req contactRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	msg, err := h.service.Submit(c.Request().Context(), ports.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	metrics.ContactSubmissionsTotal.Inc()
	return respondMessage(c, http.StatusCreated, contactReceipt{
		ID:        msg.ID,
		Name:      msg.Name,
		Email:     msg.Email,
		CreatedAt: msg.CreatedAt,
	}, "message sent successfully")
}

// List returns a page of messages, newest first by default.
//
// @Summary      List contact messages
// @Tags         contact
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status (new, read, replied)"
// @Param        page    query     int     false  "Page number"
// @Param        size    query     int     false  "Page size (max 100)"
// @Success      200     {object}  pageResponse{data=[]domain.ContactMessage}
// @Failure      403     {object}  errorResponse
// @Router       /contact [get]
func (h *ContactHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), listParams(c))
	if err != nil {
		return err
	}
	return respondPage(c, page)
}

// Stats counts messages per status.
//
// @Summary      Contact inbox statistics
// @Tags         contact
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dataResponse{data=domain.ContactStats}
// @Router       /contact/stats/overview [get]
func (h *ContactHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, stats)
}

// Get returns one message. Opening a new message marks it read.
//
// @Summary      Get a contact message
// @Tags         contact
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  dataResponse{data=domain.ContactMessage}
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /contact/{id} [get]
func (h *ContactHandler) Get(c echo.Context) error {
	msg, err := h.service.Open(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, msg)
}

// SetStatus moves a message to another status.
//
// @Summary      Update a contact message status
// @Tags         contact
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Message ID"
// @Param        body  body      contactStatusRequest  true  "Status"
// @Success      200   {object}  dataResponse{data=domain.ContactMessage}
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /contact/{id}/status [patch]
func (h *ContactHandler) SetStatus(c echo.Context) error {
	var req contactStatusRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	msg, err := h.service.SetStatus(c.Request().Context(), c.Param("id"), domain.ContactStatus(req.Status))
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, msg, "message status updated")
}

// Delete removes a message.
//
// @Summary      Delete a contact message
// @Tags         contact
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  dataResponse
// @Failure      404  {object}  errorResponse
// @Router       /contact/{id} [delete]
func (h *ContactHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, nil, "message deleted")
}

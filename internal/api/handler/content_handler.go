package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/policy"
	"github.com/buildco/cms-api/internal/core/ports"
)

// contentRequest is a create payload that converts into a content document.
type contentRequest[T any] interface {
	toDomain() *T
}

// ContentHandler serves one family of public content documents: projects,
// services, partners, departments or categories. Public reads only ever see
// visible documents; the admin listing sees everything.
type ContentHandler[T any, P any] struct {
	service    ports.ContentService[T, P]
	policy     policy.Policy
	noun       string
	newRequest func() contentRequest[T]
}

func NewContentHandler[T any, P any](
	service ports.ContentService[T, P],
	pol policy.Policy,
	noun string,
	newRequest func() contentRequest[T],
) *ContentHandler[T, P] {
	return &ContentHandler[T, P]{service: service, policy: pol, noun: noun, newRequest: newRequest}
}

func NewProjectHandler(service ports.ContentService[domain.Project, domain.ProjectPatch], pol policy.Policy) *ContentHandler[domain.Project, domain.ProjectPatch] {
	return NewContentHandler(service, pol, "project", func() contentRequest[domain.Project] { return &projectRequest{} })
}

func NewServiceHandler(service ports.ContentService[domain.Service, domain.ServicePatch], pol policy.Policy) *ContentHandler[domain.Service, domain.ServicePatch] {
	return NewContentHandler(service, pol, "service", func() contentRequest[domain.Service] { return &serviceRequest{} })
}

func NewPartnerHandler(service ports.ContentService[domain.Partner, domain.PartnerPatch], pol policy.Policy) *ContentHandler[domain.Partner, domain.PartnerPatch] {
	return NewContentHandler(service, pol, "partner", func() contentRequest[domain.Partner] { return &partnerRequest{} })
}

func NewDepartmentHandler(service ports.ContentService[domain.Department, domain.DepartmentPatch], pol policy.Policy) *ContentHandler[domain.Department, domain.DepartmentPatch] {
	return NewContentHandler(service, pol, "department", func() contentRequest[domain.Department] { return &departmentRequest{} })
}

func NewCategoryHandler(service ports.ContentService[domain.Category, domain.CategoryPatch], pol policy.Policy) *ContentHandler[domain.Category, domain.CategoryPatch] {
	return NewContentHandler(service, pol, "category", func() contentRequest[domain.Category] { return &categoryRequest{} })
}

// List returns a page of visible documents.
//
// @Summary      List visible content
// @Tags         content
// @Produce      json
// @Param        page    query     int     false  "Page number"
// @Param        size    query     int     false  "Page size (max 100)"
// @Param        search  query     string  false  "Free-text search"
// @Param        sort    query     string  false  "Sort, e.g. order,-createdAt"
// @Success      200     {object}  pageResponse
// @Failure      400     {object}  errorResponse
// @Router       /{family} [get]
func (h *ContentHandler[T, P]) List(c echo.Context) error {
	scope := h.policy.ContentScope(viewer(c), false)
	page, err := h.service.List(c.Request().Context(), scope, listParams(c))
	if err != nil {
		return err
	}
	return respondPage(c, page)
}

// AdminList returns a page of all documents, hidden ones included.
//
// @Summary      List all content (admin)
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        isVisible  query     bool  false  "Filter by visibility"
// @Success      200        {object}  pageResponse
// @Failure      403        {object}  errorResponse
// @Router       /{family}/admin/all [get]
func (h *ContentHandler[T, P]) AdminList(c echo.Context) error {
	scope := h.policy.ContentScope(viewer(c), true)
	page, err := h.service.List(c.Request().Context(), scope, listParams(c))
	if err != nil {
		return err
	}
	return respondPage(c, page)
}

// Get returns one document by id. Content writers also see hidden ones so
// drafts can be opened for editing.
//
// @Summary      Get content by id
// @Tags         content
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  dataResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /{family}/{id} [get]
func (h *ContentHandler[T, P]) Get(c echo.Context) error {
	doc, err := h.service.Get(c.Request().Context(), c.Param("id"), h.policy.ContentScope(viewer(c), true))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, doc)
}

// GetBySlug returns one document by slug, with the same visibility as Get.
//
// @Summary      Get content by slug
// @Tags         content
// @Produce      json
// @Param        slug  path      string  true  "Slug"
// @Success      200   {object}  dataResponse
// @Failure      404   {object}  errorResponse
// @Router       /{family}/{slug} [get]
func (h *ContentHandler[T, P]) GetBySlug(c echo.Context) error {
	slug := normalizeSlug(c.Param("slug"))
	doc, err := h.service.GetBySlug(c.Request().Context(), slug, h.policy.ContentScope(viewer(c), true))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, doc)
}

// Create adds a document.
//
// @Summary      Create content
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  dataResponse
// @Failure      400  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /{family} [post]
func (h *ContentHandler[T, P]) Create(c echo.Context) error {
	req := h.newRequest()
	if err := bindValid(c, req); err != nil {
		return err
	}
	doc, err := h.service.Create(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusCreated, doc, h.noun+" created")
}

// Update patches a document. Omitted fields are left unchanged.
//
// @Summary      Update content
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  dataResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /{family}/{id} [put]
func (h *ContentHandler[T, P]) Update(c echo.Context) error {
	var patch P
	if err := bindValid(c, &patch); err != nil {
		return err
	}
	doc, err := h.service.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, doc, h.noun+" updated")
}

// SetVisibility shows or hides a document on the public site.
//
// @Summary      Set content visibility
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Document ID"
// @Param        body  body      visibilityRequest  true  "Visibility"
// @Success      200   {object}  dataResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /{family}/{id}/visibility [patch]
func (h *ContentHandler[T, P]) SetVisibility(c echo.Context) error {
	var req visibilityRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	doc, err := h.service.SetVisibility(c.Request().Context(), c.Param("id"), *req.IsVisible)
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, doc, h.noun+" visibility updated")
}

// SetOrder moves a document within its listing.
//
// @Summary      Set content order
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Document ID"
// @Param        body  body      orderRequest  true  "Order"
// @Success      200   {object}  dataResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /{family}/{id}/order [patch]
func (h *ContentHandler[T, P]) SetOrder(c echo.Context) error {
	var req orderRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	doc, err := h.service.SetOrder(c.Request().Context(), c.Param("id"), *req.Order)
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, doc, h.noun+" order updated")
}

// Delete removes a document.
//
// @Summary      Delete content
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  dataResponse
// @Failure      404  {object}  errorResponse
// @Router       /{family}/{id} [delete]
func (h *ContentHandler[T, P]) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, nil, h.noun+" deleted")
}

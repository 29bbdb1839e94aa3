package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/ports"
)

// UserHandler serves the admin user management endpoints.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type createUserRequest struct {
	Name              string           `json:"name" validate:"required,max=100"`
	Email             string           `json:"email" validate:"required,email"`
	Password          string           `json:"password" validate:"required,min=8,max=72"`
	Role              domain.Role      `json:"role" validate:"omitempty,oneof=admin editor employee viewer"`
	Phone             string           `json:"phone" validate:"omitempty,max=20"`
	Photo             string           `json:"photo"`
	YearsOfExperience int              `json:"yearsOfExperience" validate:"gte=0"`
	Description       domain.Bilingual `json:"description"`
}

func (r createUserRequest) toInput() ports.NewUserInput {
	return ports.NewUserInput{
		Name:              r.Name,
		Email:             r.Email,
		Password:          r.Password,
		Role:              r.Role,
		Phone:             r.Phone,
		Photo:             r.Photo,
		YearsOfExperience: r.YearsOfExperience,
		Description:       r.Description,
	}
}

// updateUserRequest has no password field: passwords change only through
// /auth/change-password.
type updateUserRequest struct {
	Name              *string           `json:"name" validate:"omitempty,min=1,max=100"`
	Email             *string           `json:"email" validate:"omitempty,email"`
	Role              *domain.Role      `json:"role" validate:"omitempty,oneof=admin editor employee viewer"`
	Phone             *string           `json:"phone" validate:"omitempty,max=20"`
	Photo             *string           `json:"photo"`
	YearsOfExperience *int              `json:"yearsOfExperience" validate:"omitempty,gte=0"`
	Description       *domain.Bilingual `json:"description"`
}

func (r updateUserRequest) toPatch() domain.UserPatch {
	return domain.UserPatch{
		Name:              r.Name,
		Email:             r.Email,
		Role:              r.Role,
		Phone:             r.Phone,
		Photo:             r.Photo,
		YearsOfExperience: r.YearsOfExperience,
		Description:       r.Description,
	}
}

// List returns a page of users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number"
// @Param        size    query     int     false  "Page size (max 100)"
// @Param        search  query     string  false  "Search name and email"
// @Param        sort    query     string  false  "Sort, e.g. -createdAt"
// @Success      200     {object}  pageResponse{data=[]domain.User}
// @Failure      400     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), listParams(c))
	if err != nil {
		return err
	}
	return respondPage(c, page)
}

// Get returns one user.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  dataResponse{data=domain.User}
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

// Create adds a user.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User"
// @Success      201   {object}  dataResponse{data=domain.User}
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	user, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusCreated, user, "user created")
}

// Update patches a user's profile and role.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  dataResponse{data=domain.User}
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	user, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toPatch())
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, user, "user updated")
}

// Delete removes a user with their sessions and employee profile. Admins
// cannot delete themselves.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  dataResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	p, err := requireViewer(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, nil, "user deleted")
}

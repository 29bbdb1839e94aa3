package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/buildco/cms-api/internal/api/metrics"
	"github.com/buildco/cms-api/internal/core/ports"
	"github.com/buildco/cms-api/internal/pkg/query"
)

// EmployeeHandler serves the employee directory and employee administration.
// Which fields a response carries is decided by the service; the handler only
// renders the shape matching the projection it got back.
type EmployeeHandler struct {
	service ports.EmployeeService
}

func NewEmployeeHandler(service ports.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// Directory lists active employees with the public card.
//
// @Summary      Employee directory
// @Tags         employees
// @Produce      json
// @Param        page        query     int     false  "Page number"
// @Param        size        query     int     false  "Page size (max 100)"
// @Param        search      query     string  false  "Search names, position, department and skills"
// @Param        department  query     string  false  "Filter by department"
// @Param        sort        query     string  false  "Sort, e.g. lastName,-hireDate"
// @Success      200         {object}  pageResponse{data=[]employeeCardResponse}
// @Failure      400         {object}  errorResponse
// @Router       /employees/directory [get]
func (h *EmployeeHandler) Directory(c echo.Context) error {
	page, err := h.service.Directory(c.Request().Context(), listParams(c))
	if err != nil {
		return err
	}
	return respondPage(c, query.Map(page, toEmployeeResponse))
}

// Get returns the public card of one employee.
//
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  dataResponse{data=employeeCardResponse}
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) Get(c echo.Context) error {
	emp, err := h.service.GetProfile(c.Request().Context(), viewer(c), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toEmployeeResponse(emp))
}

// Me returns the caller's own employee record including personal data.
//
// @Summary      Own employee profile
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dataResponse{data=employeePrivateResponse}
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /employees/me [get]
func (h *EmployeeHandler) Me(c echo.Context) error {
	p, err := requireViewer(c)
	if err != nil {
		return err
	}
	emp, err := h.service.GetMine(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toEmployeeResponse(emp))
}

// AdminList lists every employee, active or not, without personal data.
//
// @Summary      List employees (admin)
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "Page number"
// @Param        size      query     int     false  "Page size (max 100)"
// @Param        isActive  query     bool    false  "Filter by active flag"
// @Success      200       {object}  pageResponse{data=[]employeePublicResponse}
// @Failure      403       {object}  errorResponse
// @Router       /employees/admin/all [get]
func (h *EmployeeHandler) AdminList(c echo.Context) error {
	page, err := h.service.AdminList(c.Request().Context(), viewer(c), listParams(c))
	if err != nil {
		return err
	}
	return respondPage(c, query.Map(page, toEmployeeResponse))
}

// AdminGet returns one employee including personal data.
//
// @Summary      Get an employee (admin)
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  dataResponse{data=employeePrivateResponse}
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /employees/admin/{id} [get]
func (h *EmployeeHandler) AdminGet(c echo.Context) error {
	emp, err := h.service.GetAdmin(c.Request().Context(), viewer(c), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toEmployeeResponse(emp))
}

// Create makes the employee together with its user account.
//
// @Summary      Create an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEmployeeRequest  true  "Identity and employment data"
// @Success      201   {object}  dataResponse{data=employeePrivateResponse}
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /employees [post]
func (h *EmployeeHandler) Create(c echo.Context) error {
	var req createEmployeeRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	emp, err := h.service.Create(c.Request().Context(), viewer(c), req.toInput())
	metrics.EmployeeLifecycleTotal.WithLabelValues("create", lifecycleResult(err)).Inc()
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusCreated, toEmployeeResponse(emp), "employee created")
}

// Update patches an employee.
//
// @Summary      Update an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Employee ID"
// @Param        body  body      updateEmployeeRequest  true  "Fields to change"
// @Success      200   {object}  dataResponse{data=employeePrivateResponse}
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /employees/{id} [put]
func (h *EmployeeHandler) Update(c echo.Context) error {
	var req updateEmployeeRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	emp, err := h.service.Update(c.Request().Context(), viewer(c), c.Param("id"), req.toPatch())
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, toEmployeeResponse(emp), "employee updated")
}

// SetProjects replaces the list of projects an employee works on.
//
// @Summary      Set employee projects
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Employee ID"
// @Param        body  body      setProjectsRequest  true  "Project IDs"
// @Success      200   {object}  dataResponse{data=employeePrivateResponse}
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /employees/{id}/projects [put]
func (h *EmployeeHandler) SetProjects(c echo.Context) error {
	var req setProjectsRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	emp, err := h.service.SetProjects(c.Request().Context(), viewer(c), c.Param("id"), req.ProjectIDs)
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, toEmployeeResponse(emp), "employee projects updated")
}

// Delete removes the employee and its user account.
//
// @Summary      Delete an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  dataResponse
// @Failure      404  {object}  errorResponse
// @Router       /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c echo.Context) error {
	err := h.service.Delete(c.Request().Context(), c.Param("id"))
	metrics.EmployeeLifecycleTotal.WithLabelValues("delete", lifecycleResult(err)).Inc()
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, nil, "employee and associated user deleted")
}

func lifecycleResult(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

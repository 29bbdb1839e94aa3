package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/ports"
)

// SettingsHandler serves the site settings and the company profile. Both are
// singletons.
type SettingsHandler struct {
	service ports.SettingsService
}

func NewSettingsHandler(service ports.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

type companySettingsRequest struct {
	Name                  domain.Bilingual `json:"name" validate:"required"`
	YearsExperience       string           `json:"yearsExperience"`
	ClientsCount          string           `json:"clientsCount"`
	ProjectsCount         string           `json:"projectsCount"`
	SatisfiedClientsCount string           `json:"satisfiedClientsCount"`
	SuccessPercentage     string           `json:"successPercentage"`
	ValuesAr              []string         `json:"valuesAr"`
	ValuesEn              []string         `json:"valuesEn"`
	Vision                domain.Bilingual `json:"vision"`
	Telephone             string           `json:"telephone" validate:"omitempty,max=20"`
	Email                 string           `json:"email" validate:"omitempty,email"`
	Address               domain.Bilingual `json:"address"`
	AddressURL            string           `json:"addressUrl" validate:"omitempty,url"`
	Logo                  string           `json:"logo"`
}

func (r *companySettingsRequest) toDomain() *domain.CompanySettings {
	return &domain.CompanySettings{
		Name:                  r.Name,
		YearsExperience:       r.YearsExperience,
		ClientsCount:          r.ClientsCount,
		ProjectsCount:         r.ProjectsCount,
		SatisfiedClientsCount: r.SatisfiedClientsCount,
		SuccessPercentage:     r.SuccessPercentage,
		ValuesAr:              orEmpty(r.ValuesAr),
		ValuesEn:              orEmpty(r.ValuesEn),
		Vision:                r.Vision,
		Telephone:             r.Telephone,
		Email:                 r.Email,
		Address:               r.Address,
		AddressURL:            r.AddressURL,
		Logo:                  r.Logo,
	}
}

// Site returns the full site settings, creating defaults on first use.
//
// @Summary      Site settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  dataResponse{data=domain.SiteSettings}
// @Router       /settings [get]
func (h *SettingsHandler) Site(c echo.Context) error {
	s, err := h.service.Site(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, s)
}

// Hero returns the hero section of the site settings.
//
// @Summary      Hero settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  dataResponse{data=domain.SiteHero}
// @Router       /settings/hero [get]
func (h *SettingsHandler) Hero(c echo.Context) error {
	s, err := h.service.Site(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, s.HeroView())
}

// Contact returns the contact section of the site settings.
//
// @Summary      Contact settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  dataResponse{data=domain.SiteContact}
// @Router       /settings/contact [get]
func (h *SettingsHandler) Contact(c echo.Context) error {
	s, err := h.service.Site(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, s.ContactView())
}

// About returns the about section of the site settings.
//
// @Summary      About settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  dataResponse{data=domain.SiteAbout}
// @Router       /settings/about [get]
func (h *SettingsHandler) About(c echo.Context) error {
	s, err := h.service.Site(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, s.AboutView())
}

// UpdateSite replaces the site settings document.
//
// @Summary      Update site settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.SiteSettings  true  "Site settings"
// @Success      200   {object}  dataResponse{data=domain.SiteSettings}
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /settings [put]
func (h *SettingsHandler) UpdateSite(c echo.Context) error {
	var req domain.SiteSettings
	if err := c.Bind(&req); err != nil {
		return err
	}
	s, err := h.service.UpdateSite(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, s, "settings updated")
}

// Company returns the company profile.
//
// @Summary      Company settings
// @Tags         company-settings
// @Produce      json
// @Success      200  {object}  dataResponse{data=domain.CompanySettings}
// @Failure      404  {object}  errorResponse
// @Router       /company-settings [get]
func (h *SettingsHandler) Company(c echo.Context) error {
	s, err := h.service.Company(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, s)
}

// CreateCompany creates the company profile. A second create is a conflict.
//
// @Summary      Create company settings
// @Tags         company-settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      companySettingsRequest  true  "Company profile"
// @Success      201   {object}  dataResponse{data=domain.CompanySettings}
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /company-settings [post]
func (h *SettingsHandler) CreateCompany(c echo.Context) error {
	var req companySettingsRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	s, err := h.service.CreateCompany(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusCreated, s, "company settings created")
}

// UpsertCompany creates or replaces the company profile.
//
// @Summary      Update company settings
// @Tags         company-settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      companySettingsRequest  true  "Company profile"
// @Success      200   {object}  dataResponse{data=domain.CompanySettings}
// @Failure      400   {object}  errorResponse
// @Router       /company-settings [put]
func (h *SettingsHandler) UpsertCompany(c echo.Context) error {
	var req companySettingsRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	s, err := h.service.UpsertCompany(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, s, "company settings updated")
}

package handler

import (
	"strings"

	"github.com/buildco/cms-api/internal/core/domain"
)

// contentMeta carries the ordering and visibility every content request shares.
// A missing isVisible means visible.
type contentMeta struct {
	Order     int   `json:"order" validate:"gte=0"`
	IsVisible *bool `json:"isVisible"`
}

func (m contentMeta) toDomain() domain.ContentMeta {
	visible := true
	if m.IsVisible != nil {
		visible = *m.IsVisible
	}
	return domain.ContentMeta{Order: m.Order, IsVisible: visible}
}

type projectRequest struct {
	contentMeta
	Category        string             `json:"category" validate:"required"`
	Title           domain.Bilingual   `json:"title" validate:"required"`
	Image           string             `json:"image"`
	Location        domain.Bilingual   `json:"location"`
	Description     domain.Bilingual   `json:"description"`
	FullDescription domain.Bilingual   `json:"fullDescription"`
	TechStack       []domain.Bilingual `json:"techStack"`
	Status          domain.Bilingual   `json:"status"`
	Area            string             `json:"area"`
	Duration        string             `json:"duration"`
	Team            string             `json:"team"`
	Gallery         []string           `json:"gallery"`
	IsWorking       bool               `json:"isWorking"`
}

func (r *projectRequest) toDomain() *domain.Project {
	return &domain.Project{
		ContentMeta:     r.contentMeta.toDomain(),
		Category:        strings.TrimSpace(r.Category),
		Title:           r.Title,
		Image:           r.Image,
		Location:        r.Location,
		Description:     r.Description,
		FullDescription: r.FullDescription,
		TechStack:       orEmpty(r.TechStack),
		Status:          r.Status,
		Area:            r.Area,
		Duration:        r.Duration,
		Team:            r.Team,
		Gallery:         orEmpty(r.Gallery),
		IsWorking:       r.IsWorking,
	}
}

type serviceRequest struct {
	contentMeta
	Slug             string                  `json:"slug" validate:"required,max=120"`
	Title            domain.Bilingual        `json:"title" validate:"required"`
	ShortDescription domain.Bilingual        `json:"shortDescription"`
	FullDescription  domain.Bilingual        `json:"fullDescription"`
	Icon             string                  `json:"icon"`
	Features         []domain.Bilingual      `json:"features"`
	Benefits         []domain.ServiceBenefit `json:"benefits"`
	Process          []domain.ServiceStep    `json:"process"`
	Images           []string                `json:"images"`
	Stats            domain.ServiceStats     `json:"stats"`
}

func (r *serviceRequest) toDomain() *domain.Service {
	return &domain.Service{
		ContentMeta:      r.contentMeta.toDomain(),
		Slug:             normalizeSlug(r.Slug),
		Title:            r.Title,
		ShortDescription: r.ShortDescription,
		FullDescription:  r.FullDescription,
		Icon:             r.Icon,
		Features:         orEmpty(r.Features),
		Benefits:         orEmpty(r.Benefits),
		Process:          orEmpty(r.Process),
		Images:           orEmpty(r.Images),
		Stats:            r.Stats,
	}
}

type partnerRequest struct {
	contentMeta
	Name domain.Bilingual `json:"name"`
	Logo string           `json:"logo" validate:"required"`
}

func (r *partnerRequest) toDomain() *domain.Partner {
	return &domain.Partner{
		ContentMeta: r.contentMeta.toDomain(),
		Name:        r.Name,
		Logo:        r.Logo,
	}
}

type departmentRequest struct {
	contentMeta
	Title          domain.Bilingual       `json:"title" validate:"required"`
	Icon           string                 `json:"icon"`
	SubDepartments []domain.SubDepartment `json:"subDepartments"`
}

func (r *departmentRequest) toDomain() *domain.Department {
	return &domain.Department{
		ContentMeta:    r.contentMeta.toDomain(),
		Title:          r.Title,
		Icon:           r.Icon,
		SubDepartments: orEmpty(r.SubDepartments),
	}
}

type categoryRequest struct {
	contentMeta
	Slug        string           `json:"slug" validate:"required,max=120"`
	Title       domain.Bilingual `json:"title" validate:"required"`
	Description domain.Bilingual `json:"description"`
	Color       string           `json:"color"`
	Count       domain.Bilingual `json:"count"`
}

func (r *categoryRequest) toDomain() *domain.Category {
	return &domain.Category{
		ContentMeta: r.contentMeta.toDomain(),
		Slug:        normalizeSlug(r.Slug),
		Title:       r.Title,
		Description: r.Description,
		Color:       r.Color,
		Count:       r.Count,
	}
}

type visibilityRequest struct {
	IsVisible *bool `json:"isVisible" validate:"required"`
}

type orderRequest struct {
	Order *int `json:"order" validate:"required,gte=0"`
}

func normalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

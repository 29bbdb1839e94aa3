package domain

import "time"

// ContentMeta is shared by every public content document.
type ContentMeta struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Order     int       `json:"order" bson:"order"`
	IsVisible bool      `json:"isVisible" bson:"is_visible"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// Stamp sets the creation time once and the update time always.
func (m *ContentMeta) Stamp(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

func (m *ContentMeta) SetID(id string) { m.ID = id }

// Project is a portfolio entry.
type Project struct {
	ContentMeta     `bson:",inline"`
	Category        string      `json:"category" bson:"category"`
	Title           Bilingual   `json:"title" bson:"title"`
	Image           string      `json:"image" bson:"image"`
	Location        Bilingual   `json:"location" bson:"location"`
	Description     Bilingual   `json:"description" bson:"description"`
	FullDescription Bilingual   `json:"fullDescription" bson:"full_description"`
	TechStack       []Bilingual `json:"techStack" bson:"tech_stack"`
	Status          Bilingual   `json:"status" bson:"status"`
	Area            string      `json:"area" bson:"area"`
	Duration        string      `json:"duration" bson:"duration"`
	Team            string      `json:"team" bson:"team"`
	Gallery         []string    `json:"gallery" bson:"gallery"`
	IsWorking       bool        `json:"isWorking" bson:"is_working"`
}

type ProjectPatch struct {
	Category        *string      `json:"category,omitempty" bson:"category,omitempty"`
	Title           *Bilingual   `json:"title,omitempty" bson:"title,omitempty"`
	Image           *string      `json:"image,omitempty" bson:"image,omitempty"`
	Location        *Bilingual   `json:"location,omitempty" bson:"location,omitempty"`
	Description     *Bilingual   `json:"description,omitempty" bson:"description,omitempty"`
	FullDescription *Bilingual   `json:"fullDescription,omitempty" bson:"full_description,omitempty"`
	TechStack       *[]Bilingual `json:"techStack,omitempty" bson:"tech_stack,omitempty"`
	Status          *Bilingual   `json:"status,omitempty" bson:"status,omitempty"`
	Area            *string      `json:"area,omitempty" bson:"area,omitempty"`
	Duration        *string      `json:"duration,omitempty" bson:"duration,omitempty"`
	Team            *string      `json:"team,omitempty" bson:"team,omitempty"`
	Gallery         *[]string    `json:"gallery,omitempty" bson:"gallery,omitempty"`
	IsWorking       *bool        `json:"isWorking,omitempty" bson:"is_working,omitempty"`
	Order           *int         `json:"order,omitempty" bson:"order,omitempty" validate:"omitempty,gte=0"`
	IsVisible       *bool        `json:"isVisible,omitempty" bson:"is_visible,omitempty"`
}

type ServiceBenefit struct {
	Title       Bilingual `json:"title" bson:"title"`
	Description Bilingual `json:"description" bson:"description"`
}

type ServiceStep struct {
	Step        int       `json:"step" bson:"step"`
	Title       Bilingual `json:"title" bson:"title"`
	Description Bilingual `json:"description" bson:"description"`
}

type ServiceStats struct {
	Projects     string `json:"projects" bson:"projects"`
	Experience   string `json:"experience" bson:"experience"`
	Satisfaction string `json:"satisfaction" bson:"satisfaction"`
}

// Service is an offered line of work, addressed publicly by slug.
type Service struct {
	ContentMeta      `bson:",inline"`
	Slug             string           `json:"slug" bson:"slug"`
	Title            Bilingual        `json:"title" bson:"title"`
	ShortDescription Bilingual        `json:"shortDescription" bson:"short_description"`
	FullDescription  Bilingual        `json:"fullDescription" bson:"full_description"`
	Icon             string           `json:"icon" bson:"icon"`
	Features         []Bilingual      `json:"features" bson:"features"`
	Benefits         []ServiceBenefit `json:"benefits" bson:"benefits"`
	Process          []ServiceStep    `json:"process" bson:"process"`
	Images           []string         `json:"images" bson:"images"`
	Stats            ServiceStats     `json:"stats" bson:"stats"`
}

type ServicePatch struct {
	Slug             *string           `json:"slug,omitempty" bson:"slug,omitempty" validate:"omitempty,min=1"`
	Title            *Bilingual        `json:"title,omitempty" bson:"title,omitempty"`
	ShortDescription *Bilingual        `json:"shortDescription,omitempty" bson:"short_description,omitempty"`
	FullDescription  *Bilingual        `json:"fullDescription,omitempty" bson:"full_description,omitempty"`
	Icon             *string           `json:"icon,omitempty" bson:"icon,omitempty"`
	Features         *[]Bilingual      `json:"features,omitempty" bson:"features,omitempty"`
	Benefits         *[]ServiceBenefit `json:"benefits,omitempty" bson:"benefits,omitempty"`
	Process          *[]ServiceStep    `json:"process,omitempty" bson:"process,omitempty"`
	Images           *[]string         `json:"images,omitempty" bson:"images,omitempty"`
	Stats            *ServiceStats     `json:"stats,omitempty" bson:"stats,omitempty"`
	Order            *int              `json:"order,omitempty" bson:"order,omitempty" validate:"omitempty,gte=0"`
	IsVisible        *bool             `json:"isVisible,omitempty" bson:"is_visible,omitempty"`
}

// Partner is a client or supplier logo shown on the site.
type Partner struct {
	ContentMeta `bson:",inline"`
	Name        Bilingual `json:"name" bson:"name"`
	Logo        string    `json:"logo" bson:"logo"`
}

type PartnerPatch struct {
	Name      *Bilingual `json:"name,omitempty" bson:"name,omitempty"`
	Logo      *string    `json:"logo,omitempty" bson:"logo,omitempty"`
	Order     *int       `json:"order,omitempty" bson:"order,omitempty" validate:"omitempty,gte=0"`
	IsVisible *bool      `json:"isVisible,omitempty" bson:"is_visible,omitempty"`
}

type SubDepartment struct {
	Title    Bilingual   `json:"title" bson:"title"`
	Icon     string      `json:"icon" bson:"icon"`
	Sections []Bilingual `json:"sections" bson:"sections"`
}

// Department is an organisational unit shown on the site.
type Department struct {
	ContentMeta    `bson:",inline"`
	Title          Bilingual       `json:"title" bson:"title"`
	Icon           string          `json:"icon" bson:"icon"`
	SubDepartments []SubDepartment `json:"subDepartments" bson:"sub_departments"`
}

type DepartmentPatch struct {
	Title          *Bilingual       `json:"title,omitempty" bson:"title,omitempty"`
	Icon           *string          `json:"icon,omitempty" bson:"icon,omitempty"`
	SubDepartments *[]SubDepartment `json:"subDepartments,omitempty" bson:"sub_departments,omitempty"`
	Order          *int             `json:"order,omitempty" bson:"order,omitempty" validate:"omitempty,gte=0"`
	IsVisible      *bool            `json:"isVisible,omitempty" bson:"is_visible,omitempty"`
}

// Category groups projects; projects reference it by slug.
type Category struct {
	ContentMeta `bson:",inline"`
	Slug        string    `json:"slug" bson:"slug"`
	Title       Bilingual `json:"title" bson:"title"`
	Description Bilingual `json:"description" bson:"description"`
	Color       string    `json:"color" bson:"color"`
	Count       Bilingual `json:"count" bson:"count"`
}

type CategoryPatch struct {
	Slug        *string    `json:"slug,omitempty" bson:"slug,omitempty" validate:"omitempty,min=1"`
	Title       *Bilingual `json:"title,omitempty" bson:"title,omitempty"`
	Description *Bilingual `json:"description,omitempty" bson:"description,omitempty"`
	Color       *string    `json:"color,omitempty" bson:"color,omitempty"`
	Count       *Bilingual `json:"count,omitempty" bson:"count,omitempty"`
	Order       *int       `json:"order,omitempty" bson:"order,omitempty" validate:"omitempty,gte=0"`
	IsVisible   *bool      `json:"isVisible,omitempty" bson:"is_visible,omitempty"`
}

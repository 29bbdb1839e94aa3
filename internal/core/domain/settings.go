package domain

import "time"

// CompanySettings is the singleton company profile. Only one may exist.
type CompanySettings struct {
	ID                    string    `json:"id" bson:"_id,omitempty"`
	Name                  Bilingual `json:"name" bson:"name"`
	YearsExperience       string    `json:"yearsExperience" bson:"years_experience"`
	ClientsCount          string    `json:"clientsCount" bson:"clients_count"`
	ProjectsCount         string    `json:"projectsCount" bson:"projects_count"`
	SatisfiedClientsCount string    `json:"satisfiedClientsCount" bson:"satisfied_clients_count"`
	SuccessPercentage     string    `json:"successPercentage" bson:"success_percentage"`
	ValuesAr              []string  `json:"valuesAr" bson:"values_ar"`
	ValuesEn              []string  `json:"valuesEn" bson:"values_en"`
	Vision                Bilingual `json:"vision" bson:"vision"`
	Telephone             string    `json:"telephone" bson:"telephone"`
	Email                 string    `json:"email" bson:"email"`
	Address               Bilingual `json:"address" bson:"address"`
	AddressURL            string    `json:"addressUrl" bson:"address_url"`
	Logo                  string    `json:"logo" bson:"logo"`
	CreatedAt             time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt             time.Time `json:"updatedAt" bson:"updated_at"`
}

type SiteAddress struct {
	Street  Bilingual `json:"street" bson:"street"`
	City    Bilingual `json:"city" bson:"city"`
	Country Bilingual `json:"country" bson:"country"`
}

type ContactChannel struct {
	Label Bilingual `json:"label" bson:"label"`
	Value string    `json:"value" bson:"value"`
	Icon  string    `json:"icon" bson:"icon"`
	Link  string    `json:"link" bson:"link"`
}

type SocialLink struct {
	Platform string    `json:"platform" bson:"platform"`
	Label    Bilingual `json:"label" bson:"label"`
	URL      string    `json:"url" bson:"url"`
	Icon     string    `json:"icon" bson:"icon"`
	Color    string    `json:"color" bson:"color"`
}

type WorkingHours struct {
	Days  Bilingual `json:"days" bson:"days"`
	Hours string    `json:"hours" bson:"hours"`
}

type HeroStat struct {
	Value string    `json:"value" bson:"value"`
	Label Bilingual `json:"label" bson:"label"`
	Icon  string    `json:"icon" bson:"icon"`
}

type Hero struct {
	Title           Bilingual  `json:"title" bson:"title"`
	Tagline         Bilingual  `json:"tagline" bson:"tagline"`
	Description     Bilingual  `json:"description" bson:"description"`
	BackgroundImage string     `json:"backgroundImage" bson:"background_image"`
	Stats           []HeroStat `json:"stats" bson:"stats"`
}

// Highlight is an icon/title/description triple used by about values and standards.
type Highlight struct {
	Icon        string    `json:"icon" bson:"icon"`
	Title       Bilingual `json:"title" bson:"title"`
	Description Bilingual `json:"description" bson:"description"`
}

type About struct {
	Title       Bilingual   `json:"title" bson:"title"`
	Description Bilingual   `json:"description" bson:"description"`
	Vision      Bilingual   `json:"vision" bson:"vision"`
	Values      []Highlight `json:"values" bson:"values"`
}

// SiteSettings is the singleton document behind the public site chrome.
type SiteSettings struct {
	ID               string           `json:"id" bson:"_id,omitempty"`
	CompanyName      Bilingual        `json:"companyName" bson:"company_name"`
	LogoLight        string           `json:"logoLight" bson:"logo_light"`
	LogoDark         string           `json:"logoDark" bson:"logo_dark"`
	Address          SiteAddress      `json:"address" bson:"address"`
	Contacts         []ContactChannel `json:"contacts" bson:"contacts"`
	SocialLinks      []SocialLink     `json:"socialLinks" bson:"social_links"`
	WorkingHours     []WorkingHours   `json:"workingHours" bson:"working_hours"`
	Hero             Hero             `json:"hero" bson:"hero"`
	About            About            `json:"about" bson:"about"`
	Standards        []Highlight      `json:"standards" bson:"standards"`
	MapEmbedURL      string           `json:"mapEmbedUrl" bson:"map_embed_url"`
	MapDirectionsURL string           `json:"mapDirectionsUrl" bson:"map_directions_url"`
	FooterText       Bilingual        `json:"footerText" bson:"footer_text"`
	UpdatedAt        time.Time        `json:"updatedAt" bson:"updated_at"`
}

// DefaultSiteSettings is what a fresh deployment serves before an admin edits anything.
func DefaultSiteSettings(now time.Time) *SiteSettings {
	return &SiteSettings{
		CompanyName: Bilingual{
			Ar: "شركة إبن الشيخ للمقاولات العامة",
			En: "Ibn Al-Sheikh General Contracting",
		},
		Contacts:     []ContactChannel{},
		SocialLinks:  []SocialLink{},
		WorkingHours: []WorkingHours{},
		Hero:         Hero{Stats: []HeroStat{}},
		About:        About{Values: []Highlight{}},
		Standards:    []Highlight{},
		UpdatedAt:    now,
	}
}

// FillEmpty replaces nil lists with empty ones so clients always get arrays.
func (s *SiteSettings) FillEmpty() {
	if s.Contacts == nil {
		s.Contacts = []ContactChannel{}
	}
	if s.SocialLinks == nil {
		s.SocialLinks = []SocialLink{}
	}
	if s.WorkingHours == nil {
		s.WorkingHours = []WorkingHours{}
	}
	if s.Hero.Stats == nil {
		s.Hero.Stats = []HeroStat{}
	}
	if s.About.Values == nil {
		s.About.Values = []Highlight{}
	}
	if s.Standards == nil {
		s.Standards = []Highlight{}
	}
}

// SiteHero is the hero sub-view of the site settings.
type SiteHero struct {
	CompanyName Bilingual `json:"companyName"`
	Hero        Hero      `json:"hero"`
}

// SiteContact is the contact sub-view of the site settings.
type SiteContact struct {
	Address          SiteAddress      `json:"address"`
	Contacts         []ContactChannel `json:"contacts"`
	SocialLinks      []SocialLink     `json:"socialLinks"`
	WorkingHours     []WorkingHours   `json:"workingHours"`
	MapEmbedURL      string           `json:"mapEmbedUrl"`
	MapDirectionsURL string           `json:"mapDirectionsUrl"`
}

// SiteAbout is the about sub-view of the site settings.
type SiteAbout struct {
	About     About       `json:"about"`
	Standards []Highlight `json:"standards"`
}

func (s *SiteSettings) HeroView() SiteHero {
	return SiteHero{CompanyName: s.CompanyName, Hero: s.Hero}
}

func (s *SiteSettings) ContactView() SiteContact {
	return SiteContact{
		Address:          s.Address,
		Contacts:         s.Contacts,
		SocialLinks:      s.SocialLinks,
		WorkingHours:     s.WorkingHours,
		MapEmbedURL:      s.MapEmbedURL,
		MapDirectionsURL: s.MapDirectionsURL,
	}
}

func (s *SiteSettings) AboutView() SiteAbout {
	return SiteAbout{About: s.About, Standards: s.Standards}
}

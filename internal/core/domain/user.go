package domain

import (
	"context"
	"time"
)

// Role is the closed set of roles an identity can hold.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEditor   Role = "editor"
	RoleEmployee Role = "employee"
	RoleViewer   Role = "viewer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleEmployee, RoleViewer:
		return true
	}
	return false
}

// Bilingual holds the Arabic and English rendition of a text.
type Bilingual struct {
	Ar string `json:"ar" bson:"ar"`
	En string `json:"en" bson:"en"`
}

// User models an authenticated actor in the system.
type User struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	Role              Role      `json:"role"`
	Phone             string    `json:"phone,omitempty"`
	Photo             string    `json:"photo,omitempty"`
	YearsOfExperience int       `json:"yearsOfExperience,omitempty"`
	Description       Bilingual `json:"description"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// UserPatch is the set of profile fields an update may touch. Nil fields are
// left unchanged. The password hash has its own write path and is not here.
type UserPatch struct {
	Name              *string
	Email             *string
	Role              *Role
	Phone             *string
	Photo             *string
	YearsOfExperience *int
	Description       *Bilingual
}

// Principal is the caller resolved by the authentication gate.
type Principal struct {
	User      *User
	SessionID string
}

func (p *Principal) UserID() string {
	if p == nil || p.User == nil {
		return ""
	}
	return p.User.ID
}

func (p *Principal) Role() Role {
	if p == nil || p.User == nil {
		return ""
	}
	return p.User.Role
}

// HasRole reports whether the principal holds any of roles.
func (p *Principal) HasRole(roles ...Role) bool {
	own := p.Role()
	for _, r := range roles {
		if own != "" && r == own {
			return true
		}
	}
	return false
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored by WithPrincipal, if any.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil && p.User != nil
}

package service

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/buildco/cms-api/internal/core/domain"
)

const (
	// DefaultPasswordCost is the bcrypt work factor used when none is configured.
	DefaultPasswordCost = 12
	MinPasswordLength   = 8
	// MaxPasswordLength is the bcrypt input limit in bytes.
	MaxPasswordLength = 72
)

func checkPasswordLength(field, plain string) error {
	if len(plain) < MinPasswordLength {
		return domain.Validationf("%s must be at least %d characters", field, MinPasswordLength)
	}
	if len(plain) > MaxPasswordLength {
		return domain.Validationf("%s must be at most %d bytes", field, MaxPasswordLength)
	}
	return nil
}

// PasswordHasher owns password hashing and verification.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// BcryptHasher implements PasswordHasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, or DefaultPasswordCost when
// cost is outside bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultPasswordCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(plain, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

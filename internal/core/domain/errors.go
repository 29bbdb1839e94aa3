package domain

import (
	"errors"
	"fmt"
)

// Error kinds. The HTTP error boundary maps each kind to one status code, so
// every error that should reach a client as something other than a 500 must
// wrap exactly one of them.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrTooManyRequests = errors.New("too many requests")
)

// Error is a client-safe error: Message is rendered verbatim and Kind selects
// the status code. Details is optional per-field information for validation
// failures.
type Error struct {
	Kind    error
	Message string
	Details map[string]string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Validationf returns an ad-hoc validation error.
func Validationf(format string, args ...any) error {
	return newError(ErrValidation, fmt.Sprintf(format, args...))
}

// ValidationDetails returns a validation error carrying per-field messages.
func ValidationDetails(details map[string]string) error {
	return &Error{Kind: ErrValidation, Message: "validation failed", Details: details}
}

// Authentication failures.
var (
	ErrNoToken            = newError(ErrUnauthorized, "no token provided")
	ErrInvalidToken       = newError(ErrUnauthorized, "invalid token")
	ErrSessionNotFound    = newError(ErrUnauthorized, "session not found or expired")
	ErrSessionExpired     = newError(ErrUnauthorized, "session has expired")
	ErrSessionUserMissing = newError(ErrUnauthorized, "user not found")
	ErrInvalidSession     = newError(ErrUnauthorized, "invalid session")
	ErrAuthRequired       = newError(ErrUnauthorized, "authentication required")
	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid email or password")
	ErrWrongPassword      = newError(ErrUnauthorized, "current password is incorrect")
	ErrLoginThrottled     = newError(ErrTooManyRequests, "too many login attempts, try again later")
	ErrInsufficientRole   = newError(ErrForbidden, "insufficient permissions")
)

// Input failures.
var (
	ErrInvalidID        = newError(ErrValidation, "invalid ID format")
	ErrInvalidRole      = newError(ErrValidation, "invalid role")
	ErrInvalidPosition  = newError(ErrValidation, "invalid position")
	ErrInvalidStatus    = newError(ErrValidation, "invalid status")
	ErrCannotDeleteSelf = newError(ErrValidation, "you cannot delete your own account")
	ErrSamePassword     = newError(ErrValidation, "new password must differ from the current one")
	ErrUnsupportedMedia = newError(ErrValidation, "only image files are allowed")
	ErrMediaTooLarge    = newError(ErrValidation, "file exceeds the maximum upload size")
)

// Missing resources.
var (
	ErrUserNotFound            = newError(ErrNotFound, "user not found")
	ErrEmployeeNotFound        = newError(ErrNotFound, "employee not found")
	ErrProjectNotFound         = newError(ErrNotFound, "project not found")
	ErrServiceNotFound         = newError(ErrNotFound, "service not found")
	ErrPartnerNotFound         = newError(ErrNotFound, "partner not found")
	ErrDepartmentNotFound      = newError(ErrNotFound, "department not found")
	ErrCategoryNotFound        = newError(ErrNotFound, "category not found")
	ErrCompanySettingsNotFound = newError(ErrNotFound, "company settings not found")
	ErrMediaNotFound           = newError(ErrNotFound, "media not found")
	ErrContactNotFound         = newError(ErrNotFound, "contact message not found")
)

// Uniqueness violations.
var (
	ErrEmailTaken         = newError(ErrConflict, "email already exists")
	ErrEmployeeIDTaken    = newError(ErrConflict, "employee ID already exists")
	ErrEmployeeLinked     = newError(ErrConflict, "user already has an employee profile")
	ErrSlugTaken          = newError(ErrConflict, "slug already exists")
	ErrCompanySettingsSet = newError(ErrConflict, "company settings already exist")
	ErrDuplicateKey       = newError(ErrConflict, "resource already exists")
)

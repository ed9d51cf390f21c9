package domain

import (
	"errors"
	"strings"
)

// ValidationKind identifies which account or task rule a value violated.
type ValidationKind string

const (
	KindNameRequired        ValidationKind = "name_required"
	KindInvalidEmail        ValidationKind = "invalid_email"
	KindDuplicateEmail      ValidationKind = "duplicate_email"
	KindNegativeAge         ValidationKind = "negative_age"
	KindWeakPassword        ValidationKind = "weak_password"
	KindDescriptionRequired ValidationKind = "description_required"
)

// ValidationError is a single rule violation on one field.
type ValidationError struct {
	Field   string
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

var (
	ErrNameRequired        = &ValidationError{Field: "name", Kind: KindNameRequired, Message: "name is required"}
	ErrInvalidEmail        = &ValidationError{Field: "email", Kind: KindInvalidEmail, Message: "invalid email"}
	ErrDuplicateEmail      = &ValidationError{Field: "email", Kind: KindDuplicateEmail, Message: "email is already registered"}
	ErrNegativeAge         = &ValidationError{Field: "age", Kind: KindNegativeAge, Message: "age must be a positive number"}
	ErrWeakPassword        = &ValidationError{Field: "password", Kind: KindWeakPassword, Message: `password must have at least 7 characters and must not contain "password"`}
	ErrDescriptionRequired = &ValidationError{Field: "description", Kind: KindDescriptionRequired, Message: "description is required"}
)

// ValidationErrors collects every violation found by one validation pass.
// errors.Is matches any of the contained violations.
type ValidationErrors struct {
	Violations []*ValidationError
}

// NewValidationErrors returns nil when no violation is given.
func NewValidationErrors(violations ...*ValidationError) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationErrors{Violations: violations}
}

func (e *ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(e.Violations))
	for _, v := range e.Violations {
		errs = append(errs, v)
	}
	return errs
}

// AuthErrorKind separates the two credential failures internally.
type AuthErrorKind string

const (
	AuthNotFound           AuthErrorKind = "not_found"
	AuthInvalidCredentials AuthErrorKind = "invalid_credentials"
)

const loginFailedMessage = "unable to log in"

// AuthError is returned by credential lookups. Both kinds render the same
// message so callers cannot tell an unknown email from a wrong password.
type AuthError struct {
	Kind AuthErrorKind
}

func (e *AuthError) Error() string {
	return loginFailedMessage
}

var (
	ErrUnknownAccount     = &AuthError{Kind: AuthNotFound}
	ErrInvalidCredentials = &AuthError{Kind: AuthInvalidCredentials}
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserNotPersisted  = errors.New("user has not been saved yet")
	ErrUnauthenticated   = errors.New("please authenticate")
	ErrTooManyAttempts   = errors.New("too many failed login attempts, try again later")
	ErrEmptyToken        = errors.New("token must not be empty")
	ErrAvatarNotFound    = errors.New("avatar not found")
	ErrAvatarTooLarge    = errors.New("avatar exceeds the maximum allowed size")
	ErrUnsupportedAvatar = errors.New("avatar must be a png or jpeg image")
)

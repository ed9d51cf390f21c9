package domain

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	MinPasswordLength     = 7
	forbiddenPasswordTerm = "password"
)

var fieldValidator = validator.New()

// User is an account record. Password holds plaintext only between
// assignment and the next successful save; after that it is a bcrypt hash.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	Password  string    `json:"-"`
	Tokens    []string  `json:"-"`
	Avatar    []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	persisted         bool
	persistedPassword string
}

// NewUser builds an unsaved account from caller input.
func NewUser(name, email, password string, age int) *User {
	return &User{
		Name:     name,
		Email:    email,
		Password: password,
		Age:      age,
		Tokens:   []string{},
	}
}

// IsNew reports whether the account has never been written to storage.
func (u *User) IsNew() bool {
	return !u.persisted
}

// PasswordModified reports whether Password differs from the last
// persisted value. A new account always counts as modified.
func (u *User) PasswordModified() bool {
	return !u.persisted || u.Password != u.persistedPassword
}

// MarkPersisted snapshots the stored state. Repositories call it after
// loading a record and the save pipeline calls it after a write.
func (u *User) MarkPersisted() {
	u.persisted = true
	u.persistedPassword = u.Password
}

// Normalize applies the trim and lower-case rules. The password is only
// trimmed while it still holds caller input.
func (u *User) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = NormalizeEmail(u.Email)
	if u.PasswordModified() {
		u.Password = strings.TrimSpace(u.Password)
	}
}

// Validate runs every field rule and returns all violations at once, or nil.
// The password rule applies only to a modified password since a stored hash
// is not caller input.
func (u *User) Validate() error {
	var violations []*ValidationError
	if err := ValidateName(u.Name); err != nil {
		violations = append(violations, err)
	}
	if err := ValidateEmail(u.Email); err != nil {
		violations = append(violations, err)
	}
	if err := ValidateAge(u.Age); err != nil {
		violations = append(violations, err)
	}
	if u.PasswordModified() {
		if err := ValidatePassword(u.Password); err != nil {
			violations = append(violations, err)
		}
	}
	return NewValidationErrors(violations...)
}

// AddToken appends an issued session token.
func (u *User) AddToken(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	u.Tokens = append(u.Tokens, token)
	return nil
}

// RemoveToken drops a single token entry and reports whether it was present.
func (u *User) RemoveToken(token string) bool {
	i := slices.Index(u.Tokens, token)
	if i < 0 {
		return false
	}
	u.Tokens = slices.Delete(u.Tokens, i, i+1)
	return true
}

// HasToken reports whether token was issued to this account and not revoked.
func (u *User) HasToken(token string) bool {
	return slices.Contains(u.Tokens, token)
}

// PublicUser is the only projection of an account that may leave the service.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Public strips password, tokens and avatar.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateName(name string) *ValidationError {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	return nil
}

func ValidateEmail(email string) *ValidationError {
	if err := fieldValidator.Var(email, "required,email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func ValidateAge(age int) *ValidationError {
	if age < 0 {
		return ErrNegativeAge
	}
	return nil
}

func ValidatePassword(password string) *ValidationError {
	password = strings.TrimSpace(password)
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	if strings.Contains(strings.ToLower(password), forbiddenPasswordTerm) {
		return ErrWeakPassword
	}
	return nil
}

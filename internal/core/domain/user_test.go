package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_Normalize(t *testing.T) {
	u := NewUser("  Alice  ", "  X@Y.com ", "  Secur3Key  ", 0)
	u.Normalize()

	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, "x@y.com", u.Email)
	assert.Equal(t, "Secur3Key", u.Password)
}

func TestUser_Normalize_LeavesStoredHashAlone(t *testing.T) {
	u := NewUser("Alice", "a@example.com", " $2a$08$hash ", 0)
	u.MarkPersisted()
	u.Normalize()

	assert.Equal(t, " $2a$08$hash ", u.Password)
}

func TestUser_PasswordModified(t *testing.T) {
	u := NewUser("Alice", "a@example.com", "Secur3Key", 0)
	assert.True(t, u.IsNew())
	assert.True(t, u.PasswordModified())

	u.MarkPersisted()
	assert.False(t, u.IsNew())
	assert.False(t, u.PasswordModified())

	u.Password = "Other4Key"
	assert.True(t, u.PasswordModified())
}

func TestUser_Validate(t *testing.T) {
	cases := []struct {
		name string
		user *User
		want []error
	}{
		{"valid", NewUser("Alice", "a@example.com", "Secur3Key", 0), nil},
		{"missing name", NewUser("", "a@example.com", "Secur3Key", 0), []error{ErrNameRequired}},
		{"bad email", NewUser("Alice", "not-an-email", "Secur3Key", 0), []error{ErrInvalidEmail}},
		{"empty email", NewUser("Alice", "", "Secur3Key", 0), []error{ErrInvalidEmail}},
		{"negative age", NewUser("Alice", "a@example.com", "Secur3Key", -1), []error{ErrNegativeAge}},
		{"short password", NewUser("Alice", "a@example.com", "abc", 0), []error{ErrWeakPassword}},
		{"contains password", NewUser("Alice", "a@example.com", "mypassword1", 0), []error{ErrWeakPassword}},
		{"everything", NewUser("", "x", "PASSWORD", -5), []error{ErrNameRequired, ErrInvalidEmail, ErrNegativeAge, ErrWeakPassword}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.user.Validate()
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			var verrs *ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Len(t, verrs.Violations, len(tc.want))
			for _, want := range tc.want {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestUser_Validate_SkipsPasswordRuleForStoredHash(t *testing.T) {
	u := NewUser("Alice", "a@example.com", "short", 0)
	u.MarkPersisted()

	assert.NoError(t, u.Validate())
}

func TestValidatePassword_CountsCharacters(t *testing.T) {
	assert.Nil(t, ValidatePassword("ñandú42"))
	assert.Equal(t, ErrWeakPassword, ValidatePassword("ñandú4"))
}

func TestUser_Tokens(t *testing.T) {
	u := NewUser("Alice", "a@example.com", "Secur3Key", 0)

	require.ErrorIs(t, u.AddToken(""), ErrEmptyToken)
	require.NoError(t, u.AddToken("t1"))
	require.NoError(t, u.AddToken("t2"))
	require.NoError(t, u.AddToken("t3"))
	assert.Equal(t, []string{"t1", "t2", "t3"}, u.Tokens)

	assert.True(t, u.RemoveToken("t2"))
	assert.False(t, u.RemoveToken("missing"))
	assert.Equal(t, []string{"t1", "t3"}, u.Tokens)
	assert.True(t, u.HasToken("t3"))
	assert.False(t, u.HasToken("t2"))
}

func TestUser_JSONNeverExposesSecrets(t *testing.T) {
	users := []*User{
		{},
		{
			ID:        "u1",
			Name:      "Alice",
			Email:     "a@example.com",
			Age:       30,
			Password:  "$2a$08$abcdefghijklmnopqrstuv",
			Tokens:    []string{"t1", "t2"},
			Avatar:    []byte{0x89, 'P', 'N', 'G'},
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}

	for _, u := range users {
		for _, v := range []any{u, u.Public()} {
			raw, err := json.Marshal(v)
			require.NoError(t, err)

			var fields map[string]any
			require.NoError(t, json.Unmarshal(raw, &fields))
			for _, key := range []string{"password", "tokens", "avatar"} {
				assert.NotContains(t, fields, key)
			}
		}
	}
}

func TestUser_Public(t *testing.T) {
	u := &User{ID: "u1", Name: "Alice", Email: "a@example.com", Age: 3, Password: "h"}
	p := u.Public()

	assert.Equal(t, PublicUser{ID: "u1", Name: "Alice", Email: "a@example.com", Age: 3}, p)
}

func TestAuthErrors_ShareMessage(t *testing.T) {
	assert.Equal(t, ErrUnknownAccount.Error(), ErrInvalidCredentials.Error())
	assert.False(t, errors.Is(ErrUnknownAccount, ErrInvalidCredentials))

	var authErr *AuthError
	require.ErrorAs(t, ErrInvalidCredentials, &authErr)
	assert.Equal(t, AuthInvalidCredentials, authErr.Kind)
}

func TestNewValidationErrors_NilWhenEmpty(t *testing.T) {
	assert.NoError(t, NewValidationErrors())
}

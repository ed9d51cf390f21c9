package ports

// PasswordHasher is a one-way salted password scheme.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hashed string) bool
}

// TokenSigner mints and verifies session tokens that carry an account ID.
type TokenSigner interface {
	Sign(userID string) (string, error)
	// Parse verifies the signature and returns the account ID it carries.
	Parse(token string) (string, error)
}

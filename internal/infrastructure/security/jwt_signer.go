package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMissingSecret = errors.New("jwt signing secret is not configured")
	ErrMissingUserID = errors.New("token does not carry an account id")
)

// Claims is the token payload. The account ID travels as "_id"; the
// registered "jti" makes every issued token distinct.
type Claims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

// JWTSigner implements ports.TokenSigner with HS256.
type JWTSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTSigner fails when secret is empty. A zero ttl issues tokens without expiry.
func NewJWTSigner(secret string, ttl time.Duration) (*JWTSigner, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &JWTSigner{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (s *JWTSigner) Sign(userID string) (string, error) {
	if userID == "" {
		return "", ErrMissingUserID
	}

	now := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

func (s *JWTSigner) Parse(token string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return "", jwt.ErrTokenSignatureInvalid
	}
	if claims.UserID == "" {
		return "", ErrMissingUserID
	}
	return claims.UserID, nil
}

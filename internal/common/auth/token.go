// Package auth resolves the bearer credential issued by the identity provider into an owner id.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrMissingToken is returned when no bearer token was presented
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidToken is returned when a token is malformed, expired or badly signed
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the authenticated caller resolved from a token
type Identity struct {
	UserID uuid.UUID
	Email  string
	Phone  string
}

// Claims mirrors the access-token claims the identity provider issues
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
}

// TokenVerifier validates access tokens and extracts the caller identity
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}

// hmacVerifier checks HS256 tokens signed with the provider's shared JWT secret
type hmacVerifier struct {
	secret   []byte
	audience string
	issuer   string
}

// NewHMACVerifier returns a TokenVerifier for HS256 tokens. Empty audience or issuer
// disables that claim check.
func NewHMACVerifier(secret, audience, issuer string) TokenVerifier {
	return &hmacVerifier{
		secret:   []byte(secret),
		audience: audience,
		issuer:   issuer,
	}
}

// Verify parses and validates the token and returns the subject as the caller identity
func (v *hmacVerifier) Verify(token string) (*Identity, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}

	return &Identity{
		UserID: userID,
		Email:  claims.Email,
		Phone:  claims.Phone,
	}, nil
}

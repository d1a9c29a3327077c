// Package auth issues and verifies the access/refresh token pair.
//
// The server keeps no record of issued tokens: possession of a validly signed
// token is sufficient, and a rotated-away refresh token stays usable until its
// own expiry. Known limitation, carried deliberately.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoToken means no credential was presented (HTTP 401).
	ErrNoToken = errors.New("no token presented")
	// ErrInvalidToken means a credential was presented but failed
	// verification or expired (HTTP 403).
	ErrInvalidToken = errors.New("invalid or expired token")
)

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs access tokens and refresh tokens with two independent
// secrets, so neither kind verifies against the other's key.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// Issue signs a fresh access/refresh pair for the given identity.
func (s *TokenService) Issue(email string) (access, refresh string, err error) {
	access, err = sign(email, s.accessSecret, s.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = sign(email, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// VerifyAccess returns the identity carried by a valid access token.
func (s *TokenService) VerifyAccess(token string) (string, error) {
	return verify(token, s.accessSecret)
}

// Rotate verifies a refresh token against the refresh secret and, on success,
// issues a brand-new pair. The old refresh token is not invalidated.
func (s *TokenService) Rotate(refreshToken string) (access, refresh string, err error) {
	email, err := verify(refreshToken, s.refreshSecret)
	if err != nil {
		return "", "", err
	}
	return s.Issue(email)
}

func sign(email string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Audience:  []string{"inspections-api"},
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func verify(tokenString string, secret []byte) (string, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || claims.Email == "" {
		return "", ErrInvalidToken
	}
	return claims.Email, nil
}

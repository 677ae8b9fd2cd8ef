package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hongminglow/auth-smoke/internal/models"
)

// ErrInvalidToken is returned when a token is malformed, expired or badly signed.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by every issued token.
type Claims struct {
	ID          int64  `json:"id"`
	Nick        string `json:"nick"`
	Email       string `json:"email,omitempty"`
	Gang        string `json:"gang"`
	IsAnonymous bool   `json:"isAnonymous"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies signed JWTs for players.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a manager with the provided secret, issuer, and lifetime.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Generate issues a signed JWT string for the provided player using the default lifetime.
func (t *TokenManager) Generate(user models.User) (string, error) {
	return t.GenerateWithTTL(user, t.ttl)
}

// GenerateWithTTL issues a token that expires after ttl.
func (t *TokenManager) GenerateWithTTL(user models.User, ttl time.Duration) (string, error) {
	now := t.now()
	claims := Claims{
		ID:          user.ID,
		Nick:        user.Nick,
		Email:       user.Email,
		Gang:        user.Gang,
		IsAnonymous: user.IsAnonymous,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks signature, issuer and expiry and returns the claims.
func (t *TokenManager) Verify(tokenStr string) (Claims, error) {
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithTimeFunc(t.now),
	)
	_, err := parser.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// Inspect decodes the claims without checking the signature. The smoke driver
// uses it to show what a token it did not sign is about.
func Inspect(tokenStr string) (Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

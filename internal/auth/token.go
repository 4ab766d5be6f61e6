// Package auth issues and verifies the HS256 tokens used by shoppers and the
// store admin.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

var (
	ErrMissingSecret = errors.New("token signing secret is not configured")
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrNotUserToken  = errors.New("token does not identify a user")
)

type UserClaims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

type AdminClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *TokenManager) Configured() bool {
	return len(m.secret) > 0
}

func (m *TokenManager) registered() jwt.RegisteredClaims {
	now := m.now()
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
}

func (m *TokenManager) sign(claims jwt.Claims) (string, error) {
	if !m.Configured() {
		return "", ErrMissingSecret
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

func (m *TokenManager) IssueUser(userID string) (string, error) {
	return m.sign(UserClaims{ID: userID, RegisteredClaims: m.registered()})
}

func (m *TokenManager) IssueAdmin(email string) (string, error) {
	return m.sign(AdminClaims{Email: email, Role: RoleAdmin, RegisteredClaims: m.registered()})
}

func (m *TokenManager) parse(token string, claims jwt.Claims) error {
	if !m.Configured() {
		return ErrMissingSecret
	}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}

// ParseUser returns the claims of a shopper token. Admin tokens carry no id
// and are rejected.
func (m *TokenManager) ParseUser(token string) (*UserClaims, error) {
	var claims UserClaims
	if err := m.parse(token, &claims); err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, ErrNotUserToken
	}
	return &claims, nil
}

func (m *TokenManager) ParseAdmin(token string) (*AdminClaims, error) {
	var claims AdminClaims
	if err := m.parse(token, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

// ExtractToken reads the credential from "Authorization: Bearer <t>", a bare
// Authorization value, or the "token" header, in that order.
func ExtractToken(authorization, tokenHeader string) string {
	authorization = strings.TrimSpace(authorization)
	if authorization != "" {
		if len(authorization) > 7 && strings.EqualFold(authorization[:7], "bearer ") {
			return strings.TrimSpace(authorization[7:])
		}
		return authorization
	}
	return strings.TrimSpace(tokenHeader)
}

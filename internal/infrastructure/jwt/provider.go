package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/social-feed-api/internal/config"
	"github.com/social-feed-api/internal/domain"
)

// Token uses. A refresh token presented where an access token is expected
// (or vice versa) verifies cryptographically but is rejected by the gate.
const (
	UseAccess  = "access"
	UseRefresh = "refresh"
)

// Claims holds the JWT payload fields.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
	TokenUse string `json:"token_use"` // "access" | "refresh"
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs for both token kinds.
type Provider struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	if cfg.AccessTokenTTL >= cfg.RefreshTokenTTL {
		return nil, fmt.Errorf("access token TTL (%s) must be shorter than refresh token TTL (%s)",
			cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	}
	return &Provider{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}, nil
}

// SignAccess issues a short-lived access token for u.
func (p *Provider) SignAccess(u *domain.User) (string, error) {
	return p.sign(u, UseAccess, p.accessTTL)
}

// SignRefresh issues a refresh token for u. Refresh tokens are only ever
// exchanged for new access tokens; they are never renewed themselves.
func (p *Provider) SignRefresh(u *domain.User) (string, error) {
	return p.sign(u, UseRefresh, p.refreshTTL)
}

// Renew issues a fresh access token from verified refresh claims. It is a
// pure function of the claims, so concurrent renewals from the same
// refresh token are idempotent in effect.
func (p *Provider) Renew(c *Claims) (string, error) {
	return p.sign(&domain.User{
		UserID:   c.UserID,
		Username: c.Username,
		Email:    c.Email,
		IsAdmin:  c.IsAdmin,
	}, UseAccess, p.accessTTL)
}

func (p *Provider) sign(u *domain.User, use string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   u.UserID,
		Username: u.Username,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify checks signature and expiry. It returns (nil, err) for any
// invalid or expired token and never panics; callers branch on the error
// instead of exception-driven control flow.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

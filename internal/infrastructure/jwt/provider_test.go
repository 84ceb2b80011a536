package jwtinfra

import (
	"testing"
	"time"

	"github.com/social-feed-api/internal/config"
	"github.com/social-feed-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := NewProvider(&config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return p
}

func testUser() *domain.User {
	return &domain.User{
		UserID:   "u1",
		Username: "alice",
		Email:    "alice@example.com",
		IsAdmin:  true,
	}
}

func TestNewProvider_MissingSecret(t *testing.T) {
	_, err := NewProvider(&config.Config{
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
	assert.Error(t, err)
}

func TestNewProvider_AccessTTLMustBeShorter(t *testing.T) {
	_, err := NewProvider(&config.Config{
		JWTSecret:       "s",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: time.Hour,
	})
	assert.Error(t, err)
}

func TestSignAccess_RoundTrip(t *testing.T) {
	p := newTestProvider(t)

	tok, err := p.SignAccess(testUser())
	require.NoError(t, err)

	claims, err := p.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, UseAccess, claims.TokenUse)
}

func TestSignRefresh_CarriesUseAndLongerExpiry(t *testing.T) {
	p := newTestProvider(t)

	access, err := p.SignAccess(testUser())
	require.NoError(t, err)
	refresh, err := p.SignRefresh(testUser())
	require.NoError(t, err)

	ac, err := p.Verify(access)
	require.NoError(t, err)
	rc, err := p.Verify(refresh)
	require.NoError(t, err)

	assert.Equal(t, UseRefresh, rc.TokenUse)
	assert.True(t, rc.ExpiresAt.After(ac.ExpiresAt.Time))
}

func TestVerify_ExpiredToken(t *testing.T) {
	p := newTestProvider(t)
	p.accessTTL = -time.Minute // issue already-expired

	tok, err := p.SignAccess(testUser())
	require.NoError(t, err)

	_, err = p.Verify(tok)
	assert.Error(t, err)
}

func TestVerify_WrongSecret(t *testing.T) {
	p := newTestProvider(t)
	other, err := NewProvider(&config.Config{
		JWTSecret:       "a-different-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	tok, err := other.SignAccess(testUser())
	require.NoError(t, err)

	_, err = p.Verify(tok)
	assert.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	p := newTestProvider(t)
	_, err := p.Verify("not.a.jwt")
	assert.Error(t, err)
}

func TestRenew_PreservesIdentity(t *testing.T) {
	p := newTestProvider(t)

	refresh, err := p.SignRefresh(testUser())
	require.NoError(t, err)
	rc, err := p.Verify(refresh)
	require.NoError(t, err)

	access, err := p.Renew(rc)
	require.NoError(t, err)
	ac, err := p.Verify(access)
	require.NoError(t, err)

	assert.Equal(t, UseAccess, ac.TokenUse)
	assert.Equal(t, rc.UserID, ac.UserID)
	assert.Equal(t, rc.IsAdmin, ac.IsAdmin)
}

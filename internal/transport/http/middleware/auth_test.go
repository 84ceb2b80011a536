package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/social-feed-api/internal/config"
	"github.com/social-feed-api/internal/domain"
	jwtinfra "github.com/social-feed-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	p, err := jwtinfra.NewProvider(&config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return p
}

// expiredAccessProvider issues access tokens that are already expired but
// refresh tokens that are still valid, using the same secret as p.
func expiredAccessProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	p, err := jwtinfra.NewProvider(&config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  -time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return p
}

func regularUser() *domain.User {
	return &domain.User{UserID: "u1", Username: "alice", Email: "alice@example.com"}
}

func adminUser() *domain.User {
	return &domain.User{UserID: "a1", Username: "root", Email: "root@example.com", IsAdmin: true}
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func serve(t *testing.T, mw func(http.Handler) http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	mw(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	return rr
}

func TestAuth_NoCredentials(t *testing.T) {
	p := newTestProvider(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := serve(t, Auth(p), req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_ValidAccessToken(t *testing.T) {
	p := newTestProvider(t)
	access, err := p.SignAccess(regularUser())
	require.NoError(t, err)

	var gotClaims *jwtinfra.Claims
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rr := httptest.NewRecorder()
	Auth(p)(capture).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "u1", gotClaims.UserID)
	// No renewal happened: no tokens on the response.
	assert.Empty(t, rr.Header().Get("Authorization"))
	assert.Empty(t, rr.Result().Cookies())
}

func TestAuth_ExpiredAccess_NoRefresh(t *testing.T) {
	p := newTestProvider(t)
	expired, err := expiredAccessProvider(t).SignAccess(regularUser())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rr := serve(t, Auth(p), req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_ExpiredAccess_ValidRefresh_RenewsTransparently(t *testing.T) {
	p := newTestProvider(t)
	issuer := expiredAccessProvider(t)
	expired, err := issuer.SignAccess(regularUser())
	require.NoError(t, err)
	refresh, err := issuer.SignRefresh(regularUser())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: refresh})
	rr := serve(t, Auth(p), req)

	assert.Equal(t, http.StatusOK, rr.Code)

	// A fresh access token is returned...
	newAccess := strings.TrimPrefix(rr.Header().Get("Authorization"), "Bearer ")
	require.NotEmpty(t, newAccess)
	assert.NotEqual(t, expired, newAccess)
	claims, err := p.Verify(newAccess)
	require.NoError(t, err)
	assert.Equal(t, jwtinfra.UseAccess, claims.TokenUse)
	assert.Equal(t, "u1", claims.UserID)

	// ...and the refresh token comes back unchanged.
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, RefreshCookieName, cookies[0].Name)
	assert.Equal(t, refresh, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
}

func TestAuth_MissingAccess_ValidRefresh_Renews(t *testing.T) {
	p := newTestProvider(t)
	refresh, err := p.SignRefresh(regularUser())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: refresh})
	rr := serve(t, Auth(p), req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Authorization"))
}

func TestAuth_ExpiredAccess_InvalidRefresh(t *testing.T) {
	p := newTestProvider(t)
	expired, err := expiredAccessProvider(t).SignAccess(regularUser())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "garbage"})
	rr := serve(t, Auth(p), req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAuth_AccessTokenInCookieSlot_Rejected(t *testing.T) {
	// An access token stuffed into the refresh cookie must not renew.
	p := newTestProvider(t)
	access, err := p.SignAccess(regularUser())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: access})
	rr := serve(t, Auth(p), req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAuth_RefreshTokenInHeaderSlot_Rejected(t *testing.T) {
	// A refresh token presented as a bearer access token is not accepted
	// directly; with no cookie present the request is unauthorized.
	p := newTestProvider(t)
	refresh, err := p.SignRefresh(regularUser())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rr := serve(t, Auth(p), req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthAdmin_AdminAccessToken(t *testing.T) {
	p := newTestProvider(t)
	access, err := p.SignAccess(adminUser())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rr := serve(t, AuthAdmin(p), req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthAdmin_NonAdminAccessToken(t *testing.T) {
	p := newTestProvider(t)
	access, err := p.SignAccess(regularUser())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rr := serve(t, AuthAdmin(p), req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAuthAdmin_NonAdminRefresh_NeverMintsForAdminGate(t *testing.T) {
	p := newTestProvider(t)
	refresh, err := p.SignRefresh(regularUser())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: refresh})
	rr := serve(t, AuthAdmin(p), req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	// No token may be minted on the rejected path.
	assert.Empty(t, rr.Header().Get("Authorization"))
	assert.Empty(t, rr.Result().Cookies())
}

func TestAuthAdmin_AdminRefresh_Renews(t *testing.T) {
	p := newTestProvider(t)
	refresh, err := p.SignRefresh(adminUser())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: refresh})
	rr := serve(t, AuthAdmin(p), req)

	assert.Equal(t, http.StatusOK, rr.Code)
	newAccess := strings.TrimPrefix(rr.Header().Get("Authorization"), "Bearer ")
	claims, err := p.Verify(newAccess)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestAuth_RenewalIsIdempotent(t *testing.T) {
	// Two requests carrying the same refresh token both succeed; renewal
	// derives the new access token purely from the refresh claims.
	p := newTestProvider(t)
	refresh, err := p.SignRefresh(regularUser())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: refresh})
		rr := serve(t, Auth(p), req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, refresh, rr.Result().Cookies()[0].Value)
	}
}

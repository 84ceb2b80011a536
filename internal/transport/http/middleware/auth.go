package middleware

import (
	"context"
	"net/http"
	"strings"

	jwtinfra "github.com/social-feed-api/internal/infrastructure/jwt"
)

type contextKey string

const ClaimsKey contextKey = "claims"

// RefreshCookieName is the HTTP-only cookie carrying the refresh token.
const RefreshCookieName = "refreshToken"

// Auth returns the user gate: it authorizes any request carrying a valid
// access token, or transparently renews an expired/missing access token
// from a valid refresh token. The renewed access token is returned in the
// response Authorization header; the refresh token is re-set unchanged
// (it is never re-minted here).
func Auth(provider *jwtinfra.Provider) func(http.Handler) http.Handler {
	return gate(provider, false)
}

// AuthAdmin returns the admin gate. It additionally requires the is_admin
// claim on both the access path and the renewal path — a non-admin
// refresh token never mints an access token that passes this gate.
func AuthAdmin(provider *jwtinfra.Provider) func(http.Handler) http.Handler {
	return gate(provider, true)
}

func gate(provider *jwtinfra.Provider, adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The gate is evaluated fresh per request; there is no
			// server-side session state behind it.
			if claims, ok := verifyAccess(provider, r); ok {
				if adminOnly && !claims.IsAdmin {
					writeJSONError(w, http.StatusForbidden, "admin access required")
					return
				}
				next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
				return
			}

			cookie, err := r.Cookie(RefreshCookieName)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid credentials")
				return
			}
			claims, err := provider.Verify(cookie.Value)
			if err != nil || claims.TokenUse != jwtinfra.UseRefresh {
				writeJSONError(w, http.StatusBadRequest, "invalid refresh token")
				return
			}
			if adminOnly && !claims.IsAdmin {
				writeJSONError(w, http.StatusForbidden, "admin access required")
				return
			}

			access, err := provider.Renew(claims)
			if err != nil {
				writeJSONError(w, http.StatusInternalServerError, "could not renew access token")
				return
			}
			w.Header().Set("Authorization", "Bearer "+access)
			// Re-attach the original refresh token; only the access token
			// is re-issued on renewal.
			SetRefreshCookie(w, cookie.Value)

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

func verifyAccess(provider *jwtinfra.Provider, r *http.Request) (*jwtinfra.Claims, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, false
	}
	claims, err := provider.Verify(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil || claims.TokenUse != jwtinfra.UseAccess {
		return nil, false
	}
	return claims, true
}

// SetRefreshCookie writes the refresh token cookie with the hardened
// attributes shared by login verification and transparent renewal.
func SetRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func withClaims(ctx context.Context, claims *jwtinfra.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// ClaimsFromContext extracts JWT claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*jwtinfra.Claims)
	return c, ok
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/social-feed-api/internal/application/auth"
	"github.com/social-feed-api/internal/domain"
	"github.com/social-feed-api/internal/pkg/validate"
	"github.com/social-feed-api/internal/transport/http/middleware"
)

// AuthHandler handles registration, the two-step login flow and the
// password-reset flow.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler { return &AuthHandler{svc: svc} }

type loginRequest struct {
	// Username also accepts the account email.
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type verifyLoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Otp   string `json:"otp" validate:"required,len=6"`
}

type verifyResetRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Otp         string `json:"otp" validate:"required,len=6"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	u, err := h.svc.Register(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, AuthEnvelope{User: u})
}

// Login is step one: credentials in, OTP out-of-band. A soft false from
// the service maps to a 400 "login unsuccessful"; hard failures map via
// httpError.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	ok, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		httpError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "login unsuccessful")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "verification code sent"})
}

// VerifyLogin is step two: OTP in, token pair out. The access token goes
// out in the Authorization header, the refresh token in an HTTP-only
// cookie.
func (h *AuthHandler) VerifyLogin(w http.ResponseWriter, r *http.Request) {
	var req verifyLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	res, err := h.svc.VerifyLogin(r.Context(), req.Email, req.Otp)
	if err != nil {
		httpError(w, err)
		return
	}
	w.Header().Set("Authorization", "Bearer "+res.AccessToken)
	middleware.SetRefreshCookie(w, res.RefreshToken)
	writeJSON(w, http.StatusOK, AuthEnvelope{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         res.User,
	})
}

// RequestPasswordReset is only reachable behind the user gate; the reset
// OTP goes to the authenticated caller's own email.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	sent, err := h.svc.RequestPasswordReset(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	if !sent {
		writeError(w, http.StatusBadRequest, "request unsuccessful")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "reset code sent"})
}

func (h *AuthHandler) VerifyPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req verifyResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	ok, err := h.svc.VerifyPasswordReset(r.Context(), req.Email, req.Otp, req.NewPassword)
	if err != nil {
		httpError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "reset unsuccessful")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "password updated"})
}

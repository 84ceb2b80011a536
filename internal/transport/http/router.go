package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/social-feed-api/internal/application/auth"
	"github.com/social-feed-api/internal/application/user"
	"github.com/social-feed-api/internal/config"
	"github.com/social-feed-api/internal/transport/http/handler"
	appmiddleware "github.com/social-feed-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:  deps.UserRepo,
		OtpRepo:   deps.OtpRepo,
		Mailer:    deps.Mailer,
		SMSSender: deps.SMSSender,
		Tokens:    deps.JWTProvider,
	})
	userSvc := user.NewService(deps.UserRepo)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	userH := handler.NewUserHandler(userSvc)

	userGate := appmiddleware.Auth(deps.JWTProvider)
	adminGate := appmiddleware.AuthAdmin(deps.JWTProvider)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/users", authH.Register)
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/login/verify", authH.VerifyLogin)
		r.Post("/auth/password-reset/verify", authH.VerifyPasswordReset)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(userGate)

			r.Get("/users/me", userH.Me)
			r.Get("/users/{id}", userH.Get)
			r.Post("/auth/password-reset/request", authH.RequestPasswordReset)
		})

		// ── Admin-only routes ────────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(adminGate)

			r.Get("/users", userH.List)
		})
	})

	return r
}

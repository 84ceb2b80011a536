package http

import (
	"github.com/social-feed-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/social-feed-api/internal/infrastructure/jwt"
	"github.com/social-feed-api/internal/infrastructure/smtp"
	"github.com/social-feed-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	OtpRepo     *dynamo.OtpRepo
	Mailer      smtp.Mailer
	SMSSender   sns.SMSSender
	JWTProvider *jwtinfra.Provider
}

package http

import (
	"github.com/otp-login/internal/application/otp"
	jwtinfra "github.com/otp-login/internal/infrastructure/jwt"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	Store  otp.Store
	Mailer otp.Mailer
	// JWTProvider is optional; without it verify returns no token and /api/session is not mounted.
	JWTProvider *jwtinfra.Provider
}

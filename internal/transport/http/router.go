package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/otp-login/internal/application/otp"
	"github.com/otp-login/internal/config"
	"github.com/otp-login/internal/transport/http/handler"
	appmiddleware "github.com/otp-login/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	otpSvc := otp.NewService(otp.ServiceDeps{
		Store:       deps.Store,
		Mailer:      deps.Mailer,
		From:        cfg.MailFrom,
		SendTimeout: cfg.MailSendTimeout,
	})

	// A nil *Provider must not become a non-nil TokenSigner.
	var signer handler.TokenSigner
	if deps.JWTProvider != nil {
		signer = deps.JWTProvider
	}

	healthH := handler.NewHealthHandler()
	otpH := handler.NewOTPHandler(otpSvc, signer)

	r.Get("/health", healthH.Ping)
	r.Route("/api", func(r chi.Router) {
		r.Post("/send-otp", otpH.Send)
		r.Post("/verify-otp", otpH.Verify)

		if deps.JWTProvider != nil {
			sessionH := handler.NewSessionHandler()
			r.With(appmiddleware.Auth(deps.JWTProvider)).Get("/session", sessionH.GetCurrent)
		}
	})

	return r
}

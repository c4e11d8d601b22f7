package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/otp-login/internal/application/otp"
	"github.com/otp-login/internal/config"
	"github.com/otp-login/internal/infrastructure/dynamo"
	jwtinfra "github.com/otp-login/internal/infrastructure/jwt"
	"github.com/otp-login/internal/infrastructure/memory"
	"github.com/otp-login/internal/infrastructure/postgres"
	"github.com/otp-login/internal/infrastructure/redis"
	"github.com/otp-login/internal/infrastructure/resend"
	"github.com/otp-login/internal/infrastructure/smtp"
	transporthttp "github.com/otp-login/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	ctx := context.Background()

	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatalf("otp store (%s): %v", cfg.OTPStore, err)
	}
	defer closeStore()

	mailer, err := newMailer(cfg)
	if err != nil {
		log.Fatalf("mailer: %v", err)
	}

	// JWT provider is optional; without keys verify just returns a message.
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		Store:       store,
		Mailer:      mailer,
		JWTProvider: jwtProvider,
	})

	// WriteTimeout leaves room for a slow mail relay on send-otp.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.MailSendTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, store=%s, mail=%s)", cfg.AppPort, cfg.AppEnv, cfg.OTPStore, cfg.MailProvider)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
		return
	}
	log.Println("Server stopped")
}

// newStore picks the code store named by OTP_STORE. The returned func
// releases its connection.
func newStore(ctx context.Context, cfg *config.Config) (otp.Store, func(), error) {
	switch cfg.OTPStore {
	case "", "memory":
		return memory.NewCodeStore(), func() {}, nil
	case "redis":
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return redis.NewCodeStore(client), func() { _ = client.Close() }, nil
	case "dynamo":
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
		return dynamo.NewCodeRepo(client, cfg.DynamoTables.OTPCodes), func() {}, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewCodeStore(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.OTPStore)
	}
}

func newMailer(cfg *config.Config) (otp.Mailer, error) {
	switch cfg.MailProvider {
	case "", "smtp":
		return smtp.NewMailer(cfg), nil
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("RESEND_API_KEY is required for the resend provider")
		}
		return resend.NewMailer(cfg.ResendAPIKey, cfg.MailFrom), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.MailProvider)
	}
}

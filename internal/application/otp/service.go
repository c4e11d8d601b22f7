package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"time"

	"github.com/otp-login/internal/domain"
)

// Codes are drawn uniformly from [codeMin, codeMax). 9999 is never issued.
const (
	codeMin = 1000
	codeMax = 9999

	mailSubject = "Your OTP Code"
)

// Store holds at most one pending code per email. Keys are used verbatim.
type Store interface {
	Get(ctx context.Context, email string) (string, error)
	Set(ctx context.Context, email, code string) error
	Delete(ctx context.Context, email string) error
	// Consume deletes the entry only if it holds code, reporting whether it did.
	Consume(ctx context.Context, email, code string) (bool, error)
}

// Mailer delivers a single email.
type Mailer interface {
	Send(ctx context.Context, msg domain.EmailMessage) error
}

type Service interface {
	Generate(ctx context.Context, email string) (string, error)
	Send(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code string) error
}

// ServiceDeps groups the collaborators of the OTP service.
type ServiceDeps struct {
	Store       Store
	Mailer      Mailer
	From        string
	SendTimeout time.Duration // zero means no deadline beyond the caller's
}

type service struct {
	store       Store
	mailer      Mailer
	from        string
	sendTimeout time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		store:       deps.Store,
		mailer:      deps.Mailer,
		from:        deps.From,
		sendTimeout: deps.SendTimeout,
	}
}

// Generate stores a fresh code for email, replacing any unconsumed one.
func (s *service) Generate(ctx context.Context, email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	code := strconv.FormatInt(n.Int64()+codeMin, 10)
	if err := s.store.Set(ctx, email, code); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	return code, nil
}

// Send generates a code and mails it. A failed delivery leaves the code stored.
func (s *service) Send(ctx context.Context, email string) error {
	code, err := s.Generate(ctx, email)
	if err != nil {
		return err
	}

	if s.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.sendTimeout)
		defer cancel()
	}
	msg := domain.EmailMessage{
		From:    s.from,
		To:      email,
		Subject: mailSubject,
		Text:    "Your OTP code is " + code,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		slog.Error("failed to send otp email", "email", email, "err", err)
		return fmt.Errorf("send otp: %w", domain.ErrDelivery)
	}
	return nil
}

// Verify consumes the pending code for email when it equals code exactly.
// A mismatch leaves the pending code in place so a corrected retry still works.
func (s *service) Verify(ctx context.Context, email, code string) error {
	ok, err := s.store.Consume(ctx, email, code)
	if err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	if !ok {
		return fmt.Errorf("verify otp: %w", domain.ErrInvalidOTP)
	}
	return nil
}

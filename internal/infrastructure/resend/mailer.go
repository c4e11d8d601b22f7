package resend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/otp-login/internal/domain"
)

// emailSender is the part of the Resend SDK the mailer calls.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Mailer delivers email through the Resend HTTP API.
type Mailer struct {
	emails emailSender
	from   string
}

func NewMailer(apiKey, from string) *Mailer {
	return &Mailer{emails: resend.NewClient(apiKey).Emails, from: from}
}

func (m *Mailer) Send(ctx context.Context, msg domain.EmailMessage) error {
	from := msg.From
	if from == "" {
		from = m.from
	}
	resp, err := m.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	slog.Debug("resend accepted email", "id", resp.Id)
	return nil
}

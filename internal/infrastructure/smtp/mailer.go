package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/otp-login/internal/config"
	"github.com/otp-login/internal/domain"
	"github.com/otp-login/internal/pkg/id"
)

const dialTimeout = 10 * time.Second

// Mailer sends plain-text emails through an SMTP relay.
type Mailer struct {
	host     string
	port     string
	from     string
	username string
	password string
	// insecureSkipVerify disables relay certificate checks. Only set from explicit config.
	insecureSkipVerify bool
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:               cfg.SMTPHost,
		port:               cfg.SMTPPort,
		from:               cfg.MailFrom,
		username:           cfg.SMTPUsername,
		password:           cfg.SMTPPassword,
		insecureSkipVerify: cfg.SMTPInsecureSkipVerify,
	}
}

func (m *Mailer) Send(ctx context.Context, msg domain.EmailMessage) error {
	from := msg.From
	if from == "" {
		from = m.from
	}
	if from == "" {
		return fmt.Errorf("smtp: no sender configured")
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(m.host, m.port))
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer func() {
		if err := c.Quit(); err != nil {
			slog.Debug("smtp quit", "err", err)
		}
	}()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{
			ServerName:         m.host,
			InsecureSkipVerify: m.insecureSkipVerify, //nolint:gosec // opt-in via SMTP_INSECURE_SKIP_VERIFY
		}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	if m.username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", m.username, m.password, m.host)); err != nil {
				return fmt.Errorf("smtp auth: %w", err)
			}
		}
	}

	if err := c.Mail(from); err != nil {
		return err
	}
	if err := c.Rcpt(msg.To); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(buildMessage(from, msg, m.host)); err != nil {
		return err
	}
	return w.Close()
}

func buildMessage(from string, msg domain.EmailMessage, host string) []byte {
	headers := []string{
		"From: " + from,
		"To: " + msg.To,
		"Subject: " + msg.Subject,
		fmt.Sprintf("Message-ID: <%s@%s>", id.New(), host),
		"Date: " + time.Now().UTC().Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
	}
	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + msg.Text)
}

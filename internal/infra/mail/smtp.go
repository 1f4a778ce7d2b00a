// internal/infra/mail/smtp.go
package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"event_reminder_mailer/internal/domain/template"
)

// SMTPConfig holds the connection settings for the SMTP dispatcher.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPDispatcher implements the Dispatcher interface over a plain SMTP
// connection. PLAIN auth is used when a password is configured.
type SMTPDispatcher struct {
	cfg SMTPConfig
}

func NewSMTPDispatcher(cfg SMTPConfig) *SMTPDispatcher {
	return &SMTPDispatcher{cfg: cfg}
}

// Deliver hands the rendered message to the configured SMTP server.
func (d *SMTPDispatcher) Deliver(_ context.Context, msg *template.Message) error {
	addr := fmt.Sprintf("%s:%d", d.cfg.Host, d.cfg.Port)

	var auth smtp.Auth
	if d.cfg.Password != "" {
		user := d.cfg.Username
		if user == "" {
			user = msg.EnvelopeFrom()
		}
		auth = smtp.PlainAuth("", user, d.cfg.Password, d.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, msg.EnvelopeFrom(), msg.EnvelopeTo(), []byte(msg.Text())); err != nil {
		return fmt.Errorf("smtp delivery via %s failed: %w", addr, err)
	}
	return nil
}

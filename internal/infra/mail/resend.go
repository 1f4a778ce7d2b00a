// internal/infra/mail/resend.go
package mail

import (
	"context"
	"fmt"

	"event_reminder_mailer/internal/domain/template"

	"github.com/resend/resend-go/v2"
)

// ResendDispatcher implements the Dispatcher interface using the Resend
// HTTP API instead of a local SMTP server.
type ResendDispatcher struct {
	client *resend.Client
}

func NewResendDispatcher(apiKey string) *ResendDispatcher {
	return &ResendDispatcher{client: resend.NewClient(apiKey)}
}

// Deliver maps the rendered message onto a Resend send request.
func (d *ResendDispatcher) Deliver(ctx context.Context, msg *template.Message) error {
	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Body,
		Headers: map[string]string{"X-Mailer": template.XMailer},
	}
	if msg.ReplyTo != "" {
		params.ReplyTo = msg.ReplyTo
	}

	if _, err := d.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend delivery failed: %w", err)
	}
	return nil
}

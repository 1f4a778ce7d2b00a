package mail

import (
	"context"

	"event_reminder_mailer/internal/domain/template"
)

// Dispatcher defines an interface for handing a rendered reminder to a
// mail transport. This keeps the application logic decoupled from the
// specific delivery mechanism (SMTP, HTTP API, or plain stdout preview).
// Implementations never retry; a failure is reported once per attempt.
type Dispatcher interface {
	Deliver(ctx context.Context, msg *template.Message) error
}

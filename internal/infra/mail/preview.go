// internal/infra/mail/preview.go
package mail

import (
	"context"
	"fmt"
	"io"

	"event_reminder_mailer/internal/domain/template"
)

// PreviewDispatcher implements the Dispatcher interface without touching
// any transport: the full message text is written to the given writer,
// normally stdout. Used for dry runs and local development.
type PreviewDispatcher struct {
	out io.Writer
}

func NewPreviewDispatcher(out io.Writer) *PreviewDispatcher {
	return &PreviewDispatcher{out: out}
}

// Deliver prints the message instead of sending it.
func (d *PreviewDispatcher) Deliver(_ context.Context, msg *template.Message) error {
	if _, err := fmt.Fprintf(d.out, "%s\n", msg.Text()); err != nil {
		return fmt.Errorf("cannot write preview: %w", err)
	}
	return nil
}

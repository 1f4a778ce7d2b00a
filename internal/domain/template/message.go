package template

import (
	"fmt"
	"net/mail"
	"strings"
)

// XMailer is the fixed extra header stamped onto every rendered message
// so recipients can tell which tool generated it.
const XMailer = "event_reminder_mailer"

// Message is a fully validated, ready-to-send reminder mail. From holds
// exactly one address and To at least one, enforced by Render.
type Message struct {
	From    string
	To      []string
	Subject string
	ReplyTo string // optional
	Body    string
}

// Text assembles the complete transport representation: header block,
// blank separator line, body. Lines use CRLF as SMTP expects.
func (m *Message) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(m.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	if m.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", m.ReplyTo)
	}
	fmt.Fprintf(&b, "X-Mailer: %s\r\n", XMailer)
	b.WriteString("\r\n")
	b.WriteString(m.Body)
	return b.String()
}

// EnvelopeFrom returns the bare sender address for the SMTP envelope,
// stripped of any display name.
func (m *Message) EnvelopeFrom() string {
	return bareAddress(m.From)
}

// EnvelopeTo returns the bare recipient addresses for the SMTP envelope.
func (m *Message) EnvelopeTo() []string {
	to := make([]string, len(m.To))
	for i, addr := range m.To {
		to[i] = bareAddress(addr)
	}
	return to
}

func bareAddress(s string) string {
	parsed, err := mail.ParseAddress(s)
	if err != nil {
		return s
	}
	return parsed.Address
}

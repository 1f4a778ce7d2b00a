package template

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

// ErrTemplate marks any failure to render a template into a valid
// message: an unresolved placeholder, an unrecognized or missing header,
// or an unparseable address field. Callers match it with errors.Is.
var ErrTemplate = errors.New("invalid template")

var placeholderRe = regexp.MustCompile(`%\(([^)]*)\)s`)

// recognizedHeaders is the complete set of header names a template may
// declare.
var recognizedHeaders = map[string]bool{
	"From":     true,
	"To":       true,
	"Subject":  true,
	"Reply-To": true,
}

// Render turns raw template text plus a variable mapping into a
// validated Message.
//
// Substitution of %(name)s placeholders runs over the whole raw text
// first, so variables work in headers and body alike. The text is then
// scanned line by line: while a line contains a ":" it is collected as a
// header, the first line without one starts the body. Leading and
// trailing blank lines of the body are dropped.
func Render(raw string, vars map[string]string) (*Message, error) {
	text, err := substitute(raw, vars)
	if err != nil {
		return nil, err
	}

	headers, body, err := splitHeadersBody(text)
	if err != nil {
		return nil, err
	}

	for _, name := range []string{"From", "To", "Subject"} {
		if _, ok := headers[name]; !ok {
			return nil, fmt.Errorf("%w: required header %s is missing", ErrTemplate, name)
		}
	}

	fromList, err := mail.ParseAddressList(headers["From"])
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse From addresses %q: %v", ErrTemplate, headers["From"], err)
	}
	if len(fromList) != 1 {
		return nil, fmt.Errorf("%w: From must hold exactly one address, got %d", ErrTemplate, len(fromList))
	}

	toList, err := mail.ParseAddressList(headers["To"])
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse To addresses %q: %v", ErrTemplate, headers["To"], err)
	}
	if len(toList) == 0 {
		return nil, fmt.Errorf("%w: To must hold at least one address", ErrTemplate)
	}

	msg := &Message{
		From:    formatAddress(fromList[0]),
		Subject: headers["Subject"],
		ReplyTo: headers["Reply-To"],
		Body:    body,
	}
	for _, addr := range toList {
		msg.To = append(msg.To, formatAddress(addr))
	}
	return msg, nil
}

// formatAddress keeps bare addresses bare; net/mail's String would wrap
// them in angle brackets even without a display name.
func formatAddress(a *mail.Address) string {
	if a.Name == "" {
		return a.Address
	}
	return a.String()
}

// substitute resolves every %(name)s placeholder against vars. A
// reference to an absent key is a configuration mistake and fails loudly
// instead of leaving the marker in the output.
func substitute(raw string, vars map[string]string) (string, error) {
	var missing []string
	out := placeholderRe.ReplaceAllStringFunc(raw, func(match string) string {
		key := placeholderRe.FindStringSubmatch(match)[1]
		value, ok := vars[key]
		if !ok {
			missing = append(missing, key)
			return match
		}
		return value
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: no value for placeholder %q", ErrTemplate, missing[0])
	}
	return out, nil
}

// splitHeadersBody is the two-state line scanner: it stays in the header
// state while lines carry a ":" separator and switches to the body state
// at the first line without one.
func splitHeadersBody(text string) (map[string]string, string, error) {
	lines := strings.Split(text, "\n")
	headers := make(map[string]string)

	i := 0
	for ; i < len(lines); i++ {
		idx := strings.Index(lines[i], ":")
		if idx < 0 {
			break
		}
		name := strings.TrimSpace(lines[i][:idx])
		if !recognizedHeaders[name] {
			return nil, "", fmt.Errorf("%w: unrecognized header %q", ErrTemplate, name)
		}
		headers[name] = strings.TrimSpace(lines[i][idx+1:])
	}

	bodyLines := lines[i:]
	for len(bodyLines) > 0 && strings.TrimSpace(bodyLines[0]) == "" {
		bodyLines = bodyLines[1:]
	}
	for len(bodyLines) > 0 && strings.TrimSpace(bodyLines[len(bodyLines)-1]) == "" {
		bodyLines = bodyLines[:len(bodyLines)-1]
	}
	return headers, strings.Join(bodyLines, "\n"), nil
}

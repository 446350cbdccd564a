package campaign

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)
	urlRe         = regexp.MustCompile(`https?://[^\s]+`)
)

// MissingFieldError reports a template placeholder with no matching roster
// field. It names the recipient so the operator can fix the row and rerun.
type MissingFieldError struct {
	Field     string
	Recipient string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("template field {%s} missing for recipient %s", e.Field, e.Recipient)
}

// Render substitutes the recipient's fields into the template and derives
// the HTML alternative body. Pure; no delivery side effects.
//
// Every placeholder referenced by the template must exist in the recipient,
// otherwise a *MissingFieldError is returned and nothing is sent for that
// recipient.
func Render(tpl Template, rcpt Recipient, from string) (RenderedMessage, error) {
	subject, err := substitute(tpl.Subject, rcpt)
	if err != nil {
		return RenderedMessage{}, err
	}
	body, err := substitute(tpl.Body, rcpt)
	if err != nil {
		return RenderedMessage{}, err
	}
	return RenderedMessage{
		From:      from,
		To:        rcpt["email"],
		Subject:   subject,
		PlainBody: body,
		HTMLBody:  htmlBody(body),
	}, nil
}

func substitute(s string, rcpt Recipient) (string, error) {
	var missing string
	out := placeholderRe.ReplaceAllStringFunc(s, func(m string) string {
		key := m[1 : len(m)-1]
		v, ok := rcpt[key]
		if !ok {
			if missing == "" {
				missing = key
			}
			return m
		}
		return v
	})
	if missing != "" {
		return "", &MissingFieldError{Field: missing, Recipient: rcpt.Email()}
	}
	return out, nil
}

// htmlBody converts the plain body into the HTML alternative: newlines become
// <br> and every bare URL is wrapped as a clickable link, keeping the literal
// URL as both target and display text.
//
// URLs are wrapped line by line so the inserted <br> markers never get glued
// onto a URL that ends a line.
func htmlBody(plain string) string {
	lines := strings.Split(plain, "\n")
	for i, line := range lines {
		lines[i] = urlRe.ReplaceAllString(line, `<a href="${0}" style="color: #0066cc; text-decoration: underline;">${0}</a>`)
	}
	return strings.Join(lines, "<br>")
}

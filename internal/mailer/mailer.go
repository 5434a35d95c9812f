package mailer

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
)

// Matches the validation applied before any provider call.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidAddress(addr string) bool {
	return emailRe.MatchString(addr)
}

type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers one email and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, m Message) (string, error)
}

var ErrInvalidAddress = fmt.Errorf("invalid email address")

// BuildHTML wraps plain-text paragraphs into the standard outreach shell.
// Footer lines render small and grey under a divider.
func BuildHTML(body string, footerLines ...string) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', 'Roboto', sans-serif; line-height: 1.6; color: #333;">`)
	b.WriteString(`<div style="max-width: 600px; margin: 0 auto; padding: 20px;">`)

	for _, p := range strings.Split(body, "\n") {
		b.WriteString(`<p style="margin-bottom: 16px;">`)
		b.WriteString(html.EscapeString(p))
		b.WriteString(`</p>`)
	}

	if len(footerLines) > 0 {
		b.WriteString(`<div style="margin-top: 32px; padding-top: 16px; border-top: 1px solid #eee; font-size: 12px; color: #666;">`)
		for _, l := range footerLines {
			b.WriteString(`<p>`)
			b.WriteString(html.EscapeString(l))
			b.WriteString(`</p>`)
		}
		b.WriteString(`</div>`)
	}

	b.WriteString(`</div></div>`)
	return b.String()
}

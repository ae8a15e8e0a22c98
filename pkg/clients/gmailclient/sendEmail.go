package gmailclient

import (
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
	"time"

	"google.golang.org/api/gmail/v1"
)

const EMAIL_INTERVAL = 3 * time.Second

// SendEmail sends a plain text email. Sends are throttled to respect Gmail
// API rate limits.
func (c *Client) SendEmail(to, subject, body string) error {
	raw := buildMessage(c.from, to, subject, body)

	return c.throttle.do(func() error {
		_, err := c.service.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(c.ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	})
}

// buildMessage renders an RFC 2822 message and base64url encodes it.
// The subject is Q-encoded so non-ASCII member names survive.
func buildMessage(from, to, subject, body string) string {
	var b strings.Builder
	if from != "" {
		fmt.Fprintf(&b, "From: %s\r\n", from)
	}
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))

	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}

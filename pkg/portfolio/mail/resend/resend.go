// Package resend delivers contact messages through the Resend HTTP API.
package resend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	resendapi "github.com/resend/resend-go/v2"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// Mailer sends mail with the Resend API
type Mailer struct {
	client *resendapi.Client
	from   string
}

// New creates a new Resend mailer
func New(apiKey, from string) (*Mailer, error) {
	if apiKey == "" {
		return nil, portfolio.ErrEmailNotConfigured
	}
	if from == "" {
		return nil, errors.New("sender address is required")
	}
	return NewWithClient(resendapi.NewClient(apiKey), from), nil
}

// NewWithClient wraps an existing client, e.g. one pointed at a test server
func NewWithClient(client *resendapi.Client, from string) *Mailer {
	return &Mailer{client: client, from: from}
}

// Send delivers msg. Rate limit errors are reported, not retried.
func (m *Mailer) Send(ctx context.Context, msg portfolio.MailMessage) error {
	params := &resendapi.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.To},
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Html:    msg.HTMLBody,
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		var rateLimitErr *resendapi.RateLimitError
		if errors.As(err, &rateLimitErr) {
			slog.Warn("Resend rate limit exceeded",
				"limit", rateLimitErr.Limit,
				"remaining", rateLimitErr.Remaining,
				"reset", rateLimitErr.Reset)
			return fmt.Errorf("email rate limit exceeded (limit: %s, resets in: %s seconds): %w",
				rateLimitErr.Limit, rateLimitErr.Reset, err)
		}
		return fmt.Errorf("resend API error: %w", err)
	}

	slog.Info("Email sent via Resend", "email_id", sent.Id, "message_id", msg.ID, "to", msg.To)
	return nil
}

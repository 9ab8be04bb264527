package smtp

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(Config{User: "me@example.com"})
	assert.ErrorIs(t, err, portfolio.ErrEmailNotConfigured)

	_, err = New(Config{Password: "secret"})
	assert.ErrorIs(t, err, portfolio.ErrEmailNotConfigured)
}

func TestNew_GmailDefaults(t *testing.T) {
	m, err := New(Config{User: "me@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, DefaultHost, m.config.Host)
	assert.Equal(t, DefaultPort, m.config.Port)
	assert.Equal(t, "me@example.com", m.config.From)
}

func TestNew_InvalidFrom(t *testing.T) {
	_, err := New(Config{User: "me@example.com", Password: "secret", From: "not an address"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sender email")
}

func TestBuildMessage(t *testing.T) {
	m, err := New(Config{User: "me@example.com", Password: "secret"})
	require.NoError(t, err)

	raw, err := m.buildMessage(portfolio.MailMessage{
		ID:       "abc-123",
		To:       "owner@example.com",
		ReplyTo:  "visitor@example.com",
		Subject:  "Portfolio Contact: Hello",
		HTMLBody: "<p>Hi</p>",
	})
	require.NoError(t, err)

	msg := string(raw)
	head, body, ok := strings.Cut(msg, "\r\n\r\n")
	require.True(t, ok)
	assert.Equal(t, "<p>Hi</p>", body)
	// the separator consumed the last header's line ending
	head += "\r\n"
	assert.True(t, strings.HasSuffix(head, "To: owner@example.com\r\n"))
	assert.Contains(t, head, "From: me@example.com\r\n")
	assert.Contains(t, head, "To: owner@example.com\r\n")
	assert.Contains(t, head, "Reply-To: visitor@example.com\r\n")
	assert.Contains(t, head, "Subject: Portfolio Contact: Hello\r\n")
	assert.Contains(t, head, "Message-ID: <abc-123@example.com>\r\n")
	assert.Contains(t, head, "Content-Type: text/html; charset=UTF-8")
}

func TestBuildMessage_RejectsInjectedReplyTo(t *testing.T) {
	m, err := New(Config{User: "me@example.com", Password: "secret"})
	require.NoError(t, err)

	_, err = m.buildMessage(portfolio.MailMessage{
		To:      "owner@example.com",
		ReplyTo: "visitor@example.com\r\nBcc: victim@example.com",
	})
	assert.Error(t, err)
}

func TestSend_InvalidRecipient(t *testing.T) {
	m, err := New(Config{User: "me@example.com", Password: "secret"})
	require.NoError(t, err)

	err = m.Send(context.Background(), portfolio.MailMessage{To: "bad\r\naddress"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid recipient email")
}

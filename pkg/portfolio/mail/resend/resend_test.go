package resend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	resendapi "github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

func newTestMailer(t *testing.T, handler http.HandlerFunc) *Mailer {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := resendapi.NewClient("test-api-key")
	baseURL, err := url.Parse(server.URL)
	require.NoError(t, err)
	client.BaseURL = baseURL
	return NewWithClient(client, "site@example.com")
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New("", "site@example.com")
	assert.ErrorIs(t, err, portfolio.ErrEmailNotConfigured)

	_, err = New("key", "")
	assert.Error(t, err)
}

func TestSend_Success(t *testing.T) {
	var got resendapi.SendEmailRequest
	m := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "email-123"})
	})

	err := m.Send(context.Background(), portfolio.MailMessage{
		ID:       "msg-1",
		To:       "owner@example.com",
		ReplyTo:  "visitor@example.com",
		Subject:  "Portfolio Contact: Hello",
		HTMLBody: "<p>Hello</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "site@example.com", got.From)
	assert.Equal(t, []string{"owner@example.com"}, got.To)
	assert.Equal(t, "visitor@example.com", got.ReplyTo)
	assert.Equal(t, "Portfolio Contact: Hello", got.Subject)
	assert.Equal(t, "<p>Hello</p>", got.Html)
}

func TestSend_APIError(t *testing.T) {
	m := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"statusCode": 422,
			"name":       "validation_error",
			"message":    "Invalid `to` field.",
		})
	})

	err := m.Send(context.Background(), portfolio.MailMessage{To: "owner@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resend API error")
}

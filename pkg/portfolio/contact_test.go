package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactSubject(t *testing.T) {
	assert.Equal(t, "Portfolio Contact: Hello", contactSubject("  Hello "))

	subject := contactSubject("Hi\r\nBcc: victim@example.com")
	assert.NotContains(t, subject, "\n")
	assert.NotContains(t, subject, "\r")
}

func TestRenderContactHTML(t *testing.T) {
	html, err := renderContactHTML(ContactMessage{
		Name:    "<Ada>",
		Email:   "ada@example.com",
		Subject: "Q&A",
		Message: "first\r\nsecond <b>bold</b>",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "<h2>New Contact Form Submission</h2>")
	assert.Contains(t, html, "&lt;Ada&gt;")
	assert.Contains(t, html, "Q&amp;A")
	assert.Contains(t, html, "first<br>second &lt;b&gt;bold&lt;/b&gt;")
	assert.NotContains(t, html, "<b>")
}

func TestValidTitle(t *testing.T) {
	assert.True(t, validTitle("About"))
	assert.True(t, validTitle("Work Experience"))
	assert.False(t, validTitle(""))
	assert.False(t, validTitle(" \t"))
	assert.False(t, validTitle("a\nb"))
	assert.False(t, validTitle("a\rb"))
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedDocument = `---
contactEmail: "owner@example.com"
heroTitle: "Hello"
---

# About

I build things.

# Projects

- one
- two
`

func setupDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.md"), []byte(seedDocument), 0644))
	t.Setenv("STORAGE_URL", "file://"+dir)
	t.Setenv("DOCUMENT_KEY", "data.md")
	t.Setenv("RESEND_API_KEY", "")
	t.Setenv("EMAIL_USER", "")
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestShow(t *testing.T) {
	setupDataDir(t)

	out, err := execute(t, "", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "contactEmail")
	assert.Contains(t, out, "owner@example.com")
	assert.Contains(t, out, "SECTIONS (2)")
	assert.Less(t, strings.Index(out, "About"), strings.Index(out, "Projects"))
}

func TestShowJSON(t *testing.T) {
	setupDataDir(t)

	out, err := execute(t, "", "show", "--json")
	require.NoError(t, err)

	var content struct {
		Config   map[string]string `json:"config"`
		Sections map[string]string `json:"sections"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &content))
	assert.Equal(t, "Hello", content.Config["heroTitle"])
	assert.Equal(t, "I build things.", content.Sections["About"])
}

func TestGet(t *testing.T) {
	setupDataDir(t)

	out, err := execute(t, "", "get", "About")
	require.NoError(t, err)
	assert.Equal(t, "I build things.\n", out)

	out, err = execute(t, "", "get", "Projects", "--html")
	require.NoError(t, err)
	assert.Contains(t, out, "<li>one</li>")

	_, err = execute(t, "", "get", "Missing")
	assert.Error(t, err)
}

func TestSetConfig(t *testing.T) {
	dir := setupDataDir(t)

	_, err := execute(t, "", "set-config")
	assert.Error(t, err)

	out, err := execute(t, "", "set-config", "--hero-subtitle", "Engineer")
	require.NoError(t, err)
	assert.Contains(t, out, `"heroSubtitle": "Engineer"`)
	assert.Contains(t, out, `"heroTitle": "Hello"`)

	raw, err := os.ReadFile(filepath.Join(dir, "data.md"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `heroSubtitle: "Engineer"`)
	assert.Contains(t, string(raw), "# About")
}

func TestSetSectionFromFileAndStdin(t *testing.T) {
	dir := setupDataDir(t)

	bodyFile := filepath.Join(t.TempDir(), "about.md")
	require.NoError(t, os.WriteFile(bodyFile, []byte("New about text."), 0644))

	out, err := execute(t, "", "set-section", "About", "--file", bodyFile)
	require.NoError(t, err)
	assert.Contains(t, out, `Updated section "About"`)

	_, err = execute(t, "Reach me anytime.", "set-section", "Contact", "-f", "-")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "data.md"))
	require.NoError(t, err)
	text := string(raw)
	assert.Contains(t, text, "# About\n\nNew about text.")
	assert.Contains(t, text, "# Contact\n\nReach me anytime.")
	assert.Less(t, strings.Index(text, "# Projects"), strings.Index(text, "# Contact"))

	_, err = execute(t, "", "set-section", "About")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	setupDataDir(t)
	out := filepath.Join(t.TempDir(), "content.json")

	_, err := execute(t, "", "export", "--out", out)
	require.NoError(t, err)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)

	var exported struct {
		Config   map[string]string `json:"config"`
		Sections map[string]string `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(raw, &exported))
	assert.Equal(t, "owner@example.com", exported.Config["contactEmail"])
	assert.Len(t, exported.Sections, 2)
	assert.NotContains(t, string(raw), "raw_content")
}

func TestToken(t *testing.T) {
	setupDataDir(t)

	t.Setenv("ADMIN_JWT_SECRET", "")
	_, err := execute(t, "", "token")
	assert.Error(t, err)

	t.Setenv("ADMIN_JWT_SECRET", "test-secret")
	out, err := execute(t, "", "token", "--subject", "ci", "--ttl", "1h")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(out), "."))
}

package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
	memorystorage "github.com/tendant/simple-portfolio/pkg/portfolio/storage/memory"
)

func setupHandler(t *testing.T) (*Handler, *memorystorage.Backend) {
	t.Helper()
	backend := memorystorage.New()
	backend.Put("data.md", []byte("---\nheroTitle: \"Ada\"\n---\n\n# About\n\nHello.\n"))

	store, err := portfolio.NewDocumentStore(backend, portfolio.StoreConfig{DocumentKey: "data.md"})
	require.NoError(t, err)
	svc, err := portfolio.New(portfolio.WithDocumentStore(store))
	require.NoError(t, err)
	return NewHandler(svc), backend
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return text.Text
}

func TestRegisterTools(t *testing.T) {
	h, _ := setupHandler(t)
	s := server.NewMCPServer("test", "0.0.0", server.WithToolCapabilities(true))
	assert.NotPanics(t, func() { h.RegisterTools(s) })
}

func TestGetContentTool(t *testing.T) {
	h, _ := setupHandler(t)

	result, err := h.handleGetContent(context.Background(), callRequest("get_content", nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var content struct {
		Config   map[string]string `json:"config"`
		Sections map[string]string `json:"sections"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &content))
	assert.Equal(t, "Ada", content.Config["heroTitle"])
	assert.Equal(t, "Hello.", content.Sections["About"])
}

func TestGetSectionTool(t *testing.T) {
	h, _ := setupHandler(t)

	result, err := h.handleGetSection(context.Background(), callRequest("get_section", map[string]any{"title": "About"}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, "Hello.", resultText(t, result))

	result, err = h.handleGetSection(context.Background(), callRequest("get_section", map[string]any{"title": "Nope"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = h.handleGetSection(context.Background(), callRequest("get_section", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestUpdateSectionTool(t *testing.T) {
	h, backend := setupHandler(t)

	result, err := h.handleUpdateSection(context.Background(), callRequest("update_section", map[string]any{
		"title": "Projects", "content": "A compiler.",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	raw, ok := backend.Get("data.md")
	require.True(t, ok)
	assert.Contains(t, string(raw), "# Projects\n\nA compiler.")

	result, err = h.handleUpdateSection(context.Background(), callRequest("update_section", map[string]any{
		"title": "  ", "content": "x",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = h.handleUpdateSection(context.Background(), callRequest("update_section", map[string]any{"title": "About"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestUpdateConfigTool(t *testing.T) {
	h, _ := setupHandler(t)

	result, err := h.handleUpdateConfig(context.Background(), callRequest("update_config", map[string]any{
		"contactEmail": "ada@example.com",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var cfg map[string]string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &cfg))
	assert.Equal(t, "ada@example.com", cfg["contactEmail"])
	assert.Equal(t, "Ada", cfg["heroTitle"])
}

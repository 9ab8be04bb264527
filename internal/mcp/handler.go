package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// Handler exposes the portfolio service as MCP tools
type Handler struct {
	service portfolio.Service
}

// NewHandler creates a new instance of Handler
func NewHandler(service portfolio.Service) *Handler {
	return &Handler{service: service}
}

// RegisterTools registers the portfolio tools with the MCP server
func (h *Handler) RegisterTools(s *server.MCPServer) {
	s.AddTool(mcp.Tool{
		Name:        "get_content",
		Description: "Return the site configuration, every section in document order and the raw markdown body.",
		InputSchema: mcp.ToolInputSchema{Type: "object"},
	}, h.handleGetContent)

	s.AddTool(mcp.Tool{
		Name:        "get_section",
		Description: "Return the markdown body of one top-level section.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Section title exactly as it appears after '# '",
				},
			},
			Required: []string{"title"},
		},
	}, h.handleGetSection)

	s.AddTool(mcp.Tool{
		Name:        "update_section",
		Description: "Replace the body of a section, or append a new section when the title does not exist yet.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Section title",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "New markdown body for the section",
				},
			},
			Required: []string{"title", "content"},
		},
	}, h.handleUpdateSection)

	s.AddTool(mcp.Tool{
		Name:        "update_config",
		Description: "Update site configuration values. Omitted or empty values are left unchanged.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				portfolio.KeyContactEmail: map[string]interface{}{
					"type":        "string",
					"description": "Address contact form messages are sent to",
				},
				portfolio.KeyHeroTitle: map[string]interface{}{
					"type":        "string",
					"description": "Landing page title",
				},
				portfolio.KeyHeroSubtitle: map[string]interface{}{
					"type":        "string",
					"description": "Landing page subtitle",
				},
			},
		},
	}, h.handleUpdateConfig)
}

func decodeArgs(request mcp.CallToolRequest, v any) error {
	if request.Params.Arguments == nil {
		return nil
	}
	data, err := json.Marshal(request.Params.Arguments)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func toolResultJSON(payload any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(payload)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to build response", err), nil
	}
	return result, nil
}

func (h *Handler) handleGetContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := h.service.GetAll(ctx)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to read content", err), nil
	}
	return toolResultJSON(content)
}

func (h *Handler) handleGetSection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Title string `json:"title"`
	}
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}
	if args.Title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	body, err := h.service.GetSection(ctx, args.Title)
	if errors.Is(err, portfolio.ErrSectionNotFound) {
		return mcp.NewToolResultError("section not found: " + args.Title), nil
	}
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to read section", err), nil
	}
	return mcp.NewToolResultText(body), nil
}

func (h *Handler) handleUpdateSection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Title   string  `json:"title"`
		Content *string `json:"content"`
	}
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}
	if args.Content == nil {
		return mcp.NewToolResultError("content is required"), nil
	}

	section, err := h.service.UpdateSection(ctx, args.Title, *args.Content)
	if errors.Is(err, portfolio.ErrInvalidSectionTitle) {
		return mcp.NewToolResultError("title must be a single non-empty line"), nil
	}
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to update section", err), nil
	}
	return toolResultJSON(section)
}

func (h *Handler) handleUpdateConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		ContactEmail string `json:"contactEmail"`
		HeroTitle    string `json:"heroTitle"`
		HeroSubtitle string `json:"heroSubtitle"`
	}
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}

	cfg, err := h.service.UpdateConfig(ctx, portfolio.Config{
		portfolio.KeyContactEmail: args.ContactEmail,
		portfolio.KeyHeroTitle:    args.HeroTitle,
		portfolio.KeyHeroSubtitle: args.HeroSubtitle,
	})
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to update config", err), nil
	}
	return toolResultJSON(cfg)
}

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// UpdateConfigRequest is the request body for PUT /api/config. Empty fields
// are left unchanged.
type UpdateConfigRequest struct {
	ContactEmail string `json:"contactEmail"`
	HeroTitle    string `json:"heroTitle"`
	HeroSubtitle string `json:"heroSubtitle"`
}

// UpdateConfigResponse is the response body for PUT /api/config
type UpdateConfigResponse struct {
	Success bool             `json:"success"`
	Config  portfolio.Config `json:"config"`
}

// UpdateSectionRequest is the request body for PUT /api/content/{section}
type UpdateSectionRequest struct {
	NewContent *string `json:"newContent"`
}

// UpdateSectionResponse is the response body for PUT /api/content/{section}
type UpdateSectionResponse struct {
	Success bool   `json:"success"`
	Section string `json:"section"`
	Content string `json:"content"`
}

// SectionResponse is the response body for GET /api/content/{section}
type SectionResponse struct {
	Content string `json:"content"`
}

// SectionHTMLResponse is the response body for GET /api/content/{section}/html
type SectionHTMLResponse struct {
	HTML string `json:"html"`
}

// ContentHandler handles HTTP requests for the portfolio document
type ContentHandler struct {
	service portfolio.Service
	auth    *jwtauth.JWTAuth
}

// NewContentHandler creates a new content handler. When auth is non-nil the
// write routes require an admin bearer token.
func NewContentHandler(service portfolio.Service, auth *jwtauth.JWTAuth) *ContentHandler {
	return &ContentHandler{
		service: service,
		auth:    auth,
	}
}

// Routes returns the routes mounted at /api/content
func (h *ContentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetContent)
	r.Get("/{section}", h.GetSection)
	r.Get("/{section}/html", h.GetSectionHTML)

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin(h.auth))
		r.Put("/{section}", h.UpdateSection)
	})

	return r
}

// ConfigRoutes returns the routes mounted at /api/config
func (h *ContentHandler) ConfigRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(requireAdmin(h.auth))
	r.Put("/", h.UpdateConfig)
	return r
}

// GetContent returns the configuration, the sections and the raw body
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	content, err := h.service.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to read content")
		return
	}
	render.JSON(w, r, content)
}

// GetSection returns the markdown body of one section
func (h *ContentHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	title, ok := sectionParam(w, r)
	if !ok {
		return
	}

	body, err := h.service.GetSection(r.Context(), title)
	if err != nil {
		writeServiceError(w, r, err, "Failed to read section")
		return
	}
	render.JSON(w, r, SectionResponse{Content: body})
}

// GetSectionHTML returns the sanitized HTML rendering of one section
func (h *ContentHandler) GetSectionHTML(w http.ResponseWriter, r *http.Request) {
	title, ok := sectionParam(w, r)
	if !ok {
		return
	}

	html, err := h.service.RenderSection(r.Context(), title)
	if err != nil {
		writeServiceError(w, r, err, "Failed to render section")
		return
	}
	render.JSON(w, r, SectionHTMLResponse{HTML: html})
}

// UpdateConfig merges the supplied keys into the front matter
func (h *ContentHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	cfg, err := h.service.UpdateConfig(r.Context(), portfolio.Config{
		portfolio.KeyContactEmail: req.ContactEmail,
		portfolio.KeyHeroTitle:    req.HeroTitle,
		portfolio.KeyHeroSubtitle: req.HeroSubtitle,
	})
	if err != nil {
		writeServiceError(w, r, err, "Failed to update config")
		return
	}

	render.JSON(w, r, UpdateConfigResponse{Success: true, Config: cfg})
}

// UpdateSection replaces or appends one section
func (h *ContentHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	title, ok := sectionParam(w, r)
	if !ok {
		return
	}

	var req UpdateSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.NewContent == nil {
		writeError(w, r, http.StatusBadRequest, "newContent is required")
		return
	}

	section, err := h.service.UpdateSection(r.Context(), title, *req.NewContent)
	if err != nil {
		writeServiceError(w, r, err, "Failed to update section")
		return
	}

	render.JSON(w, r, UpdateSectionResponse{
		Success: true,
		Section: section.Title,
		Content: section.Body,
	})
}

// sectionParam returns the decoded section title. chi matches on the decoded
// path unless the request carried an escape the default encoding would not
// produce (such as %2F), in which case the parameter is still escaped.
func sectionParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "section")
	if r.URL.RawPath == "" {
		return raw, true
	}
	title, err := url.PathUnescape(raw)
	if err != nil {
		slog.Warn("Invalid section parameter", "section", raw, "err", err)
		writeError(w, r, http.StatusBadRequest, "Invalid section title")
		return "", false
	}
	return title, true
}

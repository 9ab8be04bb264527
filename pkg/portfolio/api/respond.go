package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}

// writeServiceError maps service errors to status codes. fallback is the
// message used for unexpected failures so internal details stay in the logs.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var validationErr *portfolio.ValidationError
	switch {
	case errors.Is(err, portfolio.ErrSectionNotFound):
		writeError(w, r, http.StatusNotFound, "Section not found")
	case errors.Is(err, portfolio.ErrResumeNotFound):
		writeError(w, r, http.StatusNotFound, "Resume not found")
	case errors.Is(err, portfolio.ErrInvalidSectionTitle):
		writeError(w, r, http.StatusBadRequest, "Invalid section title")
	case errors.As(err, &validationErr):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request", Details: validationErr.Fields})
	case errors.Is(err, portfolio.ErrEmailNotConfigured):
		slog.Warn("Contact form used without an email transport", "err", err)
		writeError(w, r, http.StatusServiceUnavailable, "Email service is not configured")
	default:
		slog.Error(fallback, "err", err, "path", r.URL.Path)
		writeError(w, r, http.StatusInternalServerError, fallback)
	}
}

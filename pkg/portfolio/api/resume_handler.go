package api

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// ResumeHandler streams the resume file as an attachment
type ResumeHandler struct {
	service portfolio.Service
}

// NewResumeHandler creates a new resume handler
func NewResumeHandler(service portfolio.Service) *ResumeHandler {
	return &ResumeHandler{service: service}
}

// Download handles GET /api/download-resume
func (h *ResumeHandler) Download(w http.ResponseWriter, r *http.Request) {
	resume, err := h.service.OpenResume(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to download resume")
		return
	}
	defer resume.Body.Close()

	w.Header().Set("Content-Type", resume.ContentType)
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": resume.Filename}))
	if resume.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(resume.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, resume.Body); err != nil {
		slog.Error("Failed to stream resume", "err", err)
	}
}

package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// maxContactBody bounds the contact form request body
const maxContactBody = 64 << 10

// SendEmailRequest is the request body for POST /api/send-email
type SendEmailRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SendEmailResponse is the response body for POST /api/send-email
type SendEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

// ContactHandler handles contact form submissions
type ContactHandler struct {
	service portfolio.Service
	limiter *RateLimiter
}

// NewContactHandler creates a new contact handler. A nil limiter disables
// rate limiting.
func NewContactHandler(service portfolio.Service, limiter *RateLimiter) *ContactHandler {
	return &ContactHandler{service: service, limiter: limiter}
}

// Routes returns the routes mounted at /api/send-email
func (h *ContactHandler) Routes() chi.Router {
	r := chi.NewRouter()
	if h.limiter != nil {
		r.Use(h.limiter.Middleware)
	}
	r.Post("/", h.SendEmail)
	return r
}

// SendEmail validates the submission and forwards it to the site owner
func (h *ContactHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactBody)

	var req SendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	id, err := h.service.SendContactMessage(r.Context(), portfolio.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		writeServiceError(w, r, err, "Failed to send email")
		return
	}

	render.JSON(w, r, SendEmailResponse{
		Success: true,
		Message: "Email sent successfully",
		ID:      id,
	})
}

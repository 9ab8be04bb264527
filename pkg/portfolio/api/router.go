// Package api exposes the portfolio service over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/metrics"
)

// RouterConfig wires the HTTP surface
type RouterConfig struct {
	Service portfolio.Service

	// AllowedOrigins for CORS; empty means any origin
	AllowedOrigins []string

	// AdminAuth protects the write routes when set
	AdminAuth *jwtauth.JWTAuth

	// ContactRateLimit is the per-client contact form budget per minute; 0 disables it
	ContactRateLimit int

	// LiveUpdates serves /api/ws when set
	LiveUpdates http.Handler

	// RequestTimeout bounds non-streaming requests; 0 means 60s
	RequestTimeout time.Duration
}

// NewRouter builds the complete HTTP handler
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.HTTPMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{
			"message": "Portfolio API is running",
			"status":  "ok",
		})
	})
	r.Handle("/metrics", metrics.Handler())

	content := NewContentHandler(cfg.Service, cfg.AdminAuth)
	var limiter *RateLimiter
	if cfg.ContactRateLimit > 0 {
		limiter = NewRateLimiter(cfg.ContactRateLimit)
	}
	contact := NewContactHandler(cfg.Service, limiter)
	resume := NewResumeHandler(cfg.Service)

	r.Route("/api", func(r chi.Router) {
		if cfg.LiveUpdates != nil {
			r.Handle("/ws", cfg.LiveUpdates)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(cfg.RequestTimeout))

			r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
				render.JSON(w, r, map[string]string{"status": "Backend is running"})
			})
			r.Mount("/content", content.Routes())
			r.Mount("/config", content.ConfigRoutes())
			r.Mount("/send-email", contact.Routes())
			r.Get("/download-resume", resume.Download)
		})
	})

	return r
}

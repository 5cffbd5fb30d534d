// Package web provides the HTTP server and handlers for the QR lookup
// service.
package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/daman/internal/config"
	"github.com/JonMunkholm/daman/internal/core"
	webmw "github.com/JonMunkholm/daman/internal/web/middleware"
)

// Server is the HTTP server for the QR lookup service.
type Server struct {
	service  *core.Service
	cfg      *config.Config
	limiter  RateLimiter
	validate *validator.Validate
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a Server. A nil limiter falls back to in-memory
// counters.
func NewServer(service *core.Service, cfg *config.Config, limiter RateLimiter) *Server {
	if limiter == nil {
		limiter = NewMemoryRateLimiter()
	}

	s := &Server{
		service:  service,
		cfg:      cfg,
		limiter:  limiter,
		validate: validator.New(),
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(webmw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(webmw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(s.rateLimit("api", s.cfg.Rate.RequestsPerMinute))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	// Pages
	s.router.Get("/", s.handleSearchPage)
	s.router.Post("/search", s.handleSearchPage)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(webmw.APIKeyAuth(s.cfg.Security))

		r.Route("/qr", func(r chi.Router) {
			r.Post("/search", s.handleSearch)
			r.Post("/export", s.handleExport)
			r.Get("/template", s.handleTemplate)

			r.Group(func(r chi.Router) {
				if s.cfg.Rate.Enabled {
					r.Use(s.rateLimit("upload", s.cfg.Rate.UploadLimit))
				}
				r.Post("/import", s.handleImport)
			})
			r.Get("/import/status", s.handleImportStatus)

			r.Get("/records", s.handleListRecords)
			r.Delete("/records/{identifier}/{seq}", s.handleDeleteRecord)
			r.Delete("/records/{identifier}", s.handleDeleteIdentifier)
		})

		r.Get("/audit-log", s.handleAuditLog)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			// The search page uses one inline style block and no scripts.
			if enableCSP {
				h.Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
			}

			next.ServeHTTP(w, r)
		})
	}
}

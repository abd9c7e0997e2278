// Package web serves the catalog's HTML interface.
package web

import (
	"embed"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/listenupapp/bookshelf/internal/policy"
	"github.com/listenupapp/bookshelf/internal/service"
)

//go:embed static
var staticFS embed.FS

// Config holds HTTP-layer settings.
type Config struct {
	// Key is a 32-byte secret for flash cookies and form tokens.
	Key            []byte
	SecureCookies  bool
	AllowedOrigins []string
}

// Services are the operations the handlers call.
type Services struct {
	Auth    *service.AuthService
	Catalog *service.CatalogService
	Reviews *service.ReviewService
	Audit   *service.AuditService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	auth    *service.AuthService
	catalog *service.CatalogService
	reviews *service.ReviewService
	audit   *service.AuditService
	health  HealthChecker

	flashes *flashes
	csrfKey string
	pages   map[string]*template.Template

	cfg    Config
	router *chi.Mux
	logger *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(svc Services, health HealthChecker, cfg Config, logger *slog.Logger) (*Server, error) {
	fl, err := newFlashes(cfg.Key, cfg.SecureCookies)
	if err != nil {
		return nil, err
	}

	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		auth:    svc.Auth,
		catalog: svc.Catalog,
		reviews: svc.Reviews,
		audit:   svc.Audit,
		health:  health,
		flashes: fl,
		csrfKey: hex.EncodeToString(cfg.Key),
		pages:   pages,
		cfg:     cfg,
		router:  chi.NewRouter(),
		logger:  logger,
	}

	s.setupMiddleware()
	if err := s.setupRoutes(); err != nil {
		return nil, err
	}

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(requestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.CleanPath)

	if len(s.cfg.AllowedOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() error {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}

	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))

	s.router.Group(func(r chi.Router) {
		r.Use(s.resolveSession)
		r.Use(s.recordAction)

		r.Get("/", s.handleIndex)
		r.Get("/auth", s.handleLoginForm)
		r.With(s.verifyCSRF).Post("/auth", s.handleLogin)
		r.Get("/logout", s.handleLogout)
		r.Get("/{id:[0-9]+}/view", s.handleView)

		// Login first, then the policy, then the form token.
		r.Group(func(r chi.Router) {
			r.Use(s.requireLogin)

			r.With(s.requirePrivilege(policy.Create)).Get("/new", s.handleNewBookForm)
			r.With(s.requirePrivilege(policy.Create), s.verifyCSRF).Post("/new", s.handleCreateBook)

			r.With(s.requirePrivilege(policy.Update)).Get("/{id:[0-9]+}/edit", s.handleEditBookForm)
			r.With(s.requirePrivilege(policy.Update), s.verifyCSRF).Post("/{id:[0-9]+}/edit", s.handleUpdateBook)

			r.With(s.requirePrivilege(policy.Delete), s.verifyCSRF).Post("/{id:[0-9]+}/delete", s.handleDeleteBook)

			r.With(s.requirePrivilege(policy.WriteReview)).Get("/{id:[0-9]+}/write_review", s.handleReviewForm)
			r.With(s.requirePrivilege(policy.WriteReview), s.verifyCSRF).Post("/{id:[0-9]+}/write_review", s.handleCreateReview)

			r.With(s.requirePrivilege(policy.DeleteReview), s.verifyCSRF).
				Post("/{id:[0-9]+}/{review_id:[0-9]+}/delete_review", s.handleDeleteReview)
		})
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, r, http.StatusNotFound, "Page not found")
	})

	return nil
}

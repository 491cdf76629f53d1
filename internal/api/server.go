// Package api provides the HTTP API server and handlers for the HepReader application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tsuji1/hep-reader-sub001/internal/http/response"
	"github.com/tsuji1/hep-reader-sub001/internal/validation"
)

// Server holds dependencies for HTTP handlers.
//
// JSON resources go through huma operations; binary and multipart
// endpoints (upload, page HTML, media, covers) are plain chi handlers on
// the same router.
type Server struct {
	services  *Services
	router    *chi.Mux
	api       huma.API
	validator *validation.Validator
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// corsOrigins lists the allowed SPA origins; empty allows any.
func NewServer(services *Services, corsOrigins []string, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		services:  services,
		router:    router,
		validator: validation.New(),
		logger:    logger,
	}

	// Middleware must be installed before any routes are registered on the
	// chi mux, including the doc routes humachi.New adds.
	s.setupMiddleware(corsOrigins)

	humaConfig := huma.DefaultConfig("HepReader API", "1.0.0")
	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(corsOrigins []string) {
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// Multipart upload and binary content bypass huma.
	s.router.Post("/api/books", s.handleUploadBook)
	s.router.Get("/api/books/{id}/pages/{n}", s.handleGetPage)
	s.router.Get("/api/books/{id}/pages", s.handleGetPageIndex)
	s.router.Get("/api/books/{id}/toc", s.handleGetTOC)
	s.router.Get("/api/books/{id}/media/*", s.handleGetMedia)
	s.router.Get("/api/books/{id}/cover", s.handleGetCover)
	s.router.Get("/api/books/{id}/original", s.handleGetOriginal)

	// JSON resources.
	s.registerBookRoutes()
	s.registerBookmarkRoutes()
	s.registerProgressRoutes()
	s.registerClipRoutes()
	s.registerTagRoutes()
	s.registerSearchRoutes()
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}

// Package api serves the dashboard's JSON endpoints.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sells-group/leadtrack/internal/analytics"
	"github.com/sells-group/leadtrack/internal/registry"
	"github.com/sells-group/leadtrack/internal/sheets"
)

// Server holds the collaborators the handlers need.
type Server struct {
	store   registry.Store
	loader  *sheets.Loader
	meta    sheets.MetadataSource
	engine  *analytics.Engine
	now     func() time.Time
	origins []string
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS origins. Defaults to "*".
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// WithClock sets the clock used to stamp newly tracked sheets.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a Server.
func New(store registry.Store, loader *sheets.Loader, meta sheets.MetadataSource, engine *analytics.Engine, opts ...Option) *Server {
	s := &Server{
		store:   store,
		loader:  loader,
		meta:    meta,
		engine:  engine,
		now:     time.Now,
		origins: []string{"*"},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/analytics", s.getAnalytics)
		r.Get("/data/all", s.getAllLeads)
		r.Get("/data/facets", s.getFacets)
		r.Get("/sheets", s.listSheets)
		r.Post("/sheets", s.addSheet)
		r.Delete("/sheets", s.removeSheet)
		r.Get("/sheets/{id}", s.getSheet)
		r.Get("/clients", s.getClients)
		r.Delete("/cache", s.clearCache)
		r.Get("/debug", s.debug)
	})
	return r
}

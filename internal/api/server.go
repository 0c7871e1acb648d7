// Package api exposes the graph store and layout engine over HTTP.
//
// Routes:
//
//	GET  /health                          liveness probe
//	GET  /api/v1/graphs/{id}              snapshot around a root node
//	POST /api/v1/graphs                   upsert a snapshot
//	GET  /api/v1/graphs/{id}/export       DOT or SVG export
//	GET  /api/v1/graphs/{id}/analysis     degree centrality and components
//	POST /api/v1/layout                   compute a layout for a snapshot
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/artatlas/artgraph/pkg/layout"
	"github.com/artatlas/artgraph/pkg/store"
)

// Server holds the handler dependencies.
type Server struct {
	store     store.Store
	layoutCfg layout.Config
	logger    *log.Logger
}

// NewServer builds the HTTP server state. The layout config is validated
// once here rather than per request.
func NewServer(st store.Store, layoutCfg layout.Config, logger *log.Logger) (*Server, error) {
	if err := layoutCfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: st, layoutCfg: layoutCfg, logger: logger}, nil
}

// Router assembles the chi router with standard middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/graphs/{id}", s.handleGetGraph)
		r.Post("/graphs", s.handlePutGraph)
		r.Get("/graphs/{id}/export", s.handleExportGraph)
		r.Get("/graphs/{id}/analysis", s.handleAnalyzeGraph)
		r.Post("/layout", s.handleLayout)
	})
	return r
}

package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/planfit/internal/ingest/coachplan"
	"github.com/meltforce/planfit/internal/normalize"
	"github.com/meltforce/planfit/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       *storage.DB
	plans    *coachplan.Provider
	profiles *normalize.Registry
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, plans *coachplan.Provider, profiles *normalize.Registry, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:       db,
		plans:    plans,
		profiles: profiles,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Write endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/plans", s.handlePlanIngest)
		r.Post("/api/v1/parse", s.handleParse)
	})

	// Read endpoints
	s.router.Get("/api/v1/plans", s.handleQueryPlans)
	s.router.Get("/api/v1/plans/{id}", s.handleGetPlan)
	s.router.Get("/api/v1/plans/{id}/export", s.handleExportPlan)
	s.router.Get("/api/v1/profiles", s.handleProfiles)
}

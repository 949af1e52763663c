package api

import (
	"net/http"
	"trip-planner-service/internal/api/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Deps are the services the HTTP surface depends on.
type Deps struct {
	Planner         handlers.TripPlanner
	Candidates      handlers.CandidateLister
	DefaultRadiusKm float64
	AllowedOrigins  []string
	Logger          *zap.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.L()
	}
	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestContext)
	r.Use(loggingMiddleware(logger.Named("http")))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	itineraries := &handlers.ItineraryHandler{Planner: d.Planner}
	candidates := &handlers.CandidateHandler{Lister: d.Candidates, DefaultRadiusKm: d.DefaultRadiusKm}

	r.Get("/health", handlers.Health)
	r.Get("/zones/{zone}/candidates", candidates.List)
	r.Post("/itineraries", itineraries.Create)

	return r
}

package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/go-travel-planner/internal/api/planner"
	"github.com/FACorreiaa/go-travel-planner/internal/api/preferences"
	"github.com/FACorreiaa/go-travel-planner/internal/api/recommendations"
)

// Config contains dependencies needed for the router setup
type Config struct {
	PlannerHandler         planner.Handler
	RecommendationsHandler recommendations.Handler
	PreferencesHandler     preferences.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
	AllowedOrigins         []string
}

// SetupRouter builds the API router. Server-wide middleware (request id,
// logging, recoverer) is applied in main before mounting it.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Get("/preferences", cfg.PreferencesHandler.GetPreferencesHandler)
			r.Put("/preferences", cfg.PreferencesHandler.UpdatePreferencesHandler)

			r.Route("/travel-plans", func(r chi.Router) {
				r.Post("/", cfg.PlannerHandler.CreatePlanHandler)
				r.Get("/", cfg.PlannerHandler.ListPlansHandler)

				r.Route("/{planID}", func(r chi.Router) {
					r.Get("/", cfg.PlannerHandler.GetPlanHandler)
					r.Patch("/", cfg.PlannerHandler.UpdatePlanHandler)
					r.Delete("/", cfg.PlannerHandler.DeletePlanHandler)
					r.Get("/status", cfg.PlannerHandler.GetPlanStatusHandler)

					r.Get("/flights", cfg.RecommendationsHandler.GetFlightsHandler)
					r.Get("/accommodations", cfg.RecommendationsHandler.GetAccommodationsHandler)
					r.Get("/recommendations", cfg.RecommendationsHandler.GetRecommendationsHandler)
				})
			})
		})
	})

	return r
}

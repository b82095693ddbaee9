package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/letsgo-app/go-place-suggestions/internal/api/geocode"
	"github.com/letsgo-app/go-place-suggestions/internal/api/places"
	"github.com/letsgo-app/go-place-suggestions/internal/api/suggest"
)

// Config contains the handlers the router wires up.
type Config struct {
	SuggestHandler *suggest.Handler
	PlacesHandler  *places.Handler
	GeocodeHandler *geocode.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/suggestions/ai", cfg.SuggestHandler.AISuggest)
		r.Post("/suggestions/smart", cfg.SuggestHandler.SmartSuggest)
		r.Post("/suggestions/scrape", cfg.PlacesHandler.Scrape)
		r.Post("/geocode", cfg.GeocodeHandler.Geocode)
	})

	return r
}

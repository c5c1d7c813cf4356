package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires every route of the API.
func (h *Handler) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(metricsMiddleware)

	r.Get("/", h.Index)
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/predict", h.Predict)
	r.Get("/model", h.GetModel)

	r.Route("/stats", func(r chi.Router) {
		r.Get("/", h.GetStats)
		r.Get("/sides", h.GetSideComparison)
		r.Get("/duration", h.GetDurationSplit)
	})

	r.Route("/heroes", func(r chi.Router) {
		r.Get("/", h.GetHeroes)
		r.Get("/meta", h.GetHeroMeta)
	})

	r.Post("/system/install", h.InstallDatabase)

	return r
}

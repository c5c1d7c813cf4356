package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const pingTimeout = 2 * time.Second

// Index describes the service
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"service": "Dota 2 Meta Lab API",
		"version": Version,
		"status":  "running",
		"endpoints": map[string]string{
			"/health":         "Health check",
			"/ready":          "Dependency readiness",
			"/predict":        "Predict match outcome (POST)",
			"/stats":          "Database statistics",
			"/stats/sides":    "Radiant vs Dire totals",
			"/stats/duration": "Short vs long game win rates",
			"/heroes":         "Hero statistics",
			"/heroes/meta":    "Hero pick and win rates",
			"/model":          "Loaded model metadata",
			"/metrics":        "Prometheus metrics",
		},
	})
}

// Health check endpoint. Always 200; status is "degraded" when the model or
// the document store is unavailable.
// @Summary Health Check
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	modelLoaded := h.prediction.Loaded()
	dbConnected := h.pg != nil && ping(r.Context(), h.pg.Ping) == nil

	status := "healthy"
	if !modelLoaded || !dbConnected {
		status = "degraded"
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":             status,
		"model_loaded":       modelLoaded,
		"database_connected": dbConnected,
		"timestamp":          time.Now().UTC(),
	})
}

// Ready check endpoint. Configured dependencies are pinged concurrently;
// 503 when any of them or the model is unavailable.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]bool{"model": h.prediction.Loaded()}
	results := make(map[string]*bool)
	g, gctx := errgroup.WithContext(ctx)

	add := func(name string, fn func(context.Context) error) {
		ok := new(bool)
		results[name] = ok
		g.Go(func() error {
			*ok = ping(gctx, fn) == nil
			return nil
		})
	}
	if h.pg != nil {
		add("postgres", h.pg.Ping)
	}
	if h.ch != nil {
		add("clickhouse", h.ch.Ping)
	}
	if h.redis != nil {
		add("redis", func(ctx context.Context) error { return h.redis.Ping(ctx).Err() })
	}
	_ = g.Wait()

	allHealthy := checks["model"]
	for name, ok := range results {
		checks[name] = *ok
		if !*ok {
			allHealthy = false
		}
	}

	status := http.StatusOK
	if !allHealthy {
		status = http.StatusServiceUnavailable
	}
	h.jsonResponse(w, status, map[string]interface{}{
		"ready":  allHealthy,
		"checks": checks,
	})
}

func ping(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return fn(ctx)
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}

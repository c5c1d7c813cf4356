package handlers

import (
	"context"
	"net/http"

	"github.com/dotameta/metalab/internal/schema"
)

type installStep struct {
	name       string
	configured bool
	install    func(ctx context.Context) error
}

// InstallDatabase applies the embedded schemas to every configured store
// @Summary Install Database Schema
// @Description Creates the Postgres document tables and the ClickHouse hero_picks table
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /system/install [post]
func (h *Handler) InstallDatabase(w http.ResponseWriter, r *http.Request) {
	steps := []installStep{
		{name: "postgres", configured: h.pg != nil, install: func(ctx context.Context) error {
			return schema.InstallPostgres(ctx, h.pg)
		}},
		{name: "clickhouse", configured: h.ch != nil, install: func(ctx context.Context) error {
			return schema.InstallClickHouse(ctx, h.ch)
		}},
	}

	results := make(map[string]string, len(steps))
	failed := false
	for _, step := range steps {
		if !step.configured {
			results[step.name] = "skipped: not configured"
			continue
		}
		if err := step.install(r.Context()); err != nil {
			h.logger.Errorw("Schema install failed", "db", step.name, "error", err)
			results[step.name] = "failed: " + err.Error()
			failed = true
			continue
		}
		h.logger.Infow("Schema installed", "db", step.name)
		results[step.name] = "success"
	}

	status := http.StatusOK
	if failed {
		status = http.StatusInternalServerError
	}
	h.jsonResponse(w, status, map[string]interface{}{
		"status":  "completed",
		"results": results,
		"error":   failed,
	})
}

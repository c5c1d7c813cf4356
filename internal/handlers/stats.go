package handlers

import (
	"net/http"
	"strconv"

	"github.com/dotameta/metalab/internal/logic"
)

const (
	defaultHeroLimit = 20
	maxHeroLimit     = 100
)

// errNoStore is reported when POSTGRES_URL is not configured.
const errNoStore = "document store not configured"

// GetStats returns document store statistics
// @Summary Database Statistics
// @Tags Stats
// @Produce json
// @Success 200 {object} models.MatchStats
// @Failure 500 {object} map[string]string "Internal Error"
// @Router /stats [get]
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	if h.matches == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, errNoStore)
		return
	}

	stats, err := h.matches.MatchStats(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to get match stats", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.jsonResponse(w, http.StatusOK, stats)
}

// GetHeroes returns the most played heroes with average kills, deaths and assists
// @Summary Hero Statistics
// @Tags Stats
// @Produce json
// @Param limit query int false "Limit" default(20)
// @Success 200 {object} map[string]interface{} "heroes"
// @Failure 500 {object} map[string]string "Internal Error"
// @Router /heroes [get]
func (h *Handler) GetHeroes(w http.ResponseWriter, r *http.Request) {
	if h.matches == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, errNoStore)
		return
	}

	limit := defaultHeroLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= maxHeroLimit {
			limit = parsed
		}
	}

	heroes, err := h.matches.TopHeroes(r.Context(), limit)
	if err != nil {
		h.logger.Errorw("Failed to get top heroes", "error", err, "limit", limit)
		h.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"heroes": heroes,
	})
}

// heroMetaParams are the query parameters of GET /heroes/meta.
type heroMetaParams struct {
	MinGames int    `validate:"gte=0"`
	Limit    int    `validate:"gte=0,lte=200"`
	Sort     string `validate:"omitempty,oneof=picks wins win_rate"`
	Side     string `validate:"omitempty,oneof=radiant dire"`
}

// GetHeroMeta returns hero pick counts and win rates from the analytics store
// @Summary Hero Meta
// @Description Pick count and win rate (percent) per hero over stored matches
// @Tags Heroes
// @Produce json
// @Param min_games query int false "Minimum picks" default(5)
// @Param limit query int false "Limit" default(10)
// @Param sort query string false "picks, wins or win_rate" default(picks)
// @Param side query string false "radiant or dire"
// @Success 200 {object} map[string]interface{} "heroes"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 503 {object} map[string]string "Analytics disabled"
// @Router /heroes/meta [get]
func (h *Handler) GetHeroMeta(w http.ResponseWriter, r *http.Request) {
	if h.heroMeta == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, logic.ErrAnalyticsDisabled.Error())
		return
	}

	q := r.URL.Query()
	params := heroMetaParams{
		MinGames: 5,
		Limit:    10,
		Sort:     q.Get("sort"),
		Side:     q.Get("side"),
	}
	for name, dst := range map[string]*int{"min_games": &params.MinGames, "limit": &params.Limit} {
		if raw := q.Get(name); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				h.errorResponse(w, http.StatusBadRequest, "Invalid "+name)
				return
			}
			*dst = v
		}
	}
	if err := h.validator.Struct(params); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	heroes, err := h.heroMeta.HeroMeta(r.Context(), logic.HeroMetaQuery{
		MinGames: params.MinGames,
		Limit:    params.Limit,
		Sort:     params.Sort,
		Side:     params.Side,
	})
	if err != nil {
		h.logger.Errorw("Failed to get hero meta", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to calculate hero meta")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"heroes":    heroes,
		"min_games": params.MinGames,
	})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/dotameta/metalab/internal/logic"
)

// GetSideComparison returns aggregated stats for Radiant vs Dire
// @Summary Side Comparison Stats
// @Description Get consolidated wins, kills, deaths and assists for Radiant vs Dire
// @Tags Heroes
// @Produce json
// @Success 200 {object} models.SideStats
// @Failure 503 {object} map[string]string "Analytics disabled"
// @Failure 500 {object} map[string]string "Internal Error"
// @Router /stats/sides [get]
func (h *Handler) GetSideComparison(w http.ResponseWriter, r *http.Request) {
	if h.heroMeta == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, logic.ErrAnalyticsDisabled.Error())
		return
	}

	stats, err := h.heroMeta.SideComparison(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to get side comparison", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to calculate side stats")
		return
	}

	h.jsonResponse(w, http.StatusOK, stats)
}

// GetDurationSplit compares radiant win rates of short and long games
// @Summary Duration Split
// @Tags Heroes
// @Produce json
// @Success 200 {object} models.DurationSplit
// @Failure 503 {object} map[string]string "Analytics disabled"
// @Router /stats/duration [get]
func (h *Handler) GetDurationSplit(w http.ResponseWriter, r *http.Request) {
	if h.heroMeta == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, logic.ErrAnalyticsDisabled.Error())
		return
	}

	split, err := h.heroMeta.DurationSplit(r.Context())
	if errors.Is(err, logic.ErrAnalyticsDisabled) {
		h.errorResponse(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		h.logger.Errorw("Failed to get duration split", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to calculate duration split")
		return
	}

	h.jsonResponse(w, http.StatusOK, split)
}

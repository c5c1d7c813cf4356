package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dotameta/metalab/internal/logic"
	"github.com/dotameta/metalab/internal/models"
)

// Predict scores a match state
// @Summary Predict Match Outcome
// @Description Returns win probabilities for both sides. Absent fields default to 0 (duration to 1800); numeric strings are accepted.
// @Tags AI
// @Accept json
// @Produce json
// @Param body body models.PredictRequest true "Match state"
// @Success 200 {object} models.PredictResponse
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Model not loaded"
// @Router /predict [post]
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	defer r.Body.Close()

	req := models.NewPredictRequest()
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	resp, err := h.prediction.Predict(req)
	if errors.Is(err, logic.ErrModelNotLoaded) {
		predictionsTotal.WithLabelValues("model_not_loaded").Inc()
		h.errorResponse(w, http.StatusInternalServerError, "Model not loaded")
		return
	}
	if err != nil {
		predictionsTotal.WithLabelValues("error").Inc()
		h.logger.Errorw("Prediction failed", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	predictionsTotal.WithLabelValues(resp.PredictedWinner).Inc()
	h.jsonResponse(w, http.StatusOK, resp)
}

// GetModel returns metadata of the loaded model
// @Summary Loaded Model
// @Tags AI
// @Produce json
// @Success 200 {object} models.ModelMetadata
// @Failure 404 {object} map[string]string "No model loaded"
// @Router /model [get]
func (h *Handler) GetModel(w http.ResponseWriter, r *http.Request) {
	meta := h.prediction.Model()
	if meta == nil {
		h.errorResponse(w, http.StatusNotFound, "Model not loaded")
		return
	}
	h.jsonResponse(w, http.StatusOK, meta)
}

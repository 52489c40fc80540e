package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/trogers1052/prediction-service/internal/database"
	"github.com/trogers1052/prediction-service/internal/engine"
	"github.com/trogers1052/prediction-service/internal/models"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// predictionView decorates a prediction with display fields
type predictionView struct {
	*models.Prediction
	Label string      `json:"label,omitempty"`
	Tier  engine.Tier `json:"tier"`
}

func (h *Handler) view(p *models.Prediction) predictionView {
	v := predictionView{Prediction: p, Tier: h.Engine.Tier(p.Confidence)}
	if p.Direction != "" {
		v.Label = models.PredictionLabel(p.Direction)
	}
	return v
}

type evaluateRequest struct {
	Type      string          `json:"type"`
	Asset     string          `json:"asset"`
	Direction string          `json:"prediction"`
	Signals   []models.Signal `json:"signals"`
}

type evaluateResponse struct {
	Convergence engine.Convergence `json:"convergence"`
	Confidence  int                `json:"confidence"`
	Tier        engine.Tier        `json:"tier"`
	Prediction  *predictionView    `json:"prediction"`
	Reason      string             `json:"reason,omitempty"`
}

// EvaluateSignals handles POST /predictions/evaluate
func (h *Handler) EvaluateSignals(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	predictionType, ok := models.ParsePredictionType(req.Type)
	if !ok {
		respondError(w, http.StatusBadRequest, "type must be one of CRYPTO, STOCK, STARTUP, POLITICAL, CASINO")
		return
	}
	if strings.TrimSpace(req.Asset) == "" {
		respondError(w, http.StatusBadRequest, "asset is required")
		return
	}

	var ev engine.Evaluation
	if h.Publisher != nil {
		var err error
		ev, err = h.Publisher.Evaluate(r.Context(), predictionType, req.Asset, req.Direction, req.Signals)
		if err != nil {
			h.logger.Error().Err(err).Str("asset", req.Asset).Msg("Failed to publish prediction")
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	} else {
		ev = h.Engine.Evaluate(predictionType, req.Asset, req.Signals)
		if ev.Prediction != nil {
			ev.Prediction.Direction = req.Direction
		}
	}

	resp := evaluateResponse{
		Convergence: ev.Convergence,
		Confidence:  ev.Confidence,
		Tier:        h.Engine.Tier(ev.Confidence),
		Reason:      ev.Reason,
	}
	status := http.StatusOK
	if ev.Prediction != nil {
		v := h.view(ev.Prediction)
		resp.Prediction = &v
		status = http.StatusCreated
	}
	respondJSON(w, status, resp)
}

// ListPredictions handles GET /predictions?type=&limit=
func (h *Handler) ListPredictions(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	predictionType, ok := parseTypeFilter(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown prediction type")
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxListLimit)
	}

	predictions, err := h.Store.ListPredictions(r.Context(), predictionType, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]predictionView, 0, len(predictions))
	for _, p := range predictions {
		out = append(out, h.view(p))
	}
	respondJSON(w, http.StatusOK, out)
}

// GetPrediction handles GET /predictions/{id}
func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	p, err := h.Store.GetPrediction(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, database.ErrPredictionNotFound) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, h.view(p))
}

// SetOutcome handles PUT /predictions/{id}/outcome
func (h *Handler) SetOutcome(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	id := mux.Vars(r)["id"]

	var req struct {
		Outcome string `json:"outcome"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	outcome := models.Outcome(strings.ToLower(strings.TrimSpace(req.Outcome)))
	if !outcome.Valid() {
		respondError(w, http.StatusBadRequest, "outcome must be correct or incorrect")
		return
	}

	err := h.Store.SetPredictionOutcome(r.Context(), id, outcome)
	switch {
	case errors.Is(err, database.ErrPredictionNotFound):
		respondError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, database.ErrAlreadyResolved):
		respondError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	p, err := h.Store.GetPrediction(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, h.view(p))
}

// GetMetrics handles GET /predictions/metrics?type=
func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	predictionType, ok := parseTypeFilter(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown prediction type")
		return
	}

	predictions, err := h.Store.ListPredictions(r.Context(), predictionType, 0)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, engine.CalculateMetrics(predictions))
}

// GetConfidenceTier handles GET /confidence/{value}
func (h *Handler) GetConfidenceTier(w http.ResponseWriter, r *http.Request) {
	value, err := strconv.Atoi(mux.Vars(r)["value"])
	if err != nil || value < 0 || value > 100 {
		respondError(w, http.StatusBadRequest, "confidence must be an integer between 0 and 100")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"confidence": value,
		"tier":       h.Engine.Tier(value),
	})
}

// GetSignalTypes handles GET /signals/types
func (h *Handler) GetSignalTypes(w http.ResponseWriter, r *http.Request) {
	cfg := h.Engine.Config()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"signalTypes":          models.SignalTypes,
		"convergenceThreshold": cfg.ConvergenceThreshold,
		"publishThreshold":     cfg.PublishThreshold,
		"tiers": map[string]int{
			string(engine.TierHigh):   cfg.HighTier,
			string(engine.TierMedium): cfg.MediumTier,
		},
	})
}

func (h *Handler) requireStore(w http.ResponseWriter) bool {
	if h.Store == nil {
		respondError(w, http.StatusServiceUnavailable, "prediction store not configured")
		return false
	}
	return true
}

func parseTypeFilter(r *http.Request) (models.PredictionType, bool) {
	raw := r.URL.Query().Get("type")
	if raw == "" {
		return "", true
	}
	return models.ParsePredictionType(raw)
}

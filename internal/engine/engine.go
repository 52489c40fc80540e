// Package engine scores signal convergence and turns converged signal sets
// into published predictions.
package engine

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/prediction-service/internal/config"
	"github.com/trogers1052/prediction-service/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Reasons a signal set does not produce a prediction.
const (
	ReasonInsufficientConvergence = "insufficient_convergence"
	ReasonLowConfidence           = "low_confidence"
)

// Convergence summarizes how many signals are active.
type Convergence struct {
	Converged bool `json:"converged"`
	Count     int  `json:"count"`
	Total     int  `json:"total"`
	Ready     bool `json:"ready"`
}

// Evaluation is the full result of running a signal set through the engine.
// Prediction is nil when a threshold was not met; Reason says which.
type Evaluation struct {
	Convergence Convergence        `json:"convergence"`
	Confidence  int                `json:"confidence"`
	Prediction  *models.Prediction `json:"prediction"`
	Reason      string             `json:"reason,omitempty"`
}

// Engine applies the configured thresholds. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	cfg   config.EngineConfig
	now   func() time.Time
	newID func() string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides the prediction id source.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// New creates an Engine with the given thresholds.
func New(cfg config.EngineConfig, opts ...Option) *Engine {
	e := &Engine{
		cfg:   cfg,
		now:   time.Now,
		newID: NewPredictionID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the thresholds the engine was built with.
func (e *Engine) Config() config.EngineConfig {
	return e.cfg
}

// NewPredictionID returns a random prediction identifier.
func NewPredictionID() string {
	return "pred_" + uuid.NewString()
}

// CalculateConfidence returns the weighted average strength of signals as an
// integer percentage, rounded half-up. weights is parallel to signals and may be
// shorter or nil; a missing, non-positive or NaN weight falls back to
// 1/len(signals). Strengths are clamped to [0,1] with NaN read as 0.
func CalculateConfidence(signals []models.Signal, weights []float64) int {
	if len(signals) == 0 {
		return 0
	}

	defaultWeight := decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(len(signals))))
	weightedSum := decimal.Zero
	totalWeight := decimal.Zero

	for i, s := range signals {
		weight := defaultWeight
		if i < len(weights) && weights[i] > 0 && !math.IsInf(weights[i], 0) {
			weight = decimal.NewFromFloat(weights[i])
		}
		weightedSum = weightedSum.Add(decimal.NewFromFloat(clampStrength(s.Strength)).Mul(weight))
		totalWeight = totalWeight.Add(weight)
	}

	return int(weightedSum.Div(totalWeight).Mul(hundred).Round(0).IntPart())
}

func clampStrength(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// CheckConvergence counts active signals against the convergence threshold.
// Strength plays no part here.
func (e *Engine) CheckConvergence(signals []models.Signal) Convergence {
	count := 0
	for _, s := range signals {
		if s.Active {
			count++
		}
	}
	ready := count >= e.cfg.ConvergenceThreshold
	return Convergence{
		Converged: ready,
		Count:     count,
		Total:     len(signals),
		Ready:     ready,
	}
}

// Evaluate runs both gates and builds a prediction when they pass. Confidence
// is computed over the active signals only.
func (e *Engine) Evaluate(predictionType models.PredictionType, asset string, signals []models.Signal) Evaluation {
	convergence := e.CheckConvergence(signals)
	if !convergence.Ready {
		return Evaluation{Convergence: convergence, Reason: ReasonInsufficientConvergence}
	}

	active := activeSignals(signals)
	confidence := CalculateConfidence(active, nil)
	if confidence < e.cfg.PublishThreshold {
		return Evaluation{Convergence: convergence, Confidence: confidence, Reason: ReasonLowConfidence}
	}

	names := make([]string, len(active))
	for i, s := range active {
		names[i] = s.Name
	}

	return Evaluation{
		Convergence: convergence,
		Confidence:  confidence,
		Prediction: &models.Prediction{
			ID:           e.newID(),
			Type:         predictionType,
			Asset:        asset,
			Confidence:   confidence,
			Signals:      names,
			SignalCount:  convergence.Count,
			TotalSignals: convergence.Total,
			Timestamp:    e.now().UTC(),
			Status:       models.StatusActive,
		},
	}
}

// GeneratePrediction returns a prediction, or nil when the signals did not
// converge or were not strong enough.
func (e *Engine) GeneratePrediction(predictionType models.PredictionType, asset string, signals []models.Signal) *models.Prediction {
	return e.Evaluate(predictionType, asset, signals).Prediction
}

func activeSignals(signals []models.Signal) []models.Signal {
	active := make([]models.Signal, 0, len(signals))
	for _, s := range signals {
		if s.Active {
			active = append(active, s)
		}
	}
	return active
}

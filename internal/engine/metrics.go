package engine

import (
	"github.com/shopspring/decimal"
	"github.com/trogers1052/prediction-service/internal/models"
)

// Tier is a display band for a confidence value.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Tier classifies a confidence percentage using the configured boundaries.
func (e *Engine) Tier(confidence int) Tier {
	switch {
	case confidence >= e.cfg.HighTier:
		return TierHigh
	case confidence >= e.cfg.MediumTier:
		return TierMedium
	default:
		return TierLow
	}
}

// CalculateMetrics summarizes outcomes. Predictions without an outcome count
// as pending.
func CalculateMetrics(predictions []*models.Prediction) models.PerformanceSummary {
	var summary models.PerformanceSummary
	summary.TotalPredictions = len(predictions)

	for _, p := range predictions {
		if p == nil || !p.Resolved() {
			summary.Pending++
			continue
		}
		summary.Resolved++
		switch *p.Outcome {
		case models.OutcomeCorrect:
			summary.Correct++
		case models.OutcomeIncorrect:
			summary.Incorrect++
		}
	}

	if summary.Resolved > 0 {
		summary.Accuracy = int(decimal.NewFromInt(int64(summary.Correct)).
			Mul(hundred).
			Div(decimal.NewFromInt(int64(summary.Resolved))).
			Round(0).
			IntPart())
	}
	summary.FalsePositive = summary.Incorrect
	summary.FalseNegative = 0

	return summary
}

package models

import "time"

// PredictionStatus is the lifecycle state of a prediction.
type PredictionStatus string

const (
	StatusActive   PredictionStatus = "active"
	StatusResolved PredictionStatus = "resolved"
)

// Outcome records whether a resolved prediction was right.
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

// Valid reports whether o is one of the known outcomes.
func (o Outcome) Valid() bool {
	return o == OutcomeCorrect || o == OutcomeIncorrect
}

// Prediction is a published call produced by the convergence engine.
// Confidence is always derived from the signals, never set by callers.
type Prediction struct {
	ID           string           `json:"id"`
	Type         PredictionType   `json:"type"`
	Asset        string           `json:"asset"`
	Direction    string           `json:"prediction,omitempty"`
	Confidence   int              `json:"confidence"`
	Signals      []string         `json:"signals"`
	SignalCount  int              `json:"signalCount"`
	TotalSignals int              `json:"totalSignals"`
	Timestamp    time.Time        `json:"timestamp"`
	Status       PredictionStatus `json:"status"`
	Outcome      *Outcome         `json:"outcome"`
}

// Resolved reports whether an outcome has been recorded.
func (p *Prediction) Resolved() bool {
	return p.Outcome != nil
}

// PerformanceSummary aggregates prediction outcomes.
type PerformanceSummary struct {
	Accuracy         int `json:"accuracy"`
	TotalPredictions int `json:"totalPredictions"`
	Resolved         int `json:"resolved"`
	Correct          int `json:"correct"`
	Incorrect        int `json:"incorrect"`
	Pending          int `json:"pending"`
	FalsePositive    int `json:"falsePositive"`
	// FalseNegative is always 0: missed events are not detected.
	FalseNegative int `json:"falseNegative"`
}

var predictionLabels = map[string]string{
	"PUMP":          "PUMP",
	"DUMP":          "DUMP",
	"EARNINGS_BEAT": "EARNINGS BEAT",
	"EARNINGS_MISS": "EARNINGS MISS",
	"RATE_CUT":      "RATE CUT",
	"RATE_HIKE":     "RATE HIKE",
	"SUCCESS":       "SUCCESS",
	"FAILURE":       "FAILURE",
	"DEALER_BUST":   "DEALER BUST",
	"DEALER_WIN":    "DEALER WIN",
	"BULLISH":       "BULLISH",
	"BEARISH":       "BEARISH",
}

// PredictionLabel returns the display label for a direction code.
// Unknown codes are returned unchanged.
func PredictionLabel(direction string) string {
	if label, ok := predictionLabels[direction]; ok {
		return label
	}
	return direction
}

package models

// Event types exchanged over Kafka.
const (
	EventPredictionCreated  = "PREDICTION_CREATED"
	EventPredictionResolved = "PREDICTION_RESOLVED"
	EventSignalsSnapshot    = "SIGNALS_SNAPSHOT"
)

// PredictionEvent announces a newly published prediction.
type PredictionEvent struct {
	EventType string      `json:"event_type"`
	Source    string      `json:"source"`
	Timestamp string      `json:"timestamp"`
	Data      *Prediction `json:"data"`
}

// SignalsSnapshotEvent carries raw signal measurements for one asset.
type SignalsSnapshotEvent struct {
	EventType string              `json:"event_type"`
	Source    string              `json:"source"`
	Timestamp string              `json:"timestamp"`
	Data      SignalsSnapshotData `json:"data"`
}

// SignalsSnapshotData is the body of a SIGNALS_SNAPSHOT event.
type SignalsSnapshotData struct {
	Type      string   `json:"type"`
	Asset     string   `json:"asset"`
	Direction string   `json:"prediction,omitempty"`
	Signals   []Signal `json:"signals"`
}

// OutcomeEvent reports the resolution of a prediction.
type OutcomeEvent struct {
	EventType string           `json:"event_type"`
	Source    string           `json:"source"`
	Timestamp string           `json:"timestamp"`
	Data      OutcomeEventData `json:"data"`
}

// OutcomeEventData is the body of a PREDICTION_RESOLVED event.
type OutcomeEventData struct {
	PredictionID string `json:"prediction_id"`
	Outcome      string `json:"outcome"`
}

package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/prediction-service/internal/models"
)

func TestProducer_PublishPredictionCreated(t *testing.T) {
	writer := &mockWriter{}
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &Producer{writer: writer, topic: "predictions.created", now: func() time.Time { return fixed }}

	pred := &models.Prediction{
		ID:         "pred_1",
		Type:       models.PredictionTypeCrypto,
		Asset:      "BTC",
		Confidence: 79,
		Signals:    []string{"whale_accumulation"},
		Status:     models.StatusActive,
	}
	require.NoError(t, p.PublishPredictionCreated(context.Background(), pred))

	require.Len(t, writer.msgs, 1)
	assert.Equal(t, "pred_1", string(writer.msgs[0].Key))

	var event models.PredictionEvent
	require.NoError(t, json.Unmarshal(writer.msgs[0].Value, &event))
	assert.Equal(t, models.EventPredictionCreated, event.EventType)
	assert.Equal(t, EventSource, event.Source)
	assert.Equal(t, "2026-03-01T12:00:00Z", event.Timestamp)
	require.NotNil(t, event.Data)
	assert.Equal(t, 79, event.Data.Confidence)
}

func TestProducer_WriteError(t *testing.T) {
	p := &Producer{writer: &mockWriter{err: assert.AnError}, now: time.Now}

	err := p.PublishPredictionCreated(context.Background(), &models.Prediction{ID: "pred_1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write prediction event pred_1")
}

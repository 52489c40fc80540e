package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/trogers1052/prediction-service/internal/database"
	"github.com/trogers1052/prediction-service/internal/models"
)

// OutcomeRepository records prediction outcomes
type OutcomeRepository interface {
	SetPredictionOutcome(ctx context.Context, id string, outcome models.Outcome) error
}

// OutcomesConsumer handles consuming prediction resolution events from Kafka
type OutcomesConsumer struct {
	reader messageReader
	repo   OutcomeRepository
	logger zerolog.Logger
}

// NewOutcomesConsumer creates a new Kafka consumer for outcome events
func NewOutcomesConsumer(brokers []string, topic, groupID string, repo OutcomeRepository) *OutcomesConsumer {
	reader := newReader(brokers, topic, groupID+"-outcomes", kafka.FirstOffset)
	return newOutcomesConsumer(reader, repo)
}

func newOutcomesConsumer(reader messageReader, repo OutcomeRepository) *OutcomesConsumer {
	return &OutcomesConsumer{
		reader: reader,
		repo:   repo,
		logger: log.With().Str("component", "outcomes_consumer").Logger(),
	}
}

// Start begins consuming messages from Kafka
func (c *OutcomesConsumer) Start(ctx context.Context) error {
	c.logger.Info().Str("topic", c.reader.Config().Topic).Msg("Starting outcomes consumer")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("Outcomes consumer shutting down")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				c.logger.Error().Err(err).Msg("Error reading outcomes message")
				continue
			}

			if err := c.processMessage(ctx, msg); err != nil {
				c.logger.Error().Err(err).Str("key", string(msg.Key)).Msg("Error processing outcomes message")
			}
		}
	}
}

func (c *OutcomesConsumer) processMessage(ctx context.Context, msg kafka.Message) error {
	var event models.OutcomeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal outcome event: %w", err)
	}

	switch event.EventType {
	case models.EventPredictionResolved:
		return c.handleResolved(ctx, event.Data)
	default:
		c.logger.Debug().Str("event_type", event.EventType).Msg("Ignoring unknown outcome event type")
		return nil
	}
}

func (c *OutcomesConsumer) handleResolved(ctx context.Context, data models.OutcomeEventData) error {
	if data.PredictionID == "" {
		return errors.New("outcome event has no prediction_id")
	}
	outcome := models.Outcome(strings.ToLower(strings.TrimSpace(data.Outcome)))
	if !outcome.Valid() {
		return fmt.Errorf("invalid outcome %q for prediction %s", data.Outcome, data.PredictionID)
	}

	err := c.repo.SetPredictionOutcome(ctx, data.PredictionID, outcome)
	if errors.Is(err, database.ErrAlreadyResolved) {
		// Redelivered events are expected with at-least-once delivery
		c.logger.Debug().Str("id", data.PredictionID).Msg("Prediction already resolved")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to resolve prediction %s: %w", data.PredictionID, err)
	}

	c.logger.Info().Str("id", data.PredictionID).Str("outcome", string(outcome)).Msg("Prediction resolved")
	return nil
}

// Close closes the Kafka consumer
func (c *OutcomesConsumer) Close() error {
	return c.reader.Close()
}

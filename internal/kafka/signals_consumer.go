package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/trogers1052/prediction-service/internal/engine"
	"github.com/trogers1052/prediction-service/internal/models"
)

// SignalEvaluator runs a signal set through the engine and publishes any prediction
type SignalEvaluator interface {
	Evaluate(ctx context.Context, predictionType models.PredictionType, asset, direction string, signals []models.Signal) (engine.Evaluation, error)
}

// SignalsConsumer handles consuming signal snapshot events from Kafka
type SignalsConsumer struct {
	reader    messageReader
	evaluator SignalEvaluator
	logger    zerolog.Logger
}

// NewSignalsConsumer creates a new Kafka consumer for signal snapshots
func NewSignalsConsumer(brokers []string, topic, groupID string, evaluator SignalEvaluator) *SignalsConsumer {
	// Start at the newest offset so old snapshots are not republished
	reader := newReader(brokers, topic, groupID+"-signals", kafka.LastOffset)
	return newSignalsConsumer(reader, evaluator)
}

func newSignalsConsumer(reader messageReader, evaluator SignalEvaluator) *SignalsConsumer {
	return &SignalsConsumer{
		reader:    reader,
		evaluator: evaluator,
		logger:    log.With().Str("component", "signals_consumer").Logger(),
	}
}

// Start begins consuming messages from Kafka
func (c *SignalsConsumer) Start(ctx context.Context) error {
	c.logger.Info().Str("topic", c.reader.Config().Topic).Msg("Starting signals consumer")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("Signals consumer shutting down")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				c.logger.Error().Err(err).Msg("Error reading signals message")
				continue
			}

			if err := c.processMessage(ctx, msg); err != nil {
				c.logger.Error().Err(err).Int("partition", msg.Partition).Int64("offset", msg.Offset).
					Msg("Error processing signals message")
			}
		}
	}
}

func (c *SignalsConsumer) processMessage(ctx context.Context, msg kafka.Message) error {
	var event models.SignalsSnapshotEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal signals event: %w", err)
	}

	if event.EventType != models.EventSignalsSnapshot {
		c.logger.Debug().Str("event_type", event.EventType).Msg("Ignoring event type")
		return nil
	}

	predictionType, ok := models.ParsePredictionType(event.Data.Type)
	if !ok {
		return fmt.Errorf("unknown prediction type %q", event.Data.Type)
	}
	if event.Data.Asset == "" {
		return fmt.Errorf("signals snapshot for %s has no asset", predictionType)
	}

	ev, err := c.evaluator.Evaluate(ctx, predictionType, event.Data.Asset, event.Data.Direction, event.Data.Signals)
	if err != nil {
		return fmt.Errorf("failed to evaluate %s snapshot: %w", event.Data.Asset, err)
	}

	c.logger.Debug().
		Str("asset", event.Data.Asset).
		Int("active", ev.Convergence.Count).
		Int("total", ev.Convergence.Total).
		Bool("published", ev.Prediction != nil).
		Msg("Processed signals snapshot")
	return nil
}

// Close closes the Kafka consumer
func (c *SignalsConsumer) Close() error {
	return c.reader.Close()
}

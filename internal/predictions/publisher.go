// Package predictions runs signal sets through the engine and publishes the
// predictions it emits.
package predictions

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/trogers1052/prediction-service/internal/datasets"
	"github.com/trogers1052/prediction-service/internal/engine"
	"github.com/trogers1052/prediction-service/internal/models"
)

// ResultPublished labels an evaluation that produced a prediction.
const ResultPublished = "published"

// Repository stores published predictions
type Repository interface {
	SavePrediction(ctx context.Context, p *models.Prediction) error
}

// EventProducer emits prediction events to the message bus
type EventProducer interface {
	PublishPredictionCreated(ctx context.Context, p *models.Prediction) error
}

// Broadcaster pushes predictions to live subscribers
type Broadcaster interface {
	PublishPrediction(ctx context.Context, p *models.Prediction) error
}

// Recorder counts engine verdicts
type Recorder interface {
	EngineEvaluation(predictionType, result string)
}

// Publisher evaluates signal sets and fans out the resulting predictions.
// Producer, broadcaster and recorder are optional.
type Publisher struct {
	engine      *engine.Engine
	repo        Repository
	producer    EventProducer
	broadcaster Broadcaster
	recorder    Recorder
	logger      zerolog.Logger
}

// Option customizes a Publisher
type Option func(*Publisher)

// WithProducer emits a PREDICTION_CREATED event for each prediction
func WithProducer(p EventProducer) Option {
	return func(pub *Publisher) { pub.producer = p }
}

// WithBroadcaster pushes each prediction to live subscribers
func WithBroadcaster(b Broadcaster) Option {
	return func(pub *Publisher) { pub.broadcaster = b }
}

// WithRecorder counts every evaluation
func WithRecorder(r Recorder) Option {
	return func(pub *Publisher) { pub.recorder = r }
}

// NewPublisher creates a new Publisher
func NewPublisher(e *engine.Engine, repo Repository, opts ...Option) *Publisher {
	p := &Publisher{
		engine: e,
		repo:   repo,
		logger: log.With().Str("component", "prediction_publisher").Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Evaluate runs signals through the engine. When a prediction is emitted it
// is saved, then announced; announcement failures are logged only. The
// evaluation is returned even when saving fails.
func (p *Publisher) Evaluate(ctx context.Context, predictionType models.PredictionType, asset, direction string, signals []models.Signal) (engine.Evaluation, error) {
	ev := p.engine.Evaluate(predictionType, asset, signals)

	result := ev.Reason
	if ev.Prediction != nil {
		result = ResultPublished
		ev.Prediction.Direction = direction
	}
	if p.recorder != nil {
		p.recorder.EngineEvaluation(string(predictionType), result)
	}

	if ev.Prediction == nil {
		p.logger.Debug().
			Str("type", string(predictionType)).
			Str("asset", asset).
			Str("reason", ev.Reason).
			Int("active", ev.Convergence.Count).
			Int("confidence", ev.Confidence).
			Msg("No prediction emitted")
		return ev, nil
	}

	pred := ev.Prediction
	if err := p.repo.SavePrediction(ctx, pred); err != nil {
		return ev, fmt.Errorf("failed to save prediction for %s: %w", asset, err)
	}

	if p.producer != nil {
		if err := p.producer.PublishPredictionCreated(ctx, pred); err != nil {
			p.logger.Warn().Err(err).Str("id", pred.ID).Msg("Failed to publish prediction event")
		}
	}
	if p.broadcaster != nil {
		if err := p.broadcaster.PublishPrediction(ctx, pred); err != nil {
			p.logger.Warn().Err(err).Str("id", pred.ID).Msg("Failed to broadcast prediction")
		}
	}

	p.logger.Info().
		Str("id", pred.ID).
		Str("type", string(pred.Type)).
		Str("asset", pred.Asset).
		Str("direction", pred.Direction).
		Int("confidence", pred.Confidence).
		Msg("Prediction published")
	return ev, nil
}

// PublishCandidates evaluates each candidate and returns the predictions
// that were published. Failures are logged and skipped.
func (p *Publisher) PublishCandidates(ctx context.Context, candidates []datasets.Candidate) []*models.Prediction {
	published := make([]*models.Prediction, 0, len(candidates))
	for _, c := range candidates {
		ev, err := p.Evaluate(ctx, c.Type, c.Asset, c.Direction, c.Signals)
		if err != nil {
			p.logger.Error().Err(err).Str("asset", c.Asset).Msg("Failed to publish candidate")
			continue
		}
		if ev.Prediction != nil {
			published = append(published, ev.Prediction)
		}
	}
	return published
}

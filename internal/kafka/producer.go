package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/trogers1052/prediction-service/internal/models"
)

// EventSource identifies this service in emitted events
const EventSource = "prediction-service"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes prediction events to Kafka
type Producer struct {
	writer messageWriter
	topic  string
	now    func() time.Time
}

// NewProducer creates a new Kafka producer for the predictions topic
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		MaxAttempts:  3,
		WriteTimeout: 5 * time.Second,
	}
	return &Producer{writer: writer, topic: topic, now: time.Now}
}

// Topic returns the topic events are written to
func (p *Producer) Topic() string {
	return p.topic
}

// PublishPredictionCreated emits a PREDICTION_CREATED event keyed by prediction id
func (p *Producer) PublishPredictionCreated(ctx context.Context, pred *models.Prediction) error {
	event := models.PredictionEvent{
		EventType: models.EventPredictionCreated,
		Source:    EventSource,
		Timestamp: p.now().UTC().Format(time.RFC3339),
		Data:      pred,
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal prediction event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(pred.ID), Value: value}); err != nil {
		return fmt.Errorf("failed to write prediction event %s: %w", pred.ID, err)
	}
	return nil
}

// Close flushes and closes the producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

package kafka

import (
	"context"
	"sync"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/trogers1052/prediction-service/internal/engine"
	"github.com/trogers1052/prediction-service/internal/models"
)

// ---------------------------------------------------------------------------
// Mock reader
// ---------------------------------------------------------------------------

type mockReader struct {
	cfg  kafkago.ReaderConfig
	msgs chan kafkago.Message

	mu         sync.Mutex
	closeCalls int
}

func newMockReader(topic string, buffer int) *mockReader {
	return &mockReader{
		cfg:  kafkago.ReaderConfig{Topic: topic},
		msgs: make(chan kafkago.Message, buffer),
	}
}

func (r *mockReader) ReadMessage(ctx context.Context) (kafkago.Message, error) {
	select {
	case msg := <-r.msgs:
		return msg, nil
	case <-ctx.Done():
		return kafkago.Message{}, ctx.Err()
	}
}

func (r *mockReader) Close() error {
	r.mu.Lock()
	r.closeCalls++
	r.mu.Unlock()
	return nil
}

func (r *mockReader) Config() kafkago.ReaderConfig {
	return r.cfg
}

func (r *mockReader) CloseCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closeCalls
}

// ---------------------------------------------------------------------------
// Mock writer
// ---------------------------------------------------------------------------

type mockWriter struct {
	mu   sync.Mutex
	msgs []kafkago.Message
	err  error
}

func (w *mockWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *mockWriter) Close() error { return nil }

// ---------------------------------------------------------------------------
// Mock evaluator
// ---------------------------------------------------------------------------

type evaluation struct {
	Type      models.PredictionType
	Asset     string
	Direction string
	Signals   []models.Signal
}

type mockEvaluator struct {
	mu    sync.Mutex
	calls []evaluation
	err   error
	done  chan struct{}
}

func (m *mockEvaluator) Evaluate(_ context.Context, t models.PredictionType, asset, direction string, signals []models.Signal) (engine.Evaluation, error) {
	m.mu.Lock()
	m.calls = append(m.calls, evaluation{Type: t, Asset: asset, Direction: direction, Signals: signals})
	m.mu.Unlock()
	if m.done != nil {
		m.done <- struct{}{}
	}
	return engine.Evaluation{}, m.err
}

func (m *mockEvaluator) Calls() []evaluation {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]evaluation, len(m.calls))
	copy(cp, m.calls)
	return cp
}

// ---------------------------------------------------------------------------
// Mock outcome repository
// ---------------------------------------------------------------------------

type outcomeUpdate struct {
	ID      string
	Outcome models.Outcome
}

type mockOutcomeRepo struct {
	mu      sync.Mutex
	updates []outcomeUpdate
	err     error
}

func (m *mockOutcomeRepo) SetPredictionOutcome(_ context.Context, id string, outcome models.Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.updates = append(m.updates, outcomeUpdate{ID: id, Outcome: outcome})
	return nil
}

func (m *mockOutcomeRepo) Updates() []outcomeUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]outcomeUpdate, len(m.updates))
	copy(cp, m.updates)
	return cp
}

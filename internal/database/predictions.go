package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/trogers1052/prediction-service/internal/models"
)

var (
	// ErrPredictionNotFound is returned when no prediction has the requested id.
	ErrPredictionNotFound = errors.New("prediction not found")
	// ErrAlreadyResolved is returned when an outcome is recorded twice.
	ErrAlreadyResolved = errors.New("prediction already resolved")
)

const predictionColumns = `
	id, type, asset, direction, confidence, signals,
	signal_count, total_signals, created_at, status, outcome
`

// SavePrediction inserts a newly published prediction
func (db *DB) SavePrediction(ctx context.Context, p *models.Prediction) error {
	query := `
		INSERT INTO predictions (` + predictionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`

	var outcome sql.NullString
	if p.Outcome != nil {
		outcome = sql.NullString{String: string(*p.Outcome), Valid: true}
	}

	_, err := db.conn.ExecContext(ctx, query,
		p.ID, string(p.Type), p.Asset, p.Direction, p.Confidence, pq.Array(p.Signals),
		p.SignalCount, p.TotalSignals, p.Timestamp, string(p.Status), outcome,
	)
	if err != nil {
		return fmt.Errorf("failed to save prediction %s: %w", p.ID, err)
	}
	return nil
}

// GetPrediction retrieves a prediction by id
func (db *DB) GetPrediction(ctx context.Context, id string) (*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE id = $1`

	p, err := scanPrediction(db.conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPredictionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction %s: %w", id, err)
	}
	return p, nil
}

// ListPredictions returns predictions newest first, optionally filtered by type
func (db *DB) ListPredictions(ctx context.Context, predictionType models.PredictionType, limit int) ([]*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if predictionType != "" {
		query += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, string(predictionType))
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	predictions := []*models.Prediction{}
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}

	return predictions, nil
}

// SetPredictionOutcome records the outcome of an active prediction and marks it resolved
func (db *DB) SetPredictionOutcome(ctx context.Context, id string, outcome models.Outcome) error {
	query := `
		UPDATE predictions
		SET outcome = $2, status = $3, resolved_at = $4
		WHERE id = $1 AND outcome IS NULL
	`

	result, err := db.conn.ExecContext(ctx, query, id, string(outcome), string(models.StatusResolved), db.now())
	if err != nil {
		return fmt.Errorf("failed to set outcome for prediction %s: %w", id, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 {
		return nil
	}

	// Distinguish a missing prediction from one that was already resolved
	var exists bool
	err = db.conn.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM predictions WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check prediction %s: %w", id, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrPredictionNotFound, id)
	}
	return fmt.Errorf("%w: %s", ErrAlreadyResolved, id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPrediction(row rowScanner) (*models.Prediction, error) {
	var p models.Prediction
	var predictionType, status string
	var direction, outcome sql.NullString
	var signals pq.StringArray

	err := row.Scan(
		&p.ID, &predictionType, &p.Asset, &direction, &p.Confidence, &signals,
		&p.SignalCount, &p.TotalSignals, &p.Timestamp, &status, &outcome,
	)
	if err != nil {
		return nil, err
	}

	p.Type = models.PredictionType(predictionType)
	p.Status = models.PredictionStatus(status)
	p.Signals = []string(signals)
	if p.Signals == nil {
		p.Signals = []string{}
	}
	if direction.Valid {
		p.Direction = direction.String
	}
	if outcome.Valid {
		o := models.Outcome(outcome.String)
		p.Outcome = &o
	}
	return &p, nil
}

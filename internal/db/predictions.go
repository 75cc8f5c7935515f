package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultPredictionLimit caps RecentPredictions when no limit is given.
const DefaultPredictionLimit = 100

// Prediction is a stored recognition result for a batch.
type Prediction struct {
	BatchID       uuid.UUID `json:"batch_id"`
	Status        string    `json:"status"`
	Exercise      string    `json:"exercise,omitempty"`
	ExerciseScore float64   `json:"exercise_score"`
	Mistakes      string    `json:"mistakes,omitempty"`
	MistakesScore float64   `json:"mistakes_score"`
	Message       string    `json:"message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// RecordPrediction stores p, stamping CreatedAt from the database clock.
// The batch must already exist.
func (db *DB) RecordPrediction(ctx context.Context, p Prediction) error {
	createdAt := db.clock.Now().UnixMilli()
	_, err := db.ExecContext(ctx, `INSERT INTO predictions (
			batch_id, status, exercise, exercise_score, mistakes, mistakes_score, message, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.BatchID.String(), p.Status, p.Exercise, p.ExerciseScore,
		p.Mistakes, p.MistakesScore, p.Message, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record prediction for batch %s: %w", p.BatchID, err)
	}
	return nil
}

// RecentPredictions returns up to limit predictions, newest first. A
// non-positive limit selects DefaultPredictionLimit.
func (db *DB) RecentPredictions(ctx context.Context, limit int) ([]Prediction, error) {
	if limit <= 0 {
		limit = DefaultPredictionLimit
	}
	rows, err := db.QueryContext(ctx, `SELECT batch_id, status, exercise, exercise_score,
			mistakes, mistakes_score, message, created_at
		FROM predictions ORDER BY created_at DESC, prediction_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	predictions := []Prediction{}
	for rows.Next() {
		var (
			p         Prediction
			batchID   string
			createdAt int64
		)
		if err := rows.Scan(&batchID, &p.Status, &p.Exercise, &p.ExerciseScore,
			&p.Mistakes, &p.MistakesScore, &p.Message, &createdAt); err != nil {
			return nil, err
		}
		if p.BatchID, err = uuid.Parse(batchID); err != nil {
			return nil, fmt.Errorf("invalid batch id %q: %w", batchID, err)
		}
		p.CreatedAt = time.UnixMilli(createdAt).UTC()
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

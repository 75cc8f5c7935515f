package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/motion.report/internal/features"
)

// Batch describes one stored group of readings.
type Batch struct {
	ID           uuid.UUID `json:"batch_id"`
	Source       string    `json:"source"`
	ReceivedAt   time.Time `json:"received_at"`
	ReadingCount int       `json:"reading_count"`
}

// RecordBatch stores readings under a new batch ID and returns it. Source
// names where the batch came from, for example "http" or "serial".
func (db *DB) RecordBatch(ctx context.Context, source string, readings []features.Reading) (uuid.UUID, error) {
	id := uuid.New()
	receivedAt := db.clock.Now().UnixMilli()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin batch transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO batches (batch_id, source, received_at, reading_count) VALUES (?, ?, ?, ?)`,
		id.String(), source, receivedAt, len(readings),
	); err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO readings (
			batch_id, address, unix_time, acc_x, acc_y, acc_z, gyro_x, gyro_y, gyro_z
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to prepare reading insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range readings {
		if _, err := stmt.ExecContext(ctx,
			id.String(), r.Address, r.UnixTime,
			r.AccX, r.AccY, r.AccZ, r.GyroX, r.GyroY, r.GyroZ,
		); err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert reading %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit batch: %w", err)
	}
	logf("recorded batch %s: %d readings from %s", id, len(readings), source)
	return id, nil
}

// BatchReadings returns a batch's readings in the order they were recorded.
func (db *DB) BatchReadings(ctx context.Context, id uuid.UUID) ([]features.Reading, error) {
	if _, err := db.GetBatch(ctx, id); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT address, unix_time, acc_x, acc_y, acc_z, gyro_x, gyro_y, gyro_z
		FROM readings WHERE batch_id = ? ORDER BY rowid`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []features.Reading
	for rows.Next() {
		var r features.Reading
		if err := rows.Scan(&r.Address, &r.UnixTime, &r.AccX, &r.AccY, &r.AccZ, &r.GyroX, &r.GyroY, &r.GyroZ); err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// GetBatch returns the batch with the given ID.
func (db *DB) GetBatch(ctx context.Context, id uuid.UUID) (Batch, error) {
	row := db.QueryRowContext(ctx,
		`SELECT batch_id, source, received_at, reading_count FROM batches WHERE batch_id = ?`, id.String())
	return scanBatch(row)
}

// LastBatchID returns the ID of the most recently received batch, or
// ErrNotFound when nothing has been recorded.
func (db *DB) LastBatchID(ctx context.Context) (uuid.UUID, error) {
	row := db.QueryRowContext(ctx,
		`SELECT batch_id, source, received_at, reading_count FROM batches ORDER BY received_at DESC, rowid DESC LIMIT 1`)
	b, err := scanBatch(row)
	if err != nil {
		return uuid.Nil, err
	}
	return b.ID, nil
}

func scanBatch(row *sql.Row) (Batch, error) {
	var (
		b          Batch
		id         string
		receivedAt int64
	)
	if err := row.Scan(&id, &b.Source, &receivedAt, &b.ReadingCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Batch{}, fmt.Errorf("batch: %w", ErrNotFound)
		}
		return Batch{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Batch{}, fmt.Errorf("invalid batch id %q: %w", id, err)
	}
	b.ID = parsed
	b.ReceivedAt = time.UnixMilli(receivedAt).UTC()
	return b, nil
}

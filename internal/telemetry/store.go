package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Query limits for the recent-readings window.
const (
	DefaultLimit = 100
	MaxLimit     = 200
)

// ErrInvalidReading indicates a reading that cannot be recorded.
var ErrInvalidReading = errors.New("telemetry: invalid reading")

// Reading is a single sensor observation for one device.
type Reading struct {
	ID         int64     `json:"id"`
	DeviceID   string    `json:"deviceId"`
	SensorKind string    `json:"sensorKind"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	Timestamp  time.Time `json:"timestamp"`
}

// Store appends readings to SQLite and serves a bounded recent window.
type Store struct {
	db *sql.DB
}

// NewStore creates the readings table if needed and returns a Store.
func NewStore(db *sql.DB) (*Store, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS readings (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			device_id   TEXT NOT NULL,
			sensor_kind TEXT NOT NULL,
			value       REAL NOT NULL,
			unit        TEXT NOT NULL DEFAULT '',
			recorded_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_readings_device
			ON readings (device_id, recorded_at DESC);
	`)
	if err != nil {
		return nil, fmt.Errorf("creating readings table: %w", err)
	}
	return &Store{db: db}, nil
}

// Record appends one reading. A zero timestamp is stamped with the
// current UTC time.
func (s *Store) Record(ctx context.Context, r Reading) error {
	if r.DeviceID == "" {
		return fmt.Errorf("%w: device id is required", ErrInvalidReading)
	}
	if r.SensorKind == "" {
		return fmt.Errorf("%w: sensor kind is required", ErrInvalidReading)
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO readings (device_id, sensor_kind, value, unit, recorded_at) VALUES (?, ?, ?, ?, ?)",
		r.DeviceID,
		r.SensorKind,
		r.Value,
		r.Unit,
		r.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting reading: %w", err)
	}
	return nil
}

// Recent returns the most recent readings for a device, newest first.
// A non-positive limit uses DefaultLimit; limits above MaxLimit are
// clamped.
func (s *Store) Recent(ctx context.Context, deviceID string, limit int) ([]Reading, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("%w: device id is required", ErrInvalidReading)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, device_id, sensor_kind, value, unit, recorded_at
		 FROM readings
		 WHERE device_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		deviceID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	readings := make([]Reading, 0, limit)
	for rows.Next() {
		var r Reading
		var recordedAt string

		if err := rows.Scan(&r.ID, &r.DeviceID, &r.SensorKind, &r.Value, &r.Unit, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning reading: %w", err)
		}

		r.Timestamp, err = time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing recorded_at: %w", err)
		}

		readings = append(readings, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating readings: %w", err)
	}

	return readings, nil
}

// Count returns the total number of stored readings.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM readings").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting readings: %w", err)
	}
	return n, nil
}

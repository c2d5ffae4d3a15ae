package store

import (
	"database/sql"
	"time"
)

// TriggerEvent is an accepted color change.
type TriggerEvent struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"session_id"`
	TimestampMs int64     `json:"timestamp_ms"`
	Previous    string    `json:"previous"`
	Color       string    `json:"color"`
	Scale       float64   `json:"scale"`
	Distance    float64   `json:"distance"`
	CreatedAt   time.Time `json:"created_at"`
}

// EventRepository stores trigger events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the trigger event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts a trigger event.
func (r *EventRepository) Create(e *TriggerEvent) error {
	e.CreatedAt = time.Now()

	result, err := r.db.Exec(
		`INSERT INTO trigger_events (session_id, timestamp_ms, previous, color, scale, distance, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.TimestampMs, e.Previous, e.Color, e.Scale, e.Distance, e.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id

	return nil
}

// GetBySessionID retrieves a session's events in time order.
func (r *EventRepository) GetBySessionID(sessionID string) ([]TriggerEvent, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, timestamp_ms, previous, color, scale, distance, created_at
		 FROM trigger_events
		 WHERE session_id = ?
		 ORDER BY timestamp_ms, id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []TriggerEvent
	for rows.Next() {
		var e TriggerEvent
		if err := rows.Scan(&e.ID, &e.SessionID, &e.TimestampMs, &e.Previous, &e.Color, &e.Scale, &e.Distance, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

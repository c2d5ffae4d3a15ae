package store

import (
	"database/sql"
	"encoding/json"
)

// Frame is one recorded tracker result. Hands holds the landmark JSON as
// the detector produced it.
type Frame struct {
	ID          int64           `json:"id"`
	SessionID   string          `json:"session_id"`
	Seq         int64           `json:"seq"`
	TimestampMs int64           `json:"timestamp_ms"`
	Hands       json.RawMessage `json:"hands"`
}

// FrameRepository stores recorded frames.
type FrameRepository struct {
	db *sql.DB
}

// Frames returns the frame repository for this store.
func (s *Store) Frames() *FrameRepository {
	return &FrameRepository{db: s.db}
}

// Append inserts a batch of frames in a single transaction.
func (r *FrameRepository) Append(frames []Frame) error {
	if len(frames) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO frames (session_id, seq, timestamp_ms, hands) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range frames {
		hands := string(f.Hands)
		if hands == "" {
			hands = "[]"
		}
		if _, err := stmt.Exec(f.SessionID, f.Seq, f.TimestampMs, hands); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetBySessionID retrieves all frames for a session in sequence order.
func (r *FrameRepository) GetBySessionID(sessionID string) ([]Frame, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, seq, timestamp_ms, hands
		 FROM frames
		 WHERE session_id = ?
		 ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []Frame
	for rows.Next() {
		var f Frame
		var hands string
		if err := rows.Scan(&f.ID, &f.SessionID, &f.Seq, &f.TimestampMs, &hands); err != nil {
			return nil, err
		}
		f.Hands = json.RawMessage(hands)
		frames = append(frames, f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return frames, nil
}

// Count returns the number of frames recorded for a session.
func (r *FrameRepository) Count(sessionID string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM frames WHERE session_id = ?`, sessionID).Scan(&n)
	return n, err
}

package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per run of the engine
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			seed INTEGER NOT NULL DEFAULT 0,
			config TEXT NOT NULL DEFAULT '',
			frames INTEGER NOT NULL DEFAULT 0,
			triggers INTEGER NOT NULL DEFAULT 0
		)`,

		// Frames table - tracker output in arrival order
		`CREATE TABLE IF NOT EXISTS frames (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			timestamp_ms INTEGER NOT NULL,
			hands TEXT NOT NULL DEFAULT '[]'
		)`,

		// Trigger events table - accepted color changes
		`CREATE TABLE IF NOT EXISTS trigger_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			timestamp_ms INTEGER NOT NULL,
			previous TEXT NOT NULL,
			color TEXT NOT NULL,
			scale REAL NOT NULL,
			distance REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE UNIQUE INDEX IF NOT EXISTS idx_frames_session_seq ON frames(session_id, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_trigger_events_session_id ON trigger_events(session_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

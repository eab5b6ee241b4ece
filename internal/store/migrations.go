package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Layouts table - one row per generated scene
		`CREATE TABLE IF NOT EXISTS layouts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			seed INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Layout entities table - the fixed anchor positions per entity
		`CREATE TABLE IF NOT EXISTS layout_entities (
			id TEXT PRIMARY KEY,
			layout_id TEXT NOT NULL REFERENCES layouts(id) ON DELETE CASCADE,
			entity_index INTEGER NOT NULL,
			gathered_x REAL NOT NULL,
			gathered_y REAL NOT NULL,
			gathered_z REAL NOT NULL,
			scattered_x REAL NOT NULL,
			scattered_y REAL NOT NULL,
			scattered_z REAL NOT NULL,
			photo_url TEXT NOT NULL DEFAULT ''
		)`,

		// Events table - phase transition log for session replay/debugging
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			from_phase TEXT NOT NULL,
			to_phase TEXT NOT NULL,
			explosion REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_layout_entities_layout_id ON layout_entities(layout_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_session_id ON events(session_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

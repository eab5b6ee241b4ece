package store

import (
	"database/sql"
	"time"
)

// Event is one phase transition recorded during a session.
type Event struct {
	ID        int64
	SessionID string
	FromPhase string
	ToPhase   string
	Explosion float64
	CreatedAt time.Time
}

// EventRepository appends and queries the phase-transition log.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Append records one phase transition.
func (r *EventRepository) Append(e *Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	result, err := r.db.Exec(
		`INSERT INTO events (session_id, from_phase, to_phase, explosion, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.SessionID, e.FromPhase, e.ToPhase, e.Explosion, e.CreatedAt,
	)
	if err != nil {
		return err
	}
	e.ID, _ = result.LastInsertId()
	return nil
}

// ListBySession retrieves a session's transitions in the order they fired.
func (r *EventRepository) ListBySession(sessionID string) ([]*Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, from_phase, to_phase, explosion, created_at
		 FROM events WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.SessionID, &e.FromPhase, &e.ToPhase, &e.Explosion, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

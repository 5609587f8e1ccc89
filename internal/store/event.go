package store

import (
	"database/sql"
	"errors"
	"time"
)

// Event records one stable-label transition within a session: the moment the
// stabilized gesture changed, not every frame.
type Event struct {
	ID         int64
	SessionID  string
	Label      string
	Confidence float64
	Stability  float64
	Handedness string
	CreatedAt  time.Time
}

// EventRepository provides operations for recognition events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts a new event and fills in its assigned ID.
func (r *EventRepository) Create(e *Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	result, err := r.db.Exec(
		`INSERT INTO events (session_id, label, confidence, stability, handedness, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Label, e.Confidence, e.Stability, e.Handedness, e.CreatedAt,
	)
	if err != nil {
		return err
	}

	e.ID, err = result.LastInsertId()
	return err
}

// GetByID retrieves an event by its ID.
func (r *EventRepository) GetByID(id int64) (*Event, error) {
	e := &Event{}
	err := r.db.QueryRow(
		`SELECT id, session_id, label, confidence, stability, handedness, created_at
		 FROM events WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.SessionID, &e.Label, &e.Confidence, &e.Stability, &e.Handedness, &e.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// ListBySession retrieves all events for a session in insertion order.
func (r *EventRepository) ListBySession(sessionID string) ([]*Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, label, confidence, stability, handedness, created_at
		 FROM events WHERE session_id = ? ORDER BY id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListRecent retrieves the most recent events across all sessions, newest
// first, capped at limit.
func (r *EventRepository) ListRecent(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, session_id, label, confidence, stability, handedness, created_at
		 FROM events ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// CountByLabel returns event counts grouped by label for a session.
func (r *EventRepository) CountByLabel(sessionID string) (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT label, COUNT(*) FROM events WHERE session_id = ? GROUP BY label`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, err
		}
		counts[label] = n
	}
	return counts, rows.Err()
}

func scanEvents(rows *sql.Rows) ([]*Event, error) {
	var events []*Event
	for rows.Next() {
		e := &Event{}
		err := rows.Scan(&e.ID, &e.SessionID, &e.Label, &e.Confidence, &e.Stability, &e.Handedness, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

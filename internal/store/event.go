package store

import (
	"database/sql"
	"time"
)

// Event represents one classified gesture signal stored in the database.
type Event struct {
	ID        string    `json:"id"`
	Signal    string    `json:"signal"`
	Axis      string    `json:"axis"`
	Rate      float64   `json:"rate"`
	CreatedAt time.Time `json:"created_at"`
}

// EventRepository provides operations on the gesture event log.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts a new event into the database.
func (r *EventRepository) Create(e *Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO events (id, signal, axis, rate, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Signal, e.Axis, e.Rate, e.CreatedAt,
	)
	return err
}

// ListRecent returns up to limit events, newest first.
func (r *EventRepository) ListRecent(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, signal, axis, rate, created_at
		 FROM events ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.Signal, &e.Axis, &e.Rate, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// CountBySignal returns how many events were recorded per signal name.
func (r *EventRepository) CountBySignal() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT signal, COUNT(*) FROM events GROUP BY signal`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var signal string
		var n int
		if err := rows.Scan(&signal, &n); err != nil {
			return nil, err
		}
		counts[signal] = n
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// Prune deletes events older than the cutoff and returns how many were removed.
func (r *EventRepository) Prune(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

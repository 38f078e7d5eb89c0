// Package session provides SQLite recording of the commanded angle
// stream, for reviewing a control session after the fact.
package session

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tkrish/gesturearm/pkg/arm"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS samples (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		t DATETIME NOT NULL,
		shoulder REAL NOT NULL,
		elbow REAL NOT NULL,
		wrist REAL NOT NULL,
		hand REAL NOT NULL,
		connected INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_samples_session_id ON samples(session_id)`,
}

// Recorder appends commanded-angle samples for one session to a SQLite
// file. Recording is best effort: the control loop treats a failed
// insert as a log line, not a stop condition.
type Recorder struct {
	db        *sql.DB
	sessionID string
}

// Open opens (creating if needed) the database at path and begins a new
// session.
func Open(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open telemetry db: %w", err)
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate telemetry db: %w", err)
		}
	}

	r := &Recorder{
		db:        db,
		sessionID: uuid.NewString(),
	}
	if _, err := db.Exec(`INSERT INTO sessions (id, started_at) VALUES (?, ?)`,
		r.sessionID, time.Now()); err != nil {
		db.Close()
		return nil, fmt.Errorf("begin session: %w", err)
	}
	return r, nil
}

// SessionID returns the id of the session being recorded.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// Record appends one sample.
func (r *Recorder) Record(t time.Time, angles arm.Angles, connected bool) error {
	_, err := r.db.Exec(
		`INSERT INTO samples (session_id, t, shoulder, elbow, wrist, hand, connected)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.sessionID, t,
		angles[arm.Shoulder], angles[arm.Elbow], angles[arm.Wrist], angles[arm.Hand],
		connected,
	)
	return err
}

// Sample is one recorded row.
type Sample struct {
	T         time.Time
	Angles    arm.Angles
	Connected bool
}

// Samples returns all samples for a session in insertion order.
func (r *Recorder) Samples(sessionID string) ([]Sample, error) {
	rows, err := r.db.Query(
		`SELECT t, shoulder, elbow, wrist, hand, connected
		 FROM samples WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		var s Sample
		if err := rows.Scan(&s.T,
			&s.Angles[arm.Shoulder], &s.Angles[arm.Elbow],
			&s.Angles[arm.Wrist], &s.Angles[arm.Hand],
			&s.Connected); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Close closes the database.
func (r *Recorder) Close() error {
	return r.db.Close()
}

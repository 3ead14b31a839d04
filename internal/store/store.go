// Package store persists sessions, completed repetitions and detector events
// in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/formcheck/internal/plan"
	"github.com/danielpatrickdp/formcheck/internal/profile"
	"github.com/danielpatrickdp/formcheck/internal/reps"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id   TEXT PRIMARY KEY,
	exercise     TEXT NOT NULL,
	plan_json    TEXT NOT NULL,
	started_at   TEXT NOT NULL,
	ended_at     TEXT,
	reps         INTEGER NOT NULL DEFAULT 0,
	suppressed   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS reps (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id    TEXT NOT NULL,
	rep_index     INTEGER NOT NULL,
	exercise      TEXT NOT NULL,
	quality       TEXT NOT NULL,
	duration_ns   INTEGER NOT NULL,
	best_json     TEXT NOT NULL,
	started_at    TEXT NOT NULL,
	completed_at  TEXT NOT NULL,
	UNIQUE (session_id, rep_index),
	FOREIGN KEY (session_id) REFERENCES sessions(session_id)
);

CREATE TABLE IF NOT EXISTS event_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT NOT NULL,
	detector    TEXT NOT NULL,
	kind        TEXT NOT NULL,
	frame       INTEGER NOT NULL,
	value       REAL NOT NULL,
	direction   TEXT,
	created_at  TEXT NOT NULL,
	FOREIGN KEY (session_id) REFERENCES sessions(session_id)
);
`

// #endregion schema

// #region store-struct
// Store manages session history in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// Open opens a SQLite database and runs migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region sessions
// StartSession creates an open session row.
func (s *Store) StartSession(exercise string, p plan.Plan, at time.Time) (SessionRecord, error) {
	planJSON, err := json.Marshal(p)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("marshal plan: %w", err)
	}
	rec := SessionRecord{
		SessionID: uuid.New().String(),
		Exercise:  exercise,
		Plan:      p,
		StartedAt: at.UTC(),
	}
	_, err = s.db.Exec(
		`INSERT INTO sessions (session_id, exercise, plan_json, started_at) VALUES (?, ?, ?, ?)`,
		rec.SessionID, exercise, string(planJSON), rec.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("insert session: %w", err)
	}
	return rec, nil
}

// EndSession closes a session and stores its final counters.
func (s *Store) EndSession(sessionID string, at time.Time, repCount, suppressed int) error {
	res, err := s.db.Exec(
		`UPDATE sessions SET ended_at = ?, reps = ?, suppressed = ? WHERE session_id = ?`,
		at.UTC().Format(time.RFC3339Nano), repCount, suppressed, sessionID,
	)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s not found", sessionID)
	}
	return nil
}

// DeleteSession removes a session with its reps and events.
func (s *Store) DeleteSession(sessionID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM event_log WHERE session_id = ?`,
		`DELETE FROM reps WHERE session_id = ?`,
		`DELETE FROM sessions WHERE session_id = ?`,
	} {
		if _, err := tx.Exec(q, sessionID); err != nil {
			return fmt.Errorf("delete session %s: %w", sessionID, err)
		}
	}
	return tx.Commit()
}

// GetSession retrieves one session by id.
func (s *Store) GetSession(sessionID string) (SessionRecord, error) {
	row := s.db.QueryRow(
		`SELECT session_id, exercise, plan_json, started_at, ended_at, reps, suppressed
		 FROM sessions WHERE session_id = ?`, sessionID,
	)
	rec, err := scanSession(row)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	return rec, nil
}

// ListSessions returns the most recent sessions, newest first.
func (s *Store) ListSessions(limit int) ([]SessionRecord, error) {
	rows, err := s.db.Query(
		`SELECT session_id, exercise, plan_json, started_at, ended_at, reps, suppressed
		 FROM sessions ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (SessionRecord, error) {
	var rec SessionRecord
	var planJSON, startedStr string
	var endedStr sql.NullString
	if err := row.Scan(&rec.SessionID, &rec.Exercise, &planJSON, &startedStr, &endedStr, &rec.Reps, &rec.Suppressed); err != nil {
		return SessionRecord{}, err
	}
	if err := json.Unmarshal([]byte(planJSON), &rec.Plan); err != nil {
		return SessionRecord{}, fmt.Errorf("unmarshal plan: %w", err)
	}
	rec.StartedAt, _ = time.Parse(time.RFC3339Nano, startedStr)
	if endedStr.Valid {
		rec.EndedAt, _ = time.Parse(time.RFC3339Nano, endedStr.String)
	}
	return rec, nil
}

// #endregion sessions

// #region reps
// Append stores one completed repetition under sessionID.
func (s *Store) Append(sessionID string, rec reps.Record) error {
	bestJSON, err := json.Marshal(rec.Best.Finite())
	if err != nil {
		return fmt.Errorf("marshal best: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO reps (session_id, rep_index, exercise, quality, duration_ns, best_json, started_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, rec.Index, rec.Exercise, rec.Quality, int64(rec.Duration), string(bestJSON),
		rec.StartedAt.UTC().Format(time.RFC3339Nano), rec.CompletedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert rep: %w", err)
	}
	return nil
}

// ListReps returns a session's repetitions in index order.
func (s *Store) ListReps(sessionID string) ([]reps.Record, error) {
	rows, err := s.db.Query(
		`SELECT rep_index, exercise, quality, duration_ns, best_json, started_at, completed_at
		 FROM reps WHERE session_id = ? ORDER BY rep_index`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reps: %w", err)
	}
	defer rows.Close()

	var out []reps.Record
	for rows.Next() {
		var rec reps.Record
		var durationNs int64
		var bestJSON, startedStr, completedStr string
		if err := rows.Scan(&rec.Index, &rec.Exercise, &rec.Quality, &durationNs, &bestJSON, &startedStr, &completedStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		rec.Duration = time.Duration(durationNs)
		rec.Best = profile.Snapshot{}
		if err := json.Unmarshal([]byte(bestJSON), &rec.Best); err != nil {
			return nil, fmt.Errorf("unmarshal best: %w", err)
		}
		rec.StartedAt, _ = time.Parse(time.RFC3339Nano, startedStr)
		rec.CompletedAt, _ = time.Parse(time.RFC3339Nano, completedStr)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SessionSink binds Append to one session so the store can serve as a reps.Sink.
func (s *Store) SessionSink(sessionID string) reps.Sink {
	return sessionSink{store: s, sessionID: sessionID}
}

type sessionSink struct {
	store     *Store
	sessionID string
}

func (k sessionSink) Append(rec reps.Record) error {
	return k.store.Append(k.sessionID, rec)
}

// #endregion reps

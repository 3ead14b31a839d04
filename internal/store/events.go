package store

import (
	"database/sql"
	"fmt"
	"time"
)

// #region log-event
// LogEvent writes an edge detector firing to the event_log table.
func (s *Store) LogEvent(entry EventEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO event_log (session_id, detector, kind, frame, value, direction, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.SessionID,
		entry.Detector,
		entry.Kind,
		int64(entry.Frame),
		entry.Value,
		nullIfEmpty(entry.Direction),
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log event: %w", err)
	}
	return nil
}

// ListEvents returns a session's events in frame order.
func (s *Store) ListEvents(sessionID string) ([]EventEntry, error) {
	rows, err := s.db.Query(
		`SELECT session_id, detector, kind, frame, value, direction, created_at
		 FROM event_log WHERE session_id = ? ORDER BY frame, id`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []EventEntry
	for rows.Next() {
		var e EventEntry
		var frame int64
		var direction sql.NullString
		var createdStr string
		if err := rows.Scan(&e.SessionID, &e.Detector, &e.Kind, &frame, &e.Value, &direction, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		e.Frame = uint64(frame)
		e.Direction = direction.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion log-event

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers

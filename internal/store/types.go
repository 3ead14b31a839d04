package store

import (
	"time"

	"github.com/danielpatrickdp/formcheck/internal/plan"
)

// #region session-record
// SessionRecord is a row in the sessions table.
type SessionRecord struct {
	SessionID  string
	Exercise   string
	Plan       plan.Plan
	StartedAt  time.Time
	EndedAt    time.Time // zero while the session is open
	Reps       int
	Suppressed int
}

// Open reports whether the session has not been ended.
func (r SessionRecord) Open() bool {
	return r.EndedAt.IsZero()
}

// #endregion session-record

// #region event-entry
// EventEntry is a single row in the event_log table: one edge detector firing.
type EventEntry struct {
	SessionID string
	Detector  string
	Kind      string // "crossing" | "proximity" | "angle"
	Frame     uint64
	Value     float64
	Direction string
	CreatedAt time.Time
}

// #endregion event-entry

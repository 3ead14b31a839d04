// Package replog writes the human-readable, append-only activity log of
// completed repetitions.
package replog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/danielpatrickdp/formcheck/internal/errs"
	"github.com/danielpatrickdp/formcheck/internal/profile"
	"github.com/danielpatrickdp/formcheck/internal/reps"
	"github.com/danielpatrickdp/formcheck/internal/timeutil"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	ruleWidth       = 80
)

// DefaultPath is the conventional log location for an exercise under dir.
func DefaultPath(dir, exerciseID string) string {
	return filepath.Join(dir, exerciseID+"_log.txt")
}

// #region text-sink
// TextSink appends one line per completed repetition to a text file.
type TextSink struct {
	mu      sync.Mutex
	path    string
	columns []profile.Column
}

// Open prepares the log at path, writing the header block only when the file
// does not exist yet. An existing file is left untouched.
func Open(path string, p *profile.Profile, clock timeutil.Clock) (*TextSink, error) {
	const op = "replog.Open"
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errs.New(errs.SinkUnavailable, op, path, err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	switch {
	case errors.Is(err, fs.ErrExist):
		// already initialized
	case err != nil:
		return nil, errs.New(errs.SinkUnavailable, op, path, err)
	default:
		_, werr := f.WriteString(Header(p, clock))
		cerr := f.Close()
		if werr != nil {
			return nil, errs.New(errs.SinkUnavailable, op, path, werr)
		}
		if cerr != nil {
			return nil, errs.New(errs.SinkUnavailable, op, path, cerr)
		}
	}
	return &TextSink{path: path, columns: p.LogColumns}, nil
}

// Path returns the log file location.
func (s *TextSink) Path() string { return s.path }

// Append writes rec as one line.
func (s *TextSink) Append(rec reps.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open rep log: %w", err)
	}
	if _, err := f.WriteString(Line(rec, s.columns) + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("append rep log: %w", err)
	}
	return f.Close()
}

// #endregion text-sink

// #region format
// Header renders the block written once at the top of a new log.
func Header(p *profile.Profile, clock timeutil.Clock) string {
	rule := strings.Repeat("=", ruleWidth)
	var b strings.Builder
	fmt.Fprintf(&b, "%s Activity Log\n", p.DisplayName())
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Started: %s\n", clock.Now().Format(timestampLayout))
	b.WriteString(rule + "\n\n")
	b.WriteString(ColumnHeader(p.LogColumns) + "\n")
	b.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	return b.String()
}

// ColumnHeader renders the column titles line.
func ColumnHeader(columns []profile.Column) string {
	parts := []string{"Timestamp", "Rep #"}
	for _, c := range columns {
		parts = append(parts, c.Header)
	}
	parts = append(parts, "Duration (s)", "Quality")
	return strings.Join(parts, " | ")
}

// Line renders one repetition, e.g. "2026-01-01 12:00:00 | #001 |    1.5s | Good".
func Line(rec reps.Record, columns []profile.Column) string {
	parts := []string{
		rec.CompletedAt.Format(timestampLayout),
		fmt.Sprintf("#%03d", rec.Index),
	}
	for _, c := range columns {
		parts = append(parts, c.Format(rec.Best))
	}
	parts = append(parts, fmt.Sprintf("%6.1fs", rec.Seconds()), rec.Quality)
	return strings.Join(parts, " | ")
}

// #endregion format

// #region multi
type multi []reps.Sink

// Multi fans a record out to every sink, attempting all of them and joining
// their errors.
func Multi(sinks ...reps.Sink) reps.Sink {
	var out multi
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m multi) Append(rec reps.Record) error {
	var errList []error
	for _, s := range m {
		if err := s.Append(rec); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}

// #endregion multi

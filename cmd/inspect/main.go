package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/danielpatrickdp/formcheck/internal/eval"
	"github.com/danielpatrickdp/formcheck/internal/profile"
	"github.com/danielpatrickdp/formcheck/internal/replog"
	"github.com/danielpatrickdp/formcheck/internal/store"
)

const timeLayout = "2006-01-02T15:04:05Z"

// #region main

func main() {
	dbPath := flag.String("db", "", "path to formcheck.db")
	last := flag.Int("last", 20, "show N most recent sessions")
	session := flag.String("session", "", "show single session detail")
	catalogue := flag.Bool("catalogue", false, "list the supported exercises and exit")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *catalogue {
		if err := runCatalogueMode(os.Stdout, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/formcheck.db [--last N] [--session id] [--json]")
		fmt.Fprintln(os.Stderr, "       inspect --catalogue [--json]")
		os.Exit(2)
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if *session != "" {
		err = runDetailMode(os.Stdout, st, *session, *jsonOut)
	} else {
		err = runListMode(os.Stdout, st, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	SessionID  string `json:"session_id"`
	Exercise   string `json:"exercise"`
	Plan       string `json:"plan"`
	Reps       int    `json:"reps"`
	Suppressed int    `json:"suppressed"`
	StartedAt  string `json:"started_at"`
	Duration   string `json:"duration,omitempty"`
	Open       bool   `json:"open"`
}

func runListMode(w io.Writer, st *store.Store, last int, jsonOut bool) error {
	sessions, err := st.ListSessions(last)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(os.Stderr, "no sessions found")
		return nil
	}

	// store returns newest first; print chronologically
	rows := make([]listRow, len(sessions))
	for i, s := range sessions {
		row := listRow{
			SessionID:  s.SessionID,
			Exercise:   s.Exercise,
			Plan:       s.Plan.String(),
			Reps:       s.Reps,
			Suppressed: s.Suppressed,
			StartedAt:  s.StartedAt.Format(timeLayout),
			Open:       s.Open(),
		}
		if !s.Open() {
			row.Duration = s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
		}
		rows[len(sessions)-1-i] = row
	}

	if jsonOut {
		return printJSON(w, rows)
	}

	fmt.Fprintf(w, "%-10s  %-18s  %-16s  %5s  %5s  %-9s  %s\n",
		"Session", "Exercise", "Plan", "Reps", "Supp", "Duration", "Started")
	fmt.Fprintf(w, "%-10s+-%-18s+-%-16s+-%5s+-%5s+-%-9s+-%s\n",
		"----------", "------------------", "----------------", "-----", "-----", "---------", "--------------------")
	for _, r := range rows {
		dur := r.Duration
		if r.Open {
			dur = "open"
		}
		fmt.Fprintf(w, "%-10s  %-18s  %-16s  %5d  %5d  %-9s  %s\n",
			shortID(r.SessionID), r.Exercise, r.Plan, r.Reps, r.Suppressed, dur, r.StartedAt)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type detailOutput struct {
	SessionID  string       `json:"session_id"`
	Exercise   string       `json:"exercise"`
	StartedAt  string       `json:"started_at"`
	EndedAt    string       `json:"ended_at,omitempty"`
	Suppressed int          `json:"suppressed"`
	Eval       eval.Summary `json:"eval"`
	Reps       []repRow     `json:"reps"`
	Events     []eventRow   `json:"events,omitempty"`
}

type repRow struct {
	Index   int              `json:"index"`
	Quality string           `json:"quality"`
	Seconds float64          `json:"seconds"`
	Best    profile.Snapshot `json:"best"`
	Line    string           `json:"line"`
}

type eventRow struct {
	Detector  string  `json:"detector"`
	Kind      string  `json:"kind"`
	Frame     uint64  `json:"frame"`
	Value     float64 `json:"value"`
	Direction string  `json:"direction,omitempty"`
}

func runDetailMode(w io.Writer, st *store.Store, sessionID string, jsonOut bool) error {
	sess, err := st.GetSession(sessionID)
	if err != nil {
		return err
	}
	records, err := st.ListReps(sessionID)
	if err != nil {
		return err
	}
	events, err := st.ListEvents(sessionID)
	if err != nil {
		return err
	}

	// unknown exercises still list their reps, just without metric columns
	var columns []profile.Column
	if p, err := profile.Lookup(sess.Exercise); err == nil {
		columns = p.LogColumns
	}

	out := detailOutput{
		SessionID:  sess.SessionID,
		Exercise:   sess.Exercise,
		StartedAt:  sess.StartedAt.Format(timeLayout),
		Suppressed: sess.Suppressed,
		Eval:       eval.Summarize(records, sess.Plan),
		Reps:       make([]repRow, len(records)),
	}
	if !sess.Open() {
		out.EndedAt = sess.EndedAt.Format(timeLayout)
	}
	for i, rec := range records {
		out.Reps[i] = repRow{
			Index:   rec.Index,
			Quality: rec.Quality,
			Seconds: rec.Seconds(),
			Best:    rec.Best,
			Line:    replog.Line(rec, columns),
		}
	}
	for _, e := range events {
		out.Events = append(out.Events, eventRow{
			Detector:  e.Detector,
			Kind:      e.Kind,
			Frame:     e.Frame,
			Value:     e.Value,
			Direction: e.Direction,
		})
	}

	if jsonOut {
		return printJSON(w, out)
	}

	ended := out.EndedAt
	if ended == "" {
		ended = "(open)"
	}
	fmt.Fprintf(w, "Session:    %s\n", out.SessionID)
	fmt.Fprintf(w, "Exercise:   %s\n", out.Exercise)
	fmt.Fprintf(w, "Plan:       %s\n", sess.Plan)
	fmt.Fprintf(w, "Started:    %s\n", out.StartedAt)
	fmt.Fprintf(w, "Ended:      %s\n", ended)
	fmt.Fprintf(w, "Reps:       %d (%d sets, %d suppressed)\n", out.Eval.Reps, out.Eval.Sets, out.Suppressed)
	fmt.Fprintf(w, "Tempo:      %.1f reps/min\n", out.Eval.Tempo)
	fmt.Fprintf(w, "Eval:       %s\n", out.Eval.Reason)

	if len(out.Reps) > 0 {
		fmt.Fprintf(w, "\n%s\n", replog.ColumnHeader(columns))
		for _, r := range out.Reps {
			fmt.Fprintln(w, r.Line)
		}
	}

	if len(out.Events) > 0 {
		fmt.Fprintf(w, "\nEvents:\n")
		for _, e := range out.Events {
			fmt.Fprintf(w, "  frame %-6d %-28s %-9s %8.3f %s\n", e.Frame, e.Detector, e.Kind, e.Value, e.Direction)
		}
	}
	return nil
}

// #endregion detail-mode

// #region catalogue-mode

func runCatalogueMode(w io.Writer, jsonOut bool) error {
	groups := profile.ByCategory()
	if jsonOut {
		return printJSON(w, groups)
	}
	for _, category := range profile.Categories() {
		fmt.Fprintf(w, "%s:\n", category)
		for _, info := range groups[category] {
			fmt.Fprintf(w, "  %-18s %-22s cooldown %2d  %s\n", info.ID, info.Name, info.Cooldown, info.Description)
		}
	}
	return nil
}

// #endregion catalogue-mode

// #region output

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output

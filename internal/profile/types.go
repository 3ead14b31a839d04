// Package profile declares exercises as data: required joints, a metrics
// function, start/target predicates, a quality classifier and a best-metric
// merge rule. The rep engine is generic over these bundles.
package profile

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/danielpatrickdp/formcheck/internal/errs"
	"github.com/danielpatrickdp/formcheck/internal/joints"
)

// #region snapshot
// Snapshot maps a metric name ("knee_angle", "squat_depth") to its value for
// one frame.
type Snapshot map[string]float64

// Get returns the named metric or NaN when absent.
func (s Snapshot) Get(name string) float64 {
	v, ok := s[name]
	if !ok {
		return math.NaN()
	}
	return v
}

// Clone returns an independent copy.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Finite returns a copy without NaN or infinite entries, which read as absent.
func (s Snapshot) Finite() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for k, v := range s {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

// String renders metrics sorted by name, e.g. "knee_angle=95.0 squat_depth=0.100".
func (s Snapshot) String() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%.3f", k, s[k])
	}
	return strings.Join(parts, " ")
}

// #endregion snapshot

// #region thresholds
// Thresholds holds a profile's tunable numeric constants by name.
type Thresholds map[string]float64

// With returns a copy of t with overrides applied. Unknown keys are kept so
// validation can report them.
func (t Thresholds) With(overrides Thresholds) Thresholds {
	out := make(Thresholds, len(t)+len(overrides))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// #endregion thresholds

// #region column
// Column is one extra field in the text rep log, rendered from the rep's best metrics.
type Column struct {
	Header string
	Format func(best Snapshot) string
}

// #endregion column

// #region instructions
// Instructions are the coaching prompts shown for each logical status.
// ReadyHint may append a cue derived from the most recent metrics.
type Instructions struct {
	InPosition string
	Return     string
	Ready      string
	ReadyHint  func(last Snapshot) string
}

// #endregion instructions

// #region profile
// Profile is an immutable exercise definition.
type Profile struct {
	ID          string
	Name        string
	Description string
	Category    string

	Joints     []joints.JointID
	Cooldown   int // frames between counted reps
	Thresholds Thresholds

	Metrics    func(s joints.Sample) Snapshot
	InPosition func(m Snapshot) bool
	AtStart    func(m Snapshot) bool
	Classify   func(best Snapshot) string
	Merge      func(current, best Snapshot) Snapshot

	Instructions Instructions
	LogColumns   []Column
}

// Validate reports the first missing capability as a MissingCapability error.
func (p *Profile) Validate() error {
	const op = "profile.Validate"
	missing := func(what string) error {
		return errs.New(errs.MissingCapability, op, p.ID+"."+what, nil)
	}
	switch {
	case p.ID == "":
		return missing("id")
	case len(p.Joints) == 0:
		return missing("joints")
	case p.Metrics == nil:
		return missing("metrics")
	case p.InPosition == nil:
		return missing("in_position")
	case p.AtStart == nil:
		return missing("at_start")
	case p.Classify == nil:
		return missing("classify")
	case p.Merge == nil:
		return missing("merge")
	case p.Cooldown < 0:
		return errs.New(errs.InvalidConfig, op, p.ID+".cooldown", fmt.Errorf("negative cooldown %d", p.Cooldown))
	}
	return nil
}

// DisplayName returns Name, falling back to ID.
func (p *Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// Instruction selects the prompt for the current status.
func (p *Profile) Instruction(active, mustReturn bool, last Snapshot) string {
	in := p.Instructions
	switch {
	case active:
		return in.InPosition
	case mustReturn:
		return in.Return
	}
	if in.ReadyHint != nil && last != nil {
		return in.Ready + in.ReadyHint(last)
	}
	return in.Ready
}

// #endregion profile

// #region info
// Info is the catalogue entry exposed to listing surfaces.
type Info struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Cooldown    int    `json:"cooldown_frames"`
}

// Info returns the profile's catalogue metadata.
func (p *Profile) Info() Info {
	return Info{ID: p.ID, Name: p.DisplayName(), Description: p.Description, Category: p.Category, Cooldown: p.Cooldown}
}

// #endregion info

const (
	LowerBody = "Lower Body"
	UpperBody = "Upper Body"
)

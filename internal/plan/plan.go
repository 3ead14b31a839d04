// Package plan describes the workout a session is expected to follow.
package plan

import "fmt"

// DefaultRepsPerSet is used when a plan leaves RepsPerSet unset.
const DefaultRepsPerSet = 10

// Plan is the expected shape of a session. Zero fields mean "not specified".
type Plan struct {
	Sets         int     `json:"sets"`
	RepsPerSet   int     `json:"reps_per_set"`
	TargetWeight float64 `json:"target_weight"`
	RestSeconds  int     `json:"rest_seconds"`
}

// Default is the plan assumed when none is supplied.
func Default() Plan {
	return Plan{Sets: 3, RepsPerSet: DefaultRepsPerSet, RestSeconds: 90}
}

// PerSet returns RepsPerSet or DefaultRepsPerSet.
func (p Plan) PerSet() int {
	if p.RepsPerSet > 0 {
		return p.RepsPerSet
	}
	return DefaultRepsPerSet
}

// CompletedSets is the number of full sets reps covers.
func (p Plan) CompletedSets(reps int) int {
	if reps <= 0 {
		return 0
	}
	return reps / p.PerSet()
}

// TotalReps is Sets * PerSet, or 0 when Sets is unset.
func (p Plan) TotalReps() int {
	if p.Sets <= 0 {
		return 0
	}
	return p.Sets * p.PerSet()
}

// Validate rejects negative fields.
func (p Plan) Validate() error {
	switch {
	case p.Sets < 0:
		return fmt.Errorf("plan: sets must be >= 0, got %d", p.Sets)
	case p.RepsPerSet < 0:
		return fmt.Errorf("plan: reps_per_set must be >= 0, got %d", p.RepsPerSet)
	case p.TargetWeight < 0:
		return fmt.Errorf("plan: target_weight must be >= 0, got %g", p.TargetWeight)
	case p.RestSeconds < 0:
		return fmt.Errorf("plan: rest_seconds must be >= 0, got %d", p.RestSeconds)
	}
	return nil
}

func (p Plan) String() string {
	s := fmt.Sprintf("%dx%d", p.Sets, p.PerSet())
	if p.TargetWeight > 0 {
		s += fmt.Sprintf(" @ %g", p.TargetWeight)
	}
	if p.RestSeconds > 0 {
		s += fmt.Sprintf(", rest %ds", p.RestSeconds)
	}
	return s
}

package joints

import (
	"encoding/json"
	"fmt"
	"strings"
)

// #region sample
// Sample maps every landmark to an optional position. The zero value is a
// sample with nothing detected.
type Sample struct {
	pos      [Count]Position
	detected [Count]bool
}

// NewSample builds a sample from a landmark map.
func NewSample(m map[JointID]Position) Sample {
	var s Sample
	for id, p := range m {
		s.Set(id, p)
	}
	return s
}

// Set marks id as detected at p. Out-of-range ids are ignored.
func (s *Sample) Set(id JointID, p Position) {
	if int(id) >= Count {
		return
	}
	s.pos[id] = p
	s.detected[id] = true
}

// Clear marks id as undetected.
func (s *Sample) Clear(id JointID) {
	if int(id) >= Count {
		return
	}
	s.pos[id] = Position{}
	s.detected[id] = false
}

// Get returns the position of id and whether it was detected.
func (s Sample) Get(id JointID) (Position, bool) {
	if int(id) >= Count || !s.detected[id] {
		return Position{}, false
	}
	return s.pos[id], true
}

// Has reports whether every id is detected.
func (s Sample) Has(ids ...JointID) bool {
	for _, id := range ids {
		if int(id) >= Count || !s.detected[id] {
			return false
		}
	}
	return true
}

// Missing returns the subset of ids that are not detected.
func (s Sample) Missing(ids ...JointID) []JointID {
	var out []JointID
	for _, id := range ids {
		if !s.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// Len returns the number of detected landmarks.
func (s Sample) Len() int {
	n := 0
	for _, d := range s.detected {
		if d {
			n++
		}
	}
	return n
}

// All returns the detected landmarks.
func (s Sample) All() map[JointID]Position {
	out := make(map[JointID]Position, s.Len())
	for i, d := range s.detected {
		if d {
			out[JointID(i)] = s.pos[i]
		}
	}
	return out
}

// #endregion sample

// #region naming
// String returns the landmark's canonical upper-snake name.
func (id JointID) String() string {
	if int(id) >= Count {
		return fmt.Sprintf("JointID(%d)", uint8(id))
	}
	return names[id]
}

// Names renders ids with String.
func Names(ids []JointID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// Parse resolves a landmark name, case-insensitively ("LEFT_HIP", "left_hip").
func Parse(name string) (JointID, error) {
	want := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range names {
		if n == want {
			return JointID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown joint %q", name)
}

// #endregion naming

// #region json
// MarshalJSON encodes detected landmarks as {"LEFT_HIP":[x,y,z],...}.
func (s Sample) MarshalJSON() ([]byte, error) {
	m := make(map[string][3]float64, s.Len())
	for i, d := range s.detected {
		if d {
			p := s.pos[i]
			m[names[i]] = [3]float64{p.X, p.Y, p.Z}
		}
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes the MarshalJSON form. Unknown landmark names fail.
func (s *Sample) UnmarshalJSON(data []byte) error {
	var m map[string][3]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = Sample{}
	for name, xyz := range m {
		id, err := Parse(name)
		if err != nil {
			return err
		}
		s.Set(id, Position{X: xyz[0], Y: xyz[1], Z: xyz[2]})
	}
	return nil
}

// #endregion json

package profile

import (
	"fmt"
	"sort"

	"github.com/danielpatrickdp/formcheck/internal/errs"
)

// #region registry
type entry struct {
	id       string
	defaults Thresholds
	build    func(t Thresholds) *Profile
}

// registry is in catalogue display order.
var registry = []entry{
	{"squat", squatDefaults, newSquat},
	{"shoulder_press", shoulderPressDefaults, newShoulderPress},
	{"deadlift", deadliftDefaults, newDeadlift},
	{"romanian_deadlift", romanianDeadliftDefaults, newRomanianDeadlift},
	{"calf_raise", calfRaiseDefaults, newCalfRaise},
	{"barbell_row", barbellRowDefaults, newBarbellRow},
	{"bicep_curl", bicepCurlDefaults, newBicepCurl},
	{"bench_press", benchPressDefaults, newBenchPress},
	{"front_raise", frontRaiseDefaults, newFrontRaise},
	{"dumbbell_fly", dumbbellFlyDefaults, newDumbbellFly},
}

func find(id string) (entry, bool) {
	for _, e := range registry {
		if e.id == id {
			return e, true
		}
	}
	return entry{}, false
}

// #endregion registry

// #region lookup
// Lookup returns the named profile with default thresholds.
func Lookup(id string) (*Profile, error) {
	return LookupWith(id, Override{})
}

// LookupWith returns the named profile with o applied. Unknown ids fail with
// UnknownExercise; unknown threshold names fail with InvalidConfig.
func LookupWith(id string, o Override) (*Profile, error) {
	const op = "profile.Lookup"
	e, ok := find(id)
	if !ok {
		return nil, errs.New(errs.UnknownExercise, op, id, fmt.Errorf("available: %v", IDs()))
	}
	for k := range o.Thresholds {
		if _, known := e.defaults[k]; !known {
			return nil, errs.New(errs.InvalidConfig, op, id+".thresholds."+k, nil)
		}
	}

	p := e.build(e.defaults.With(o.Thresholds))
	if o.Cooldown != nil {
		p.Cooldown = *o.Cooldown
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Defaults returns a copy of the named profile's default thresholds.
func Defaults(id string) (Thresholds, bool) {
	e, ok := find(id)
	if !ok {
		return nil, false
	}
	return e.defaults.With(nil), true
}

// IDs lists every exercise id in catalogue order.
func IDs() []string {
	out := make([]string, len(registry))
	for i, e := range registry {
		out[i] = e.id
	}
	return out
}

// #endregion lookup

// #region catalogue
// Catalogue lists metadata for every exercise in catalogue order.
func Catalogue() []Info {
	out := make([]Info, 0, len(registry))
	for _, e := range registry {
		out = append(out, e.build(e.defaults).Info())
	}
	return out
}

// ByCategory groups the catalogue by category; each group keeps catalogue order.
func ByCategory() map[string][]Info {
	out := make(map[string][]Info)
	for _, info := range Catalogue() {
		out[info.Category] = append(out[info.Category], info)
	}
	return out
}

// Categories returns the distinct categories, sorted.
func Categories() []string {
	groups := ByCategory()
	out := make([]string, 0, len(groups))
	for c := range groups {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// #endregion catalogue

func formatAngle(v float64) string {
	return fmt.Sprintf("%5.1f°", v)
}

package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielpatrickdp/formcheck/internal/errs"
)

// Override adjusts one exercise's cooldown and thresholds. Omitted fields
// keep their defaults.
type Override struct {
	Cooldown   *int       `json:"cooldown,omitempty"`
	Thresholds Thresholds `json:"thresholds,omitempty"`
}

// Overrides maps exercise id to its Override, as stored in a thresholds file:
//
//	{"squat": {"cooldown": 20, "thresholds": {"knee_angle": 95}}}
type Overrides map[string]Override

const maxOverrideFileSize = 1 * 1024 * 1024 // 1MB

// LoadOverrides reads and validates a thresholds file. The path must end in
// .json and the file must be under 1MB.
func LoadOverrides(path string) (Overrides, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("thresholds file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("stat thresholds file: %w", err)
	}
	if info.Size() > maxOverrideFileSize {
		return nil, fmt.Errorf("thresholds file too large: %d bytes (max %d)", info.Size(), maxOverrideFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read thresholds file: %w", err)
	}

	var o Overrides
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parse thresholds JSON: %w", err)
	}
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("invalid thresholds: %w", err)
	}
	return o, nil
}

// Validate checks every exercise id and threshold name against the catalogue.
func (o Overrides) Validate() error {
	for id, ov := range o {
		defaults, ok := Defaults(id)
		if !ok {
			return errs.New(errs.UnknownExercise, "profile.Overrides.Validate", id, nil)
		}
		if ov.Cooldown != nil && *ov.Cooldown < 0 {
			return errs.New(errs.InvalidConfig, "profile.Overrides.Validate", id+".cooldown", fmt.Errorf("cooldown must be >= 0, got %d", *ov.Cooldown))
		}
		for k := range ov.Thresholds {
			if _, known := defaults[k]; !known {
				return errs.New(errs.InvalidConfig, "profile.Overrides.Validate", id+".thresholds."+k, nil)
			}
		}
	}
	return nil
}

// Lookup resolves id with this file's override applied. A nil Overrides
// behaves like the package-level Lookup.
func (o Overrides) Lookup(id string) (*Profile, error) {
	return LookupWith(id, o[id])
}

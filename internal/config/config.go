// Package config loads and validates tracker configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/danielpatrickdp/formcheck/internal/plan"
)

// Render modes accepted by FORMCHECK_RENDER.
const (
	RenderHeadless = "headless"
	RenderOverlay  = "overlay"
)

// Config holds all tracker configuration.
type Config struct {
	// Storage.
	DBPath string
	LogDir string

	// Pose source.
	PoseAddr     string
	FrameTimeout time.Duration
	RecordPath   string // JSONL recording of received frames; empty disables

	// Session.
	Exercise       string
	Render         string
	Cooldown       *int   // overrides the profile cooldown when set
	Suppress       string // "discard" or "count"
	ThresholdsPath string
	Plan           plan.Plan

	// OTEL settings.
	OTELEndpoint string
	OTELInsecure bool
	ServiceName  string

	LogLevel string
}

// Load reads configuration from environment variables with defaults.
// Malformed values are reported together.
func Load() (Config, error) {
	var errs []error
	str := envStr
	num := func(key string, def int) int {
		v, err := envInt(key, def)
		errs = append(errs, err)
		return v
	}

	cfg := Config{
		DBPath:         str("FORMCHECK_DB", "formcheck.db"),
		LogDir:         str("FORMCHECK_LOG_DIR", "logs"),
		PoseAddr:       str("FORMCHECK_POSE_ADDR", "localhost:50052"),
		RecordPath:     str("FORMCHECK_RECORD", ""),
		Exercise:       str("FORMCHECK_EXERCISE", "squat"),
		Render:         strings.ToLower(str("FORMCHECK_RENDER", RenderHeadless)),
		Suppress:       strings.ToLower(str("FORMCHECK_SUPPRESS", "discard")),
		ThresholdsPath: str("FORMCHECK_THRESHOLDS", ""),
		OTELEndpoint:   str("FORMCHECK_OTEL_ENDPOINT", ""),
		ServiceName:    str("FORMCHECK_SERVICE_NAME", "formcheck"),
		LogLevel:       str("FORMCHECK_LOG_LEVEL", "info"),
		Plan: plan.Plan{
			Sets:        num("FORMCHECK_SETS", plan.Default().Sets),
			RepsPerSet:  num("FORMCHECK_REPS_PER_SET", plan.DefaultRepsPerSet),
			RestSeconds: num("FORMCHECK_REST_SECONDS", plan.Default().RestSeconds),
		},
	}

	var err error
	cfg.FrameTimeout, err = envDuration("FORMCHECK_FRAME_TIMEOUT", 5*time.Second)
	errs = append(errs, err)
	cfg.OTELInsecure, err = envBool("FORMCHECK_OTEL_INSECURE", false)
	errs = append(errs, err)
	cfg.Plan.TargetWeight, err = envFloat("FORMCHECK_TARGET_WEIGHT", 0)
	errs = append(errs, err)
	if _, set := os.LookupEnv("FORMCHECK_COOLDOWN"); set {
		n, err := envInt("FORMCHECK_COOLDOWN", 0)
		errs = append(errs, err)
		cfg.Cooldown = &n
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that parse but make no sense.
func (c Config) Validate() error {
	switch {
	case c.Exercise == "":
		return fmt.Errorf("config: FORMCHECK_EXERCISE is required")
	case c.Render != RenderHeadless && c.Render != RenderOverlay:
		return fmt.Errorf("config: FORMCHECK_RENDER must be %q or %q, got %q", RenderHeadless, RenderOverlay, c.Render)
	case c.Suppress != "discard" && c.Suppress != "count":
		return fmt.Errorf("config: FORMCHECK_SUPPRESS must be \"discard\" or \"count\", got %q", c.Suppress)
	case c.Cooldown != nil && *c.Cooldown < 0:
		return fmt.Errorf("config: FORMCHECK_COOLDOWN must be >= 0, got %d", *c.Cooldown)
	case c.FrameTimeout <= 0:
		return fmt.Errorf("config: FORMCHECK_FRAME_TIMEOUT must be positive")
	}
	if err := c.Plan.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level; anything unrecognized is Info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal, fmt.Errorf("%s=%q is not a valid integer", key, v)
	}
	return n, nil
}

func envFloat(key string, defaultVal float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal, fmt.Errorf("%s=%q is not a valid number", key, v)
	}
	return f, nil
}

func envBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal, fmt.Errorf("%s=%q is not a valid boolean", key, v)
	}
	return b, nil
}

func envDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal, fmt.Errorf("%s=%q is not a valid duration", key, v)
	}
	return d, nil
}

// Package errs defines the closed set of failure kinds surfaced by the
// tracking engine and its collaborators.
package errs

import (
	"errors"
	"fmt"
)

// #region kind
// Kind enumerates the failure categories callers can branch on.
type Kind string

const (
	UnknownExercise   Kind = "unknown_exercise"
	InvalidAxis       Kind = "invalid_axis"
	MissingCapability Kind = "missing_capability"
	SinkUnavailable   Kind = "sink_unavailable"
	InvalidConfig     Kind = "invalid_config" // malformed or out-of-range configuration value
)

// #endregion kind

// #region error
// Error carries a Kind plus the operation and subject that produced it.
type Error struct {
	Kind    Kind
	Op      string // e.g. "profile.Lookup"
	Subject string // exercise id, axis name, capability, sink path
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Subject != "" {
		msg += fmt.Sprintf(" %q", e.Subject)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an *Error.
func New(kind Kind, op, subject string, err error) *Error {
	return &Error{Kind: kind, Op: op, Subject: subject, Err: err}
}

// #endregion error

// #region predicates
// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func IsUnknownExercise(err error) bool   { return Is(err, UnknownExercise) }
func IsInvalidAxis(err error) bool       { return Is(err, InvalidAxis) }
func IsMissingCapability(err error) bool { return Is(err, MissingCapability) }
func IsSinkUnavailable(err error) bool   { return Is(err, SinkUnavailable) }
func IsInvalidConfig(err error) bool     { return Is(err, InvalidConfig) }

// #endregion predicates

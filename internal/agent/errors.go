package agent

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures.
type Kind string

const (
	KindInvalid          Kind = "invalid"
	KindNotFound         Kind = "not_found"
	KindLaunchFailed     Kind = "launch_failed"
	KindActivationFailed Kind = "activation_failed"
	KindTypingFailed     Kind = "typing_failed"
	KindUnexpected       Kind = "unexpected"
)

// Error is a pipeline failure with its kind.
type Error struct {
	Kind Kind
	// Target is the app or executable the failure concerns.
	Target string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("Application '%s' not found. Make sure it's in PATH or provide the full path.", e.Target)
	case KindInvalid:
		return fmt.Sprintf("invalid request: %v", e.Err)
	case KindLaunchFailed:
		return fmt.Sprintf("failed to launch '%s': %v", e.Target, e.Err)
	case KindActivationFailed:
		return fmt.Sprintf("could not focus window: %v", e.Err)
	case KindTypingFailed:
		return fmt.Sprintf("typing failed: %v", e.Err)
	default:
		return fmt.Sprintf("An unexpected error occurred: %v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or KindUnexpected for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// Warning is a non-fatal failure reported alongside a successful launch.
type Warning struct {
	Kind    Kind   `yaml:"kind"    json:"kind"`
	Message string `yaml:"message" json:"message"`
}

package coord

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks invalid run parameters. Nothing is attempted.
	ErrConfig = errors.New("invalid run configuration")

	// ErrResource marks an allocation failure while setting up tasks.
	// It is fatal to the whole run and reported before any task starts.
	ErrResource = errors.New("task allocation failed")
)

// RunError wraps a fatal coordinator failure with its classification.
type RunError struct {
	Kind error
	Msg  string
}

func (e *RunError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *RunError) Unwrap() error { return e.Kind }

func configf(format string, args ...any) error {
	return &RunError{Kind: ErrConfig, Msg: fmt.Sprintf(format, args...)}
}

func resourcef(format string, args ...any) error {
	return &RunError{Kind: ErrResource, Msg: fmt.Sprintf(format, args...)}
}

package errors

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/focusboard/internal/logger"
)

// HintError is an error carrying a suggestion for the user.
type HintError struct {
	Err  error
	Hint string
}

func (e *HintError) Error() string { return e.Err.Error() }

func (e *HintError) Unwrap() error { return e.Err }

// WithHint attaches a user-facing suggestion to err.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return &HintError{Err: err, Hint: hint}
}

// Format formats an error message with a consistent "Error: " prefix,
// followed by any hint found in the chain.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	var he *HintError
	if errors.As(err, &he) && he.Hint != "" {
		msg += "\n  hint: " + he.Hint
	}
	return msg
}

// Report writes the formatted error to w and logs it.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(w, Format(err))
}

// Fatal reports err on stderr and exits with code 1
func Fatal(err error) {
	if err != nil {
		Report(os.Stderr, err)
		os.Exit(1)
	}
}

package player

import (
	"errors"
	"fmt"

	"github.com/YatoVoid/Macro-Tool/internal/model"
)

// Errors returned by playback operations.
var (
	// ErrInvalidSpeed is returned for a speed factor that is not positive.
	ErrInvalidSpeed = errors.New("invalid speed multiplier")

	// ErrEmptyMacro is returned when a macro has no actions to play.
	ErrEmptyMacro = errors.New("macro has no actions")

	// ErrCanceled is reported by a handle whose run was canceled.
	ErrCanceled = errors.New("playback canceled")
)

// PlaybackError wraps a sink failure with the action that triggered it.
// A failed action terminates the run; skipping it would desynchronize
// the rest of a recorded sequence.
type PlaybackError struct {
	Index  int
	Action model.Action
	Err    error
}

// Error implements the error interface.
func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback failed at action %d (%s): %v", e.Index, e.Action.Kind, e.Err)
}

// Unwrap returns the underlying sink error.
func (e *PlaybackError) Unwrap() error {
	return e.Err
}

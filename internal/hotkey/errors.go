package hotkey

import "errors"

// Errors returned when installing hotkey bindings.
var (
	// ErrAmbiguousBinding is returned when two bindings share a chord, or
	// a start/record binding collides with the fixed Enter stop key.
	ErrAmbiguousBinding = errors.New("ambiguous hotkey binding")

	// ErrInvalidBinding is returned for a chord string that cannot be
	// parsed.
	ErrInvalidBinding = errors.New("invalid hotkey binding")
)

package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrBusy is returned when a request requires the engine to be idle.
	ErrBusy = errors.New("engine is busy")

	// ErrNoMacro is returned when Start is requested with no active macro.
	ErrNoMacro = errors.New("no macro selected")

	// ErrNotStarted is returned when signaling an engine whose control
	// loop is not running.
	ErrNotStarted = errors.New("engine not started")

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("engine already started")
)

package recorder

import "errors"

// Errors returned by recorder operations.
var (
	// ErrNotRecording is returned by Stop when no capture was started.
	ErrNotRecording = errors.New("not recording")

	// ErrAlreadyRecording is returned by Start while a capture is running.
	ErrAlreadyRecording = errors.New("already recording")
)

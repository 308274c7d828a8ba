package input

import "errors"

// Errors reported by input sources and sinks.
var (
	// ErrCaptureUnavailable indicates the global event feed could not be
	// established, e.g. an unsupported display-server session.
	ErrCaptureUnavailable = errors.New("input capture unavailable")

	// ErrCapabilityDenied indicates the platform refused an injection call.
	ErrCapabilityDenied = errors.New("input capability denied")

	// ErrInvalidTarget indicates an injection call named an unknown button
	// or key.
	ErrInvalidTarget = errors.New("invalid input target")
)

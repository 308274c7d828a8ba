package engine

import "github.com/YatoVoid/Macro-Tool/internal/model"

// State is what the engine is currently doing. At most one of the
// recorder and the player is active in any state; that is the invariant
// the engine exists to enforce.
type State uint8

const (
	StateIdle State = iota
	StateRunning
	StateRecording
)

// String implements fmt.Stringer for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateRecording:
		return "recording"
	}
	return "unknown"
}

// SignalKind is a control request sent to the engine by the UI or the
// hotkey listener. Signals that do not apply to the current state are
// ignored, never queued.
type SignalKind uint8

const (
	SignalStart SignalKind = iota
	SignalStop
	SignalToggleRecord
)

// String implements fmt.Stringer for logging.
func (k SignalKind) String() string {
	switch k {
	case SignalStart:
		return "start"
	case SignalStop:
		return "stop"
	case SignalToggleRecord:
		return "toggle-record"
	}
	return "unknown"
}

// EventKind classifies engine notifications.
type EventKind uint8

const (
	// EventStateChanged reports a transition; Event.State holds the new
	// state.
	EventStateChanged EventKind = iota
	// EventRunFinished reports the end of a playback run; Event.Err is
	// nil for completion, player.ErrCanceled for a stop, or a
	// *player.PlaybackError.
	EventRunFinished
	// EventRecordingDone reports a finished recording; Event.Macro holds
	// the captured macro, possibly truncated if Event.Err is set.
	EventRecordingDone
	// EventError reports a failure that did not change state.
	EventError
)

// Event is a notification published to engine subscribers.
type Event struct {
	Kind  EventKind
	State State
	Err   error
	Macro *model.Macro
}

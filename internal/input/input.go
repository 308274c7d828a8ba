// Package input abstracts OS-level input capture and injection so the
// recorder, player and hotkey listener can be driven by synthetic
// events in tests and by gohook/robotgo in production.
package input

import "time"

// EventKind classifies a captured input event.
type EventKind uint8

const (
	KindMouseMove EventKind = iota
	KindMouseDown
	KindMouseUp
	KindMouseWheel
	KindKeyDown
	KindKeyUp
)

// Event is one global input event as delivered by a Source.
type Event struct {
	Kind    EventKind
	Key     string // normalized key name for key events
	Button  string // left, right, center
	X, Y    int    // pointer position for mouse events
	ScrollX int
	ScrollY int
	When    time.Time
}

// Source is a push-style feed of global input events. Subscribe returns a
// bounded event channel and a cancel function that releases the
// subscription; the channel is closed when the subscription ends or the
// underlying capture shuts down. Each consumer gets its own channel so a
// slow consumer cannot stall capture.
type Source interface {
	Subscribe() (<-chan Event, func(), error)
}

// Sink injects input events into the operating system.
type Sink interface {
	MoveTo(x, y int) error
	Click(button string, x, y int) error
	KeyDown(key string) error
	KeyUp(key string) error
	Scroll(dx, dy int) error
	Location() (int, int)
}

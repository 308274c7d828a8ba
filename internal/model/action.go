package model

import "time"

// ActionKind identifies what a single action does when replayed.
type ActionKind string

const (
	MouseMove   ActionKind = "move"
	MouseClick  ActionKind = "click"
	MouseScroll ActionKind = "scroll"
	KeyPress    ActionKind = "key_down"
	KeyRelease  ActionKind = "key_up"
)

// Action represents one input event with its timing.
// Delays are stored as integral milliseconds so a macro survives
// save/load cycles without floating-point drift.
type Action struct {
	Kind    ActionKind `json:"kind"`
	X       int        `json:"x,omitempty"`        // Mouse X coordinate
	Y       int        `json:"y,omitempty"`        // Mouse Y coordinate
	Button  string     `json:"button,omitempty"`   // Mouse button: left, right, center
	Key     string     `json:"key,omitempty"`      // Key name for key actions
	ScrollX int        `json:"scroll_x,omitempty"` // Horizontal scroll amount
	ScrollY int        `json:"scroll_y,omitempty"` // Vertical scroll amount
	DelayMS int64      `json:"delay_ms"`           // Wait before this action, in milliseconds
}

// HasPosition reports whether the action carries a screen coordinate.
func (a Action) HasPosition() bool {
	switch a.Kind {
	case MouseMove, MouseClick, MouseScroll:
		return true
	}
	return false
}

// Delay returns the wait before this action as a duration.
func (a Action) Delay() time.Duration {
	return time.Duration(a.DelayMS) * time.Millisecond
}

// SetDelay stores d as milliseconds, clamping negative values to zero.
func (a *Action) SetDelay(d time.Duration) {
	if d < 0 {
		d = 0
	}
	a.DelayMS = d.Milliseconds()
}

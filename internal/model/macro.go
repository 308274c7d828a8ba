package model

// Mode describes how a macro was authored.
type Mode string

const (
	ModeSingle   Mode = "single"   // one action repeated at a fixed delay
	ModeMulti    Mode = "multi"    // an authored ordered list of actions
	ModeRecorded Mode = "recorded" // a captured live session
)

// RepeatPolicy controls whether playback runs one pass or loops until stopped.
type RepeatPolicy string

const (
	RepeatOnce RepeatPolicy = "once"
	RepeatLoop RepeatPolicy = "loop"
)

// Macro is an ordered sequence of actions plus replay metadata.
// A macro is owned by exactly one component at a time: the recorder while
// capturing, the player while replaying, the store or GUI otherwise.
type Macro struct {
	ID      string       `json:"id,omitempty"`
	Name    string       `json:"name,omitempty"`
	Mode    Mode         `json:"mode"`
	Repeat  RepeatPolicy `json:"repeat"`
	Actions []Action     `json:"actions"`
}

// Clone returns a deep copy so ownership can transfer without aliasing.
func (m Macro) Clone() Macro {
	out := m
	out.Actions = make([]Action, len(m.Actions))
	copy(out.Actions, m.Actions)
	return out
}

// HotkeyBinding maps logical engine signals to key chords such as "f9"
// or "ctrl+shift+f9". Read-only to the engine while it is running.
type HotkeyBinding struct {
	Start        string `json:"start"`
	Stop         string `json:"stop"`
	ToggleRecord string `json:"toggle_record"`
}

// DefaultBinding returns the stock F9/F10/F8 layout.
func DefaultBinding() HotkeyBinding {
	return HotkeyBinding{
		Start:        "f9",
		Stop:         "f10",
		ToggleRecord: "f8",
	}
}

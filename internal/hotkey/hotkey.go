// Package hotkey matches global key events against configured chords
// and raises semantic control signals.
package hotkey

import (
	"fmt"
	"log/slog"

	"github.com/YatoVoid/Macro-Tool/internal/input"
	"github.com/YatoVoid/Macro-Tool/internal/model"
)

// Signal is a semantic control request raised by a hotkey press.
type Signal uint8

const (
	SignalStart Signal = iota
	SignalStop
	SignalToggleRecord
)

// String implements fmt.Stringer for logging.
func (s Signal) String() string {
	switch s {
	case SignalStart:
		return "start"
	case SignalStop:
		return "stop"
	case SignalToggleRecord:
		return "toggle-record"
	}
	return "unknown"
}

// enterKey always acts as an implicit Stop while the engine is busy,
// independent of configured bindings. Legacy convenience behavior.
const enterKey = "enter"

// Listener watches a source for bound chords. One signal is emitted per
// physical key-down edge; OS key-repeat events while a key is held do
// not re-fire.
type Listener struct {
	signals chan Signal
	cancel  func()
	log     *slog.Logger
}

// Watch validates the bindings, subscribes to the source and starts
// matching. Overlapping chords are a configuration error caught here,
// not a runtime race.
func Watch(bindings model.HotkeyBinding, src input.Source) (*Listener, error) {
	chords, err := compile(bindings)
	if err != nil {
		return nil, err
	}

	events, cancel, err := src.Subscribe()
	if err != nil {
		return nil, err
	}

	l := &Listener{
		signals: make(chan Signal, 16),
		cancel:  cancel,
		log:     slog.Default().With("component", "hotkey"),
	}
	go l.watch(events, chords)
	return l, nil
}

// Signals delivers matched control signals in press order. The channel
// is closed when the listener is closed or capture ends.
func (l *Listener) Signals() <-chan Signal {
	return l.signals
}

// Close releases the source subscription.
func (l *Listener) Close() {
	l.cancel()
}

type binding struct {
	chord  Chord
	signal Signal
}

func compile(b model.HotkeyBinding) ([]binding, error) {
	specs := []struct {
		raw    string
		signal Signal
	}{
		{b.Start, SignalStart},
		{b.Stop, SignalStop},
		{b.ToggleRecord, SignalToggleRecord},
	}

	var out []binding
	seen := make(map[string]Signal)
	for _, spec := range specs {
		if spec.raw == "" {
			continue
		}
		chord, err := ParseChord(spec.raw)
		if err != nil {
			return nil, err
		}
		key := chord.String()
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %q bound to both %s and %s", ErrAmbiguousBinding, key, prev, spec.signal)
		}
		// Enter is reserved as the implicit stop key; binding it to
		// anything but Stop would make a single press mean two things.
		if key == enterKey && spec.signal != SignalStop {
			return nil, fmt.Errorf("%w: enter is reserved for stop", ErrAmbiguousBinding)
		}
		seen[key] = spec.signal
		out = append(out, binding{chord: chord, signal: spec.signal})
	}
	return out, nil
}

func (l *Listener) watch(events <-chan input.Event, bindings []binding) {
	defer close(l.signals)

	keysDown := make(map[string]bool) // rising-edge tracking per physical key
	modsDown := make(map[string]bool)

	for ev := range events {
		switch ev.Kind {
		case input.KindKeyDown:
			key := normalizeKey(ev.Key)
			if modifierNames[key] {
				modsDown[key] = true
				continue
			}
			if keysDown[key] {
				continue // key repeat while held
			}
			keysDown[key] = true
			l.match(key, modsDown, bindings)

		case input.KindKeyUp:
			key := normalizeKey(ev.Key)
			if modifierNames[key] {
				delete(modsDown, key)
				continue
			}
			delete(keysDown, key)
		}
	}
}

func (l *Listener) match(key string, modsDown map[string]bool, bindings []binding) {
	for _, b := range bindings {
		if b.chord.matches(key, modsDown) {
			l.emit(b.signal)
			return
		}
	}
	// Implicit stop: a bare Enter press not claimed by any binding.
	if key == enterKey && len(modsDown) == 0 {
		l.emit(SignalStop)
	}
}

func (l *Listener) emit(s Signal) {
	select {
	case l.signals <- s:
	default:
		l.log.Warn("signal dropped, consumer not draining", "signal", s)
	}
}

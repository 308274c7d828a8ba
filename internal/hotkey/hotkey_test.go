package hotkey

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/YatoVoid/Macro-Tool/internal/input"
	"github.com/YatoVoid/Macro-Tool/internal/model"
)

type fakeSource struct {
	ch   chan input.Event
	once sync.Once
}

func newFakeSource() *fakeSource {
	return &fakeSource{ch: make(chan input.Event, 64)}
}

func (f *fakeSource) Subscribe() (<-chan input.Event, func(), error) {
	return f.ch, func() { f.once.Do(func() { close(f.ch) }) }, nil
}

func (f *fakeSource) press(key string) {
	f.ch <- input.Event{Kind: input.KindKeyDown, Key: key}
}

func (f *fakeSource) release(key string) {
	f.ch <- input.Event{Kind: input.KindKeyUp, Key: key}
}

// collect drains signals arriving within the window.
func collect(t *testing.T, l *Listener, window time.Duration) []Signal {
	t.Helper()
	var out []Signal
	deadline := time.After(window)
	for {
		select {
		case s, ok := <-l.Signals():
			if !ok {
				return out
			}
			out = append(out, s)
		case <-deadline:
			return out
		}
	}
}

func TestWatch_AmbiguousBinding(t *testing.T) {
	_, err := Watch(model.HotkeyBinding{Start: "f9", Stop: "f9"}, newFakeSource())
	if !errors.Is(err, ErrAmbiguousBinding) {
		t.Fatalf("duplicate chord: got %v, want ErrAmbiguousBinding", err)
	}
}

func TestWatch_EnterReservedForStop(t *testing.T) {
	_, err := Watch(model.HotkeyBinding{Start: "enter", Stop: "f10"}, newFakeSource())
	if !errors.Is(err, ErrAmbiguousBinding) {
		t.Fatalf("start=enter: got %v, want ErrAmbiguousBinding", err)
	}
}

func TestWatch_InvalidChord(t *testing.T) {
	_, err := Watch(model.HotkeyBinding{Start: "ctrl+"}, newFakeSource())
	if !errors.Is(err, ErrInvalidBinding) {
		t.Fatalf("trailing plus: got %v, want ErrInvalidBinding", err)
	}
}

func TestWatch_OneSignalPerKeyDownEdge(t *testing.T) {
	src := newFakeSource()
	l, err := Watch(model.DefaultBinding(), src)
	if err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}
	defer l.Close()

	// Synthetic key repeat: three downs inside one physical press.
	src.press("f9")
	src.press("f9")
	src.press("f9")
	src.release("f9")
	src.press("f9")

	got := collect(t, l, 100*time.Millisecond)
	if len(got) != 2 {
		t.Fatalf("signals = %v, want exactly 2 Start edges", got)
	}
	for _, s := range got {
		if s != SignalStart {
			t.Errorf("unexpected signal %v", s)
		}
	}
}

func TestWatch_AllBindings(t *testing.T) {
	src := newFakeSource()
	l, err := Watch(model.DefaultBinding(), src)
	if err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}
	defer l.Close()

	src.press("f9")
	src.release("f9")
	src.press("f10")
	src.release("f10")
	src.press("f8")
	src.release("f8")

	got := collect(t, l, 100*time.Millisecond)
	want := []Signal{SignalStart, SignalStop, SignalToggleRecord}
	if len(got) != len(want) {
		t.Fatalf("signals = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("signals[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestWatch_EnterImplicitStop(t *testing.T) {
	src := newFakeSource()
	l, err := Watch(model.DefaultBinding(), src)
	if err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}
	defer l.Close()

	src.press("enter")

	got := collect(t, l, 100*time.Millisecond)
	if len(got) != 1 || got[0] != SignalStop {
		t.Fatalf("signals = %v, want one implicit Stop", got)
	}
}

func TestWatch_ChordRequiresExactModifiers(t *testing.T) {
	src := newFakeSource()
	l, err := Watch(model.HotkeyBinding{Start: "ctrl+shift+f9", Stop: "f10"}, src)
	if err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}
	defer l.Close()

	// Bare f9: no match.
	src.press("f9")
	src.release("f9")
	// Only ctrl held: no match.
	src.press("ctrl")
	src.press("f9")
	src.release("f9")
	// ctrl+shift held: match.
	src.press("shift")
	src.press("f9")
	src.release("f9")
	src.release("shift")
	src.release("ctrl")

	got := collect(t, l, 100*time.Millisecond)
	if len(got) != 1 || got[0] != SignalStart {
		t.Fatalf("signals = %v, want exactly one chord match", got)
	}
}

func TestParseChord_Normalization(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"F9", "f9"},
		{"cmd+c", "command+c"},
		{"CTRL+Shift+a", "control+shift+a"},
		{"return", "enter"},
	}
	for _, tt := range tests {
		chord, err := ParseChord(tt.in)
		if err != nil {
			t.Errorf("ParseChord(%q) failed: %v", tt.in, err)
			continue
		}
		if chord.String() != tt.want {
			t.Errorf("ParseChord(%q) = %q, want %q", tt.in, chord.String(), tt.want)
		}
	}
}

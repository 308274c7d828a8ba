package recorder

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/YatoVoid/Macro-Tool/internal/input"
	"github.com/YatoVoid/Macro-Tool/internal/model"
)

// fakeSource feeds synthetic events over a single subscription.
type fakeSource struct {
	ch   chan input.Event
	once sync.Once
}

func newFakeSource() *fakeSource {
	return &fakeSource{ch: make(chan input.Event, 64)}
}

func (f *fakeSource) Subscribe() (<-chan input.Event, func(), error) {
	return f.ch, func() { f.close() }, nil
}

func (f *fakeSource) close() {
	f.once.Do(func() { close(f.ch) })
}

func (f *fakeSource) emit(ev input.Event) {
	f.ch <- ev
}

func TestStop_WithoutStart(t *testing.T) {
	r := New()
	if _, err := r.Stop(); !errors.Is(err, ErrNotRecording) {
		t.Fatalf("Stop() without Start: got %v, want ErrNotRecording", err)
	}
}

func TestStart_Twice(t *testing.T) {
	r := New()
	src := newFakeSource()
	if err := r.Start(src); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := r.Start(src); !errors.Is(err, ErrAlreadyRecording) {
		t.Fatalf("second Start(): got %v, want ErrAlreadyRecording", err)
	}
	r.Stop()
}

// Gaps must come from capture timestamps. The events are queued up
// front and drained in one burst, the way a consumer lagging the
// bounded subscription queue would see them; drain-time clocks would
// collapse every gap to zero here.
func TestRecord_InterEventGaps(t *testing.T) {
	r := New()
	src := newFakeSource()

	base := time.Now()
	src.emit(input.Event{Kind: input.KindMouseDown, Button: "left", X: 1, Y: 2, When: base})
	src.emit(input.Event{Kind: input.KindMouseDown, Button: "left", X: 3, Y: 4, When: base.Add(120 * time.Millisecond)})
	src.emit(input.Event{Kind: input.KindKeyDown, Key: "a", When: base.Add(420 * time.Millisecond)})

	if err := r.Start(src); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	macro, err := r.Stop()
	if err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if macro.Mode != model.ModeRecorded {
		t.Errorf("mode = %s, want recorded", macro.Mode)
	}
	if len(macro.Actions) != 3 {
		t.Fatalf("captured %d actions, want 3", len(macro.Actions))
	}

	want := []int64{0, 120, 300}
	for i, ms := range want {
		if macro.Actions[i].DelayMS != ms {
			t.Errorf("actions[%d].DelayMS = %d, want %d", i, macro.Actions[i].DelayMS, ms)
		}
	}
}

func TestRecord_ArrivalOrderPreserved(t *testing.T) {
	r := New()
	src := newFakeSource()
	if err := r.Start(src); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	src.emit(input.Event{Kind: input.KindKeyDown, Key: "a"})
	src.emit(input.Event{Kind: input.KindKeyUp, Key: "a"})
	src.emit(input.Event{Kind: input.KindMouseWheel, ScrollY: -2, X: 7, Y: 8})
	time.Sleep(20 * time.Millisecond)

	macro, err := r.Stop()
	if err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	want := []model.ActionKind{model.KeyPress, model.KeyRelease, model.MouseScroll}
	if len(macro.Actions) != len(want) {
		t.Fatalf("captured %d actions, want %d", len(macro.Actions), len(want))
	}
	for i, kind := range want {
		if macro.Actions[i].Kind != kind {
			t.Errorf("actions[%d].Kind = %s, want %s", i, macro.Actions[i].Kind, kind)
		}
	}
	if macro.Actions[2].ScrollY != -2 {
		t.Errorf("scroll amount not preserved: %+v", macro.Actions[2])
	}
}

func TestRecord_MergesMoveBursts(t *testing.T) {
	r := New()
	src := newFakeSource()
	if err := r.Start(src); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	// Back-to-back moves land well inside the merge floor.
	src.emit(input.Event{Kind: input.KindMouseMove, X: 1, Y: 1})
	src.emit(input.Event{Kind: input.KindMouseMove, X: 2, Y: 2})
	src.emit(input.Event{Kind: input.KindMouseMove, X: 3, Y: 3})
	time.Sleep(20 * time.Millisecond)

	macro, err := r.Stop()
	if err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if len(macro.Actions) != 1 {
		t.Fatalf("captured %d actions, want 1 merged move", len(macro.Actions))
	}
	if macro.Actions[0].X != 3 || macro.Actions[0].Y != 3 {
		t.Errorf("merged move kept stale coords: %+v", macro.Actions[0])
	}
}

func TestRecord_IgnoresFilteredKeys(t *testing.T) {
	r := New()
	src := newFakeSource()
	if err := r.Start(src, "enter", "f10"); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	src.emit(input.Event{Kind: input.KindKeyDown, Key: "a"})
	src.emit(input.Event{Kind: input.KindKeyDown, Key: "enter"})
	src.emit(input.Event{Kind: input.KindKeyUp, Key: "enter"})
	src.emit(input.Event{Kind: input.KindKeyDown, Key: "f10"})
	time.Sleep(20 * time.Millisecond)

	macro, err := r.Stop()
	if err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if len(macro.Actions) != 1 || macro.Actions[0].Key != "a" {
		t.Errorf("filter leaked stop keys into the macro: %+v", macro.Actions)
	}
}

// Events already queued when Stop is called were captured before the
// stop and must land in the macro, however quickly Stop follows them.
func TestRecord_StopDrainsBufferedEvents(t *testing.T) {
	r := New()
	src := newFakeSource()
	if err := r.Start(src); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	src.emit(input.Event{Kind: input.KindMouseDown, Button: "left", X: 1, Y: 1})
	src.emit(input.Event{Kind: input.KindKeyDown, Key: "a"})
	src.emit(input.Event{Kind: input.KindKeyUp, Key: "a"})

	macro, err := r.Stop()
	if err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if len(macro.Actions) != 3 {
		t.Fatalf("captured %d actions, want all 3 queued before Stop", len(macro.Actions))
	}
}

func TestRecord_FeedDiesMidCapture(t *testing.T) {
	r := New()
	src := newFakeSource()
	if err := r.Start(src); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	src.emit(input.Event{Kind: input.KindMouseDown, Button: "left", X: 1, Y: 2})
	time.Sleep(20 * time.Millisecond)
	src.close() // capture dies underneath the recorder
	time.Sleep(20 * time.Millisecond)

	macro, err := r.Stop()
	if !errors.Is(err, input.ErrCaptureUnavailable) {
		t.Fatalf("Stop() after feed death: got %v, want ErrCaptureUnavailable", err)
	}
	if len(macro.Actions) != 1 {
		t.Errorf("partial recording lost: %d actions, want 1", len(macro.Actions))
	}
}

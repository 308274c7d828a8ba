// Package recorder turns a stream of captured input events into an
// ordered, timestamped macro.
package recorder

import (
	"log/slog"
	"sync"
	"time"

	"github.com/YatoVoid/Macro-Tool/internal/input"
	"github.com/YatoVoid/Macro-Tool/internal/model"
)

// moveMergeFloor caps macro growth under fast pointer sampling:
// consecutive mouse moves closer together than this are merged into the
// previous move. Fixed on purpose; a configurable floor would make
// replay behavior unpredictable across setups.
const moveMergeFloor = 5 * time.Millisecond

// Recorder captures input events into a macro between explicit Start and
// Stop calls. It holds no reference to the engine, so it can be fed a
// synthetic source in tests.
type Recorder struct {
	mu        sync.Mutex
	recording bool
	actions   []model.Action
	lastAt    time.Time // arrival time of the last appended event, monotonic
	started   bool      // true once the first event landed
	ignore    map[string]bool
	cancel    func()
	done      chan struct{}
	feedErr   error
	log       *slog.Logger
}

// New returns an idle recorder.
func New() *Recorder {
	return &Recorder{log: slog.Default().With("component", "recorder")}
}

// Start subscribes to the source and begins capturing. ignoreKeys names
// keys whose press/release events are excluded from the macro; the
// engine passes the stop hotkey and Enter here so the keystroke that
// ends a recording never becomes part of it.
func (r *Recorder) Start(src input.Source, ignoreKeys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		return ErrAlreadyRecording
	}

	events, cancel, err := src.Subscribe()
	if err != nil {
		return err
	}

	r.recording = true
	r.started = false
	r.actions = nil
	r.feedErr = nil
	r.cancel = cancel
	r.done = make(chan struct{})
	r.ignore = make(map[string]bool, len(ignoreKeys))
	for _, k := range ignoreKeys {
		r.ignore[k] = true
	}

	go r.capture(events)
	return nil
}

// Stop finishes the capture and returns the recorded macro. Events
// already queued in the subscription at the stop point were physically
// captured before it, so Stop waits for the capture goroutine to drain
// and append them. If the capture feed died mid-recording the partial
// macro is still returned, together with the feed error; a truncated
// recording is still useful.
func (r *Recorder) Stop() (model.Macro, error) {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return model.Macro{}, ErrNotRecording
	}
	r.recording = false
	cancel := r.cancel
	done := r.done
	r.mu.Unlock()

	cancel()
	<-done

	r.mu.Lock()
	defer r.mu.Unlock()
	macro := model.Macro{
		Mode:    model.ModeRecorded,
		Repeat:  model.RepeatOnce,
		Actions: r.actions,
	}
	r.actions = nil
	r.log.Info("recording stopped", "actions", len(macro.Actions))
	return macro, r.feedErr
}

// Recording reports whether a capture is in progress.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Count returns the number of actions captured so far.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.actions)
}

func (r *Recorder) capture(events <-chan input.Event) {
	defer close(r.done)
	for ev := range events {
		r.append(ev)
	}
	// Feed closed before Stop: capture died underneath us.
	r.mu.Lock()
	if r.recording {
		r.feedErr = input.ErrCaptureUnavailable
		r.log.Warn("capture feed closed mid-recording", "actions", len(r.actions))
	}
	r.mu.Unlock()
}

// append converts one event and timestamps it with the monotonic gap
// since the previous appended event. Arrival order is authoritative.
// Gaps come from the event's capture timestamp, not from drain time:
// the subscription queue is bounded and a consumer may lag it, which
// must never compress or stretch recorded delays.
func (r *Recorder) append(ev input.Event) {
	act, ok := r.convert(ev)
	if !ok {
		return
	}

	at := ev.When
	if at.IsZero() {
		at = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		r.started = true
		r.lastAt = at
		act.DelayMS = 0
		r.actions = append(r.actions, act)
		return
	}

	gap := at.Sub(r.lastAt)

	// Merge bursts of pointer moves: update the previous move's target
	// instead of appending. lastAt stays put so the absorbed gap lands in
	// the next appended event's delay and total replay time is preserved.
	if act.Kind == model.MouseMove && gap < moveMergeFloor {
		if n := len(r.actions); n > 0 && r.actions[n-1].Kind == model.MouseMove {
			r.actions[n-1].X = act.X
			r.actions[n-1].Y = act.Y
			return
		}
	}

	act.SetDelay(gap)
	r.lastAt = at
	r.actions = append(r.actions, act)
}

// convert maps a captured event to a macro action. Mouse releases are
// folded into the click issued on the down edge; key presses and
// releases stay distinct so held keys replay correctly.
func (r *Recorder) convert(ev input.Event) (model.Action, bool) {
	switch ev.Kind {
	case input.KindMouseMove:
		return model.Action{Kind: model.MouseMove, X: ev.X, Y: ev.Y}, true
	case input.KindMouseDown:
		return model.Action{Kind: model.MouseClick, X: ev.X, Y: ev.Y, Button: ev.Button}, true
	case input.KindMouseWheel:
		return model.Action{Kind: model.MouseScroll, X: ev.X, Y: ev.Y, ScrollX: ev.ScrollX, ScrollY: ev.ScrollY}, true
	case input.KindKeyDown:
		if r.ignored(ev.Key) {
			return model.Action{}, false
		}
		return model.Action{Kind: model.KeyPress, Key: ev.Key}, true
	case input.KindKeyUp:
		if r.ignored(ev.Key) {
			return model.Action{}, false
		}
		return model.Action{Kind: model.KeyRelease, Key: ev.Key}, true
	}
	return model.Action{}, false
}

func (r *Recorder) ignored(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ignore[key]
}

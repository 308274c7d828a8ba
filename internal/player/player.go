// Package player drives timed execution of a macro against an input
// sink.
package player

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/YatoVoid/Macro-Tool/internal/input"
	"github.com/YatoVoid/Macro-Tool/internal/model"
)

// Player replays macros. It is stateless between runs; each Play call
// returns an independent handle.
type Player struct {
	log *slog.Logger
}

// New returns a player.
func New() *Player {
	return &Player{log: slog.Default().With("component", "player")}
}

// Handle tracks one playback run.
type Handle struct {
	cancel     chan struct{}
	cancelOnce sync.Once
	done       chan struct{}
	dispatched atomic.Int64
	passes     atomic.Int64

	mu  sync.Mutex
	err error
}

// Cancel requests cooperative termination. It is safe to call more than
// once and takes effect before the next action is dispatched: any
// in-flight inter-action wait wakes immediately.
func (h *Handle) Cancel() {
	h.cancelOnce.Do(func() { close(h.cancel) })
}

// Done is closed when the run has fully terminated, including held-key
// cleanup.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err reports how the run ended: nil for a completed pass (or passes),
// ErrCanceled after Cancel, or a *PlaybackError for a sink failure.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Dispatched returns the number of actions issued so far.
func (h *Handle) Dispatched() int64 { return h.dispatched.Load() }

// Passes returns the number of completed full passes.
func (h *Handle) Passes() int64 { return h.passes.Load() }

func (h *Handle) finish(err error) {
	h.mu.Lock()
	h.err = err
	h.mu.Unlock()
	close(h.done)
}

// wait sleeps for d or returns false as soon as the run is canceled.
// A zero wait still observes a pending cancel so tight loops stay
// responsive.
func (h *Handle) wait(d time.Duration) bool {
	if d <= 0 {
		select {
		case <-h.cancel:
			return false
		default:
			return true
		}
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-h.cancel:
		return false
	case <-t.C:
		return true
	}
}

// Play starts replaying macro on its own goroutine. Waits before each
// action are the action's delay divided by speed; the very first action
// of the run executes immediately, and on looped playback the
// wrap-around wait uses the first action's own delay.
func (p *Player) Play(macro model.Macro, speed float64, repeat model.RepeatPolicy, sink input.Sink) (*Handle, error) {
	if speed <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpeed, speed)
	}
	if len(macro.Actions) == 0 {
		return nil, ErrEmptyMacro
	}

	h := &Handle{
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}
	go p.run(h, macro, speed, repeat, sink)
	return h, nil
}

func (p *Player) run(h *Handle, macro model.Macro, speed float64, repeat model.RepeatPolicy, sink input.Sink) {
	// Keys pressed without a matching release yet. Whatever way the run
	// ends, nothing may stay logically held in the sink, and the release
	// must land before the handle reports done.
	held := make(map[string]bool)
	err := p.execute(h, macro, speed, repeat, sink, held)
	for key := range held {
		if upErr := sink.KeyUp(key); upErr != nil {
			p.log.Warn("failed to release held key", "key", key, "error", upErr)
		}
	}
	h.finish(err)
}

func (p *Player) execute(h *Handle, macro model.Macro, speed float64, repeat model.RepeatPolicy, sink input.Sink, held map[string]bool) error {
	lastX, lastY := sink.Location()
	first := true

	for {
		for i := range macro.Actions {
			act := macro.Actions[i]
			wait := scale(act.Delay(), speed)
			if first {
				wait = 0
			}
			first = false
			if !h.wait(wait) {
				return ErrCanceled
			}

			if err := dispatch(act, sink, held, &lastX, &lastY); err != nil {
				p.log.Error("playback failed", "index", i, "kind", act.Kind, "error", err)
				return &PlaybackError{Index: i, Action: act, Err: err}
			}
			h.dispatched.Add(1)
		}
		h.passes.Add(1)

		if repeat != model.RepeatLoop {
			return nil
		}
	}
}

func scale(d time.Duration, speed float64) time.Duration {
	if speed == 1 {
		return d
	}
	return time.Duration(float64(d) / speed)
}

// dispatch issues one action. A click whose target differs from the last
// known cursor position moves first, so the click lands at the intended
// coordinate even if the sink does not track cursor state.
func dispatch(act model.Action, sink input.Sink, held map[string]bool, lastX, lastY *int) error {
	switch act.Kind {
	case model.MouseMove:
		if err := sink.MoveTo(act.X, act.Y); err != nil {
			return err
		}
		*lastX, *lastY = act.X, act.Y

	case model.MouseClick:
		if act.X != *lastX || act.Y != *lastY {
			if err := sink.MoveTo(act.X, act.Y); err != nil {
				return err
			}
			*lastX, *lastY = act.X, act.Y
		}
		if err := sink.Click(act.Button, act.X, act.Y); err != nil {
			return err
		}

	case model.MouseScroll:
		if err := sink.Scroll(act.ScrollX, act.ScrollY); err != nil {
			return err
		}

	case model.KeyPress:
		if err := sink.KeyDown(act.Key); err != nil {
			return err
		}
		held[act.Key] = true

	case model.KeyRelease:
		if err := sink.KeyUp(act.Key); err != nil {
			return err
		}
		delete(held, act.Key)

	default:
		return fmt.Errorf("%w: unknown action kind %q", input.ErrInvalidTarget, act.Kind)
	}
	return nil
}

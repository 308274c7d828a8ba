// Package engine coordinates the recorder, the player and the hotkey
// listener. All state transitions happen on one control goroutine that
// consumes signals in arrival order, so a Stop sent right after a Start
// can never be lost or reordered ahead of it.
package engine

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/YatoVoid/Macro-Tool/internal/hotkey"
	"github.com/YatoVoid/Macro-Tool/internal/input"
	"github.com/YatoVoid/Macro-Tool/internal/model"
	"github.com/YatoVoid/Macro-Tool/internal/player"
	"github.com/YatoVoid/Macro-Tool/internal/recorder"
)

// Engine is the only component allowed to start and stop the recorder
// and the player. The hotkey listener and the UI send signals; they
// never touch either directly.
type Engine struct {
	sink   input.Sink
	source input.Source

	player   *player.Player
	recorder *recorder.Recorder

	commands chan command
	done     chan struct{}
	stopped  chan struct{}
	closing  sync.Once
	started  atomic.Bool

	state     atomic.Int32
	handleRef atomic.Pointer[player.Handle]

	mu           sync.Mutex
	bindings     model.HotkeyBinding
	active       *model.Macro
	activeSpeed  float64
	activeRepeat model.RepeatPolicy
	lastRecorded *model.Macro

	subMu  sync.Mutex
	subs   map[int]chan Event
	nextID int

	log *slog.Logger
}

type command struct {
	signal SignalKind
	rebind *model.HotkeyBinding
	reply  chan error
}

// New wires an engine to its input endpoints. Call Start to begin
// processing signals.
func New(sink input.Sink, source input.Source, bindings model.HotkeyBinding) *Engine {
	return &Engine{
		sink:     sink,
		source:   source,
		player:   player.New(),
		recorder: recorder.New(),
		commands: make(chan command, 32),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		bindings: bindings,
		subs:     make(map[int]chan Event),
		log:      slog.Default().With("component", "engine"),
	}
}

// Start installs the hotkey listener and launches the control loop.
// Binding validation failures and capture failures surface here; the
// engine stays idle on error.
func (e *Engine) Start() error {
	if !e.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	listener, err := hotkey.Watch(e.bindings, e.source)
	if err != nil {
		e.started.Store(false)
		return err
	}
	go e.loop(listener)
	return nil
}

// Close terminates the control loop, cancelling any active run or
// recording first.
func (e *Engine) Close() {
	e.closing.Do(func() { close(e.done) })
	if e.started.Load() {
		<-e.stopped
	}
}

// Send queues a control signal. Signals are processed strictly in
// arrival order.
func (e *Engine) Send(kind SignalKind) error {
	if !e.started.Load() {
		return ErrNotStarted
	}
	select {
	case e.commands <- command{signal: kind}:
		return nil
	case <-e.done:
		return ErrNotStarted
	}
}

// State returns a snapshot of the current state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// SetActiveMacro selects what a Start signal will play. Ownership of the
// macro passes to the engine; callers keep working on their own copy.
func (e *Engine) SetActiveMacro(m model.Macro, speed float64, repeat model.RepeatPolicy) {
	owned := m.Clone()
	e.mu.Lock()
	e.active = &owned
	e.activeSpeed = speed
	e.activeRepeat = repeat
	e.mu.Unlock()
}

// LastRecorded returns the most recently captured macro, if any.
func (e *Engine) LastRecorded() (model.Macro, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastRecorded == nil {
		return model.Macro{}, false
	}
	return e.lastRecorded.Clone(), true
}

// Rebind replaces the hotkey bindings. Only permitted while idle; the
// control loop applies the change so it never races a transition.
func (e *Engine) Rebind(b model.HotkeyBinding) error {
	if !e.started.Load() {
		return ErrNotStarted
	}
	reply := make(chan error, 1)
	select {
	case e.commands <- command{rebind: &b, reply: reply}:
		return <-reply
	case <-e.done:
		return ErrNotStarted
	}
}

// Subscribe registers an event listener. The returned cancel function
// releases it.
func (e *Engine) Subscribe() (<-chan Event, func()) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	id := e.nextID
	e.nextID++
	ch := make(chan Event, 16)
	e.subs[id] = ch
	return ch, func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		if sub, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(sub)
		}
	}
}

// Progress reports playback dispatch and recording capture counts for
// UI polling.
func (e *Engine) Progress() (dispatched int64, recorded int) {
	if h := e.handleRef.Load(); h != nil {
		dispatched = h.Dispatched()
	}
	return dispatched, e.recorder.Count()
}

// loop is the serialized control context. It is the single writer of
// engine state.
type runtime struct {
	listener *hotkey.Listener
	handle   *player.Handle
	playDone <-chan struct{}
}

func (e *Engine) loop(listener *hotkey.Listener) {
	defer close(e.stopped)

	rt := &runtime{listener: listener}
	hotkeys := listener.Signals()

	for {
		select {
		case <-e.done:
			e.shutdown(rt)
			return

		case cmd := <-e.commands:
			if cmd.rebind != nil {
				cmd.reply <- e.applyRebind(rt, *cmd.rebind)
				if rt.listener != nil {
					hotkeys = rt.listener.Signals()
				}
				continue
			}
			e.transition(rt, cmd.signal)

		case sig, ok := <-hotkeys:
			if !ok {
				// Capture died; hotkeys are gone until rebind.
				hotkeys = nil
				rt.listener = nil
				e.publish(Event{Kind: EventError, Err: input.ErrCaptureUnavailable})
				continue
			}
			e.transition(rt, signalKind(sig))

		case <-rt.playDone:
			e.finishRun(rt)
		}
	}
}

func signalKind(s hotkey.Signal) SignalKind {
	switch s {
	case hotkey.SignalStart:
		return SignalStart
	case hotkey.SignalToggleRecord:
		return SignalToggleRecord
	default:
		return SignalStop
	}
}

func (e *Engine) transition(rt *runtime, sig SignalKind) {
	state := e.State()
	switch sig {
	case SignalStart:
		if state != StateIdle {
			e.log.Debug("start ignored, engine busy", "state", state)
			return
		}
		e.startRun(rt)

	case SignalToggleRecord:
		if state != StateIdle {
			e.log.Debug("record ignored, engine busy", "state", state)
			return
		}
		e.startRecording()

	case SignalStop:
		switch state {
		case StateRunning:
			e.stopRun(rt)
		case StateRecording:
			e.stopRecording()
		default:
			e.log.Debug("stop ignored, engine idle")
		}
	}
}

func (e *Engine) startRun(rt *runtime) {
	e.mu.Lock()
	active := e.active
	speed := e.activeSpeed
	repeat := e.activeRepeat
	e.mu.Unlock()

	if active == nil {
		e.publish(Event{Kind: EventError, Err: ErrNoMacro})
		return
	}

	handle, err := e.player.Play(active.Clone(), speed, repeat, e.sink)
	if err != nil {
		e.publish(Event{Kind: EventError, Err: err})
		return
	}
	rt.handle = handle
	rt.playDone = handle.Done()
	e.handleRef.Store(handle)
	e.setState(StateRunning)
	e.log.Info("playback started", "mode", active.Mode, "actions", len(active.Actions), "speed", speed)
}

// stopRun cancels the player and waits for it to wind down, including
// its held-key cleanup, before going idle.
func (e *Engine) stopRun(rt *runtime) {
	rt.handle.Cancel()
	<-rt.handle.Done()
	e.finishRun(rt)
}

func (e *Engine) finishRun(rt *runtime) {
	err := rt.handle.Err()
	e.handleRef.Store(nil)
	rt.handle = nil
	rt.playDone = nil
	e.setState(StateIdle)
	e.publish(Event{Kind: EventRunFinished, Err: err})
	if err != nil && err != player.ErrCanceled {
		e.log.Error("playback ended with error", "error", err)
	}
}

func (e *Engine) startRecording() {
	if err := e.recorder.Start(e.source, e.ignoredKeys()...); err != nil {
		e.publish(Event{Kind: EventError, Err: err})
		return
	}
	e.setState(StateRecording)
	e.log.Info("recording started")
}

func (e *Engine) stopRecording() {
	macro, err := e.recorder.Stop()
	e.mu.Lock()
	e.lastRecorded = &macro
	e.mu.Unlock()

	e.setState(StateIdle)
	e.publish(Event{Kind: EventRecordingDone, Err: err, Macro: &macro})
}

// ignoredKeys lists keys the recorder must not capture: the stop chord's
// final key and Enter, so the keystroke that ends a recording is not
// replayed later.
func (e *Engine) ignoredKeys() []string {
	e.mu.Lock()
	stop := e.bindings.Stop
	e.mu.Unlock()

	keys := []string{"enter"}
	if stop != "" {
		if chord, err := hotkey.ParseChord(stop); err == nil && chord.Key != "enter" {
			keys = append(keys, chord.Key)
		}
	}
	return keys
}

func (e *Engine) applyRebind(rt *runtime, b model.HotkeyBinding) error {
	if e.State() != StateIdle {
		return ErrBusy
	}
	listener, err := hotkey.Watch(b, e.source)
	if err != nil {
		return err
	}
	if rt.listener != nil {
		rt.listener.Close()
	}
	rt.listener = listener
	e.mu.Lock()
	e.bindings = b
	e.mu.Unlock()
	e.log.Info("hotkeys rebound", "start", b.Start, "stop", b.Stop, "record", b.ToggleRecord)
	return nil
}

func (e *Engine) shutdown(rt *runtime) {
	switch e.State() {
	case StateRunning:
		if rt.handle != nil {
			rt.handle.Cancel()
			<-rt.handle.Done()
		}
	case StateRecording:
		macro, _ := e.recorder.Stop()
		e.mu.Lock()
		e.lastRecorded = &macro
		e.mu.Unlock()
	}
	if rt.listener != nil {
		rt.listener.Close()
	}
	e.setState(StateIdle)
}

func (e *Engine) setState(s State) {
	e.state.Store(int32(s))
	e.publish(Event{Kind: EventStateChanged, State: s})
}

func (e *Engine) publish(ev Event) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for _, sub := range e.subs {
		select {
		case sub <- ev:
		default:
			// Subscribers falling behind lose events rather than stalling
			// the control loop.
		}
	}
}

package input

import (
	"log/slog"
	"sync"
	"time"

	hook "github.com/robotn/gohook"
)

// Per-subscriber buffer. When a consumer falls this far behind the
// capture feed, further events are dropped for that consumer only.
const subscriberBuffer = 1024

// libuiohook wheel directions carried in hook.Event.Direction.
const (
	wheelVertical   = 3
	wheelHorizontal = 4
)

// buttonName reverses gohook's name-to-code mouse button table.
var buttonName = func() map[uint16]string {
	m := make(map[uint16]string, len(hook.MouseMap))
	for name, code := range hook.MouseMap {
		m[code] = name
	}
	return m
}()

// HookSource adapts gohook's process-global capture channel into
// independent bounded per-subscriber channels. The hook itself is started
// on the first subscription and torn down when the last one is released.
type HookSource struct {
	mu      sync.Mutex
	subs    map[int]chan Event
	nextID  int
	running bool
	stop    chan struct{}
	dropped uint64
	log     *slog.Logger
}

// NewHookSource returns an unstarted gohook-backed source.
func NewHookSource() *HookSource {
	return &HookSource{
		subs: make(map[int]chan Event),
		log:  slog.Default().With("component", "input"),
	}
}

// Subscribe registers a consumer, starting global capture if needed.
func (s *HookSource) Subscribe() (<-chan Event, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		feed := hook.Start()
		if feed == nil {
			return nil, nil, ErrCaptureUnavailable
		}
		s.running = true
		s.stop = make(chan struct{})
		go s.pump(feed, s.stop)
	}

	id := s.nextID
	s.nextID++
	ch := make(chan Event, subscriberBuffer)
	s.subs[id] = ch

	cancel := func() { s.unsubscribe(id) }
	return ch, cancel, nil
}

func (s *HookSource) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.subs[id]
	if !ok {
		return
	}
	delete(s.subs, id)
	close(ch)

	if len(s.subs) == 0 && s.running {
		close(s.stop)
		s.running = false
		hook.End()
	}
}

// pump translates hook events and fans them out until stopped or the
// feed closes underneath us.
func (s *HookSource) pump(feed chan hook.Event, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case raw, ok := <-feed:
			if !ok {
				s.closeAll()
				return
			}
			ev, keep := translate(raw)
			if !keep {
				continue
			}
			s.broadcast(ev)
		}
	}
}

func (s *HookSource) broadcast(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.dropped++
			if s.dropped%1000 == 1 {
				s.log.Warn("dropping capture events, slow consumer", "dropped", s.dropped)
			}
		}
	}
}

// closeAll terminates every subscription after the capture feed dies,
// so consumers observe end-of-capture rather than hanging forever.
func (s *HookSource) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

func translate(e hook.Event) (Event, bool) {
	out := Event{X: int(e.X), Y: int(e.Y), When: time.Now()}
	switch e.Kind {
	case hook.KeyDown, hook.KeyHold:
		out.Kind = KindKeyDown
		out.Key = hook.RawcodetoKeychar(e.Rawcode)
	case hook.KeyUp:
		out.Kind = KindKeyUp
		out.Key = hook.RawcodetoKeychar(e.Rawcode)
	case hook.MouseDown:
		out.Kind = KindMouseDown
		out.Button = buttonName[e.Button]
	case hook.MouseUp:
		out.Kind = KindMouseUp
		out.Button = buttonName[e.Button]
	case hook.MouseMove, hook.MouseDrag:
		out.Kind = KindMouseMove
	case hook.MouseWheel:
		out.Kind = KindMouseWheel
		if e.Direction == wheelHorizontal {
			out.ScrollX = int(e.Rotation)
		} else {
			out.ScrollY = int(e.Rotation)
		}
	default:
		return Event{}, false
	}
	return out, true
}

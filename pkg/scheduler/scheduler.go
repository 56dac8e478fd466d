package scheduler

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/LMascagni/simasm/pkg/errors"
)

// State is the scheduler's position in the draw cycle.
type State int32

const (
	Idle State = iota
	Scheduled
	Drawing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scheduled:
		return "scheduled"
	case Drawing:
		return "drawing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Triggers name the reason for a draw pass.
const (
	TriggerInitial  = "initial"
	TriggerResize   = "resize"
	TriggerChange   = "change"
	TriggerLiveness = "liveness"
	TriggerRetry    = "retry"
)

// Config holds the scheduler timings.
type Config struct {
	Settle   time.Duration
	Debounce time.Duration
	Liveness time.Duration
	Retry    time.Duration
}

// DefaultConfig returns the standard timings.
func DefaultConfig() Config {
	return Config{
		Settle:   150 * time.Millisecond,
		Debounce: 200 * time.Millisecond,
		Liveness: 2 * time.Second,
		Retry:    300 * time.Millisecond,
	}
}

// withDefaults fills zero timings from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Settle <= 0 {
		c.Settle = d.Settle
	}
	if c.Debounce <= 0 {
		c.Debounce = d.Debounce
	}
	if c.Liveness <= 0 {
		c.Liveness = d.Liveness
	}
	if c.Retry <= 0 {
		c.Retry = d.Retry
	}
	return c
}

// Viewport is the client drawing area reported by resize events.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Frame is one complete drawing surface. Frames are immutable once published.
type Frame struct {
	Seq      int
	Trigger  string
	Revision string
	Content  []byte
	Viewport Viewport

	Sections int
	Routable int
	Paths    int
	// Incomplete marks a surface left behind by a failed pass.
	Incomplete bool
	DrawnAt    time.Time
}

// NeedsHealing reports whether the liveness check should redraw.
func (f *Frame) NeedsHealing() bool {
	return f.Paths == 0 && (f.Routable > 0 || f.Incomplete)
}

// DrawFunc builds a fresh surface. It may return a partial frame together
// with an error; the partial frame is published as incomplete.
type DrawFunc func(ctx context.Context, vp Viewport) (*Frame, error)

type eventKind int

const (
	evResize eventKind = iota
	evChange
)

type event struct {
	kind eventKind
	vp   Viewport
}

// Scheduler serializes draw passes for one view.
type Scheduler struct {
	cfg    Config
	draw   DrawFunc
	logger *log.Logger

	events chan event
	done   chan struct{}
	once   sync.Once

	mu       sync.RWMutex
	frame    *Frame
	state    State
	subs     map[int]chan *Frame
	nextSub  int
	seq      int
	viewport Viewport
}

// New creates a scheduler. Call Run to start its loop.
func New(draw DrawFunc, cfg Config, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Scheduler{
		cfg:    cfg.withDefaults(),
		draw:   draw,
		logger: logger,
		events: make(chan event, 64),
		done:   make(chan struct{}),
		subs:   make(map[int]chan *Frame),
		state:  Scheduled,
	}
}

// Frame returns the current surface, or nil before the first pass.
func (s *Scheduler) Frame() *Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

// State returns the current state.
func (s *Scheduler) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Resize reports a new viewport. Bursts are coalesced into one draw.
func (s *Scheduler) Resize(vp Viewport) error {
	if err := errors.ValidateViewport(vp.Width); err != nil {
		return err
	}
	if err := errors.ValidateViewport(vp.Height); err != nil {
		return err
	}
	return s.send(event{kind: evResize, vp: vp})
}

// Invalidate reports that the source changed and requests a draw.
func (s *Scheduler) Invalidate() error {
	return s.send(event{kind: evChange})
}

func (s *Scheduler) send(ev event) error {
	select {
	case <-s.done:
		return errors.New(errors.ErrCodeClosed, "scheduler closed")
	default:
	}
	select {
	case s.events <- ev:
		return nil
	case <-s.done:
		return errors.New(errors.ErrCodeClosed, "scheduler closed")
	}
}

// Subscribe returns a channel that receives every published frame. The
// channel holds only the latest frame a slow reader has not consumed. Call
// the returned function to detach; Close detaches all subscribers.
func (s *Scheduler) Subscribe() (<-chan *Frame, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan *Frame, 1)
	select {
	case <-s.done:
		close(ch)
		return ch, func() {}
	default:
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// Close stops the loop, clears all pending timers and detaches subscribers.
// It is safe to call more than once.
func (s *Scheduler) Close() {
	s.once.Do(func() {
		close(s.done)
		s.mu.Lock()
		defer s.mu.Unlock()
		for id, c := range s.subs {
			delete(s.subs, id)
			close(c)
		}
		s.state = Idle
	})
}

// Done is closed when the scheduler is closed.
func (s *Scheduler) Done() <-chan struct{} { return s.done }

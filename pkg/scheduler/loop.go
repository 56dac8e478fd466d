package scheduler

import (
	"context"
	"time"

	"github.com/LMascagni/simasm/pkg/errors"
	"github.com/LMascagni/simasm/pkg/observability"
)

// timer is a one-shot timer whose channel is nil while it is not armed, so
// it can sit in a select unconditionally.
type timer struct {
	t     *time.Timer
	armed bool
}

func (t *timer) arm(d time.Duration) {
	if t.t == nil {
		t.t = time.NewTimer(d)
	} else {
		t.t.Reset(d)
	}
	t.armed = true
}

func (t *timer) stop() {
	if t.t != nil {
		t.t.Stop()
	}
	t.armed = false
}

func (t *timer) C() <-chan time.Time {
	if !t.armed {
		return nil
	}
	return t.t.C
}

type loop struct {
	settle, debounce, retry timer
	retryTrigger            string
}

func (l *loop) pending() bool {
	return l.settle.armed || l.debounce.armed || l.retry.armed
}

func (l *loop) stop() {
	l.settle.stop()
	l.debounce.stop()
	l.retry.stop()
}

// Run drives the scheduler until ctx is cancelled or Close is called. It
// returns nil after Close and ctx.Err() on cancellation. In both cases every
// timer is cleared and subscribers are detached.
func (s *Scheduler) Run(ctx context.Context) error {
	var l loop
	l.settle.arm(s.cfg.Settle)
	liveness := time.NewTicker(s.cfg.Liveness)
	defer func() {
		liveness.Stop()
		l.stop()
		s.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil

		case <-l.settle.C():
			l.settle.armed = false
			s.pass(ctx, &l, TriggerInitial, false)

		case ev := <-s.events:
			switch ev.kind {
			case evResize:
				s.mu.Lock()
				s.viewport = ev.vp
				s.mu.Unlock()
				l.debounce.arm(s.cfg.Debounce)
				s.setState(Scheduled)
			case evChange:
				s.pass(ctx, &l, TriggerChange, false)
			}

		case <-l.debounce.C():
			l.debounce.armed = false
			s.pass(ctx, &l, TriggerResize, false)

		case <-l.retry.C():
			l.retry.armed = false
			s.pass(ctx, &l, l.retryTrigger, true)

		case <-liveness.C:
			if l.pending() {
				continue
			}
			if f := s.Frame(); f != nil && f.NeedsHealing() {
				s.logger.Debug("surface has no paths, redrawing", "routable", f.Routable)
				s.pass(ctx, &l, TriggerLiveness, false)
			}
		}
	}
}

// pass runs one destructive draw. A failed fresh pass schedules exactly one
// retry; a failed retry is logged and left for the liveness check.
func (s *Scheduler) pass(ctx context.Context, l *loop, trigger string, isRetry bool) {
	s.setState(Drawing)

	s.mu.RLock()
	vp := s.viewport
	s.mu.RUnlock()

	start := time.Now()
	f, err := s.safeDraw(ctx, vp)
	dur := time.Since(start)

	if f == nil {
		f = &Frame{}
	}
	f.Trigger = trigger
	f.Viewport = vp
	f.DrawnAt = time.Now()
	if err != nil {
		f.Incomplete = true
	}

	paths := f.Paths
	observability.Scheduler().OnDraw(ctx, trigger, paths, dur, err)

	switch {
	case err == nil:
		s.logger.Debug("drew surface", "trigger", trigger, "sections", f.Sections, "paths", paths, "duration", dur)
	case !isRetry:
		s.logger.Error("draw failed, retrying", "trigger", trigger, "err", err, "delay", s.cfg.Retry)
		observability.Scheduler().OnRetry(ctx, trigger, s.cfg.Retry)
		l.retryTrigger = trigger
		l.retry.arm(s.cfg.Retry)
	default:
		s.logger.Warn("draw failed again, surface left incomplete", "trigger", trigger, "err", err)
	}

	s.publish(f)
	if l.pending() {
		s.setState(Scheduled)
	} else {
		s.setState(Idle)
	}
}

func (s *Scheduler) safeDraw(ctx context.Context, vp Viewport) (f *Frame, err error) {
	defer func() {
		if r := recover(); r != nil {
			f, err = nil, &errors.PanicError{Value: r}
		}
	}()
	return s.draw(ctx, vp)
}

func (s *Scheduler) publish(f *Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
		return
	default:
	}

	s.seq++
	f.Seq = s.seq
	s.frame = f
	for _, c := range s.subs {
		select {
		case <-c:
		default:
		}
		c <- f
	}
}

func (s *Scheduler) setState(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
		return
	default:
	}
	s.state = st
}

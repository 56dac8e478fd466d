package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnExtract(ctx, "boot.asm", 3, time.Millisecond)
	p.OnLayout(ctx, "boot.asm", 2, 5, time.Millisecond, nil)
	p.OnRender(ctx, "html", 1024, time.Millisecond, nil)

	s := NoopSchedulerHooks{}
	s.OnDraw(ctx, "initial", 5, time.Millisecond, nil)
	s.OnRetry(ctx, "resize", 300*time.Millisecond)

	NoopNavigationHooks{}.OnJump(ctx, 12, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Scheduler().(NoopSchedulerHooks); !ok {
		t.Error("Scheduler() should return NoopSchedulerHooks by default")
	}
	if _, ok := Navigation().(NoopNavigationHooks); !ok {
		t.Error("Navigation() should return NoopNavigationHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customScheduler := &testSchedulerHooks{}
	SetSchedulerHooks(customScheduler)
	if Scheduler() != customScheduler {
		t.Error("SetSchedulerHooks should set custom hooks")
	}

	SetPipelineHooks(nil)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks(nil) should keep the current hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestHooksConcurrentAccess(t *testing.T) {
	Reset()
	defer Reset()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetSchedulerHooks(&testSchedulerHooks{})
		}()
		go func() {
			defer wg.Done()
			Scheduler().OnDraw(context.Background(), "resize", 0, 0, nil)
		}()
	}
	wg.Wait()
}

type testPipelineHooks struct{ NoopPipelineHooks }

type testSchedulerHooks struct {
	mu    sync.Mutex
	draws int
}

func (h *testSchedulerHooks) OnDraw(context.Context, string, int, time.Duration, error) {
	h.mu.Lock()
	h.draws++
	h.mu.Unlock()
}

func (h *testSchedulerHooks) OnRetry(context.Context, string, time.Duration) {}

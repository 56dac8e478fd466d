package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks logs pipeline, scheduler and navigation events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnExtract(_ context.Context, path string, sections int, dur time.Duration) {
	h.logger.Debug("extract", "path", path, "sections", sections, "duration", dur)
}

func (h logHooks) OnLayout(_ context.Context, path string, lanes, paths int, dur time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout failed", "path", path, "err", err)
		return
	}
	h.logger.Debug("layout", "path", path, "lanes", lanes, "paths", paths, "duration", dur)
}

func (h logHooks) OnRender(_ context.Context, format string, size int, dur time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "format", format, "err", err)
		return
	}
	h.logger.Debug("render", "format", format, "bytes", size, "duration", dur)
}

func (h logHooks) OnDraw(_ context.Context, trigger string, paths int, dur time.Duration, err error) {
	h.logger.Debug("draw", "trigger", trigger, "paths", paths, "duration", dur, "err", err)
}

func (h logHooks) OnRetry(_ context.Context, trigger string, delay time.Duration) {
	h.logger.Debug("retry scheduled", "trigger", trigger, "delay", delay)
}

func (h logHooks) OnJump(_ context.Context, line int, err error) {
	h.logger.Debug("jump", "line", line, "err", err)
}

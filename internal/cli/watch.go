package cli

import (
	"context"
	"os"
	"time"
)

// fileStamp identifies a file version by modification time and size.
type fileStamp struct {
	mod  time.Time
	size int64
}

func stat(path string) (fileStamp, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, false
	}
	return fileStamp{mod: info.ModTime(), size: info.Size()}, true
}

// watchFile calls onChange whenever path's modification time or size
// differs from the previous poll, until ctx is done. A file that disappears
// and comes back counts as a change.
func watchFile(ctx context.Context, path string, every time.Duration, onChange func()) error {
	logger := loggerFromContext(ctx)
	last, ok := stat(path)
	if !ok {
		logger.Warn("watched file missing", "path", path)
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cur, found := stat(path)
			if found == ok && cur == last {
				continue
			}
			if !found {
				logger.Warn("watched file missing", "path", path)
			} else {
				logger.Debug("file changed", "path", path)
				onChange()
			}
			last, ok = cur, found
		}
	}
}

// Package navigate delivers "jump to line" requests from a chart to the
// editor hosting it.
//
// The wire message is
//
//	{"command":"jumpToLine","line":<0-based int>}
//
// and is the only message a chart sends to its host. A [Navigator] delivers
// it: [LogNavigator] logs it, [StreamNavigator] writes newline-delimited JSON
// (for hosts that read the process output), and [RedisNavigator] publishes it
// on a Redis channel for editor bridges subscribed there.
package navigate

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/LMascagni/simasm/pkg/errors"
	"github.com/LMascagni/simasm/pkg/observability"
)

// CommandJumpToLine is the only command a chart emits.
const CommandJumpToLine = "jumpToLine"

// Message is a navigation request.
type Message struct {
	Command string `json:"command"`
	Line    int    `json:"line"`
}

// JumpToLine returns the request for a 0-based document line.
func JumpToLine(line int) Message {
	return Message{Command: CommandJumpToLine, Line: line}
}

// Validate checks the command and line.
func (m Message) Validate() error {
	if m.Command != CommandJumpToLine {
		return errors.New(errors.ErrCodeInvalidMessage, "unknown command %q", m.Command)
	}
	if m.Line < 0 {
		return errors.New(errors.ErrCodeInvalidMessage, "line cannot be negative: %d", m.Line)
	}
	return nil
}

// Parse decodes and validates a message.
func Parse(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, errors.Wrap(errors.ErrCodeInvalidMessage, err, "decode message")
	}
	return m, m.Validate()
}

// Navigator delivers messages to the host.
type Navigator interface {
	Navigate(ctx context.Context, m Message) error
	Close() error
}

// Deliver validates m, hands it to n and reports the outcome to the
// navigation hooks.
func Deliver(ctx context.Context, n Navigator, m Message) error {
	err := m.Validate()
	if err == nil {
		err = n.Navigate(ctx, m)
	}
	observability.Navigation().OnJump(ctx, m.Line, err)
	return err
}

// LogNavigator only logs requests.
type LogNavigator struct {
	Logger *log.Logger
}

// Navigate implements Navigator.
func (n LogNavigator) Navigate(_ context.Context, m Message) error {
	if n.Logger != nil {
		n.Logger.Info("jump to line", "line", m.Line)
	}
	return nil
}

// Close implements Navigator.
func (LogNavigator) Close() error { return nil }

// StreamNavigator writes one JSON message per line to w.
type StreamNavigator struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStreamNavigator creates a navigator writing to w.
func NewStreamNavigator(w io.Writer) *StreamNavigator {
	return &StreamNavigator{w: w}
}

// Navigate implements Navigator.
func (n *StreamNavigator) Navigate(_ context.Context, m Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := json.NewEncoder(n.w).Encode(m); err != nil {
		return errors.Wrap(errors.ErrCodeNavigationFailed, err, "write message")
	}
	return nil
}

// Close implements Navigator.
func (n *StreamNavigator) Close() error { return nil }

// Multi delivers to every navigator in order and returns the first error.
type Multi []Navigator

// Navigate implements Navigator.
func (ms Multi) Navigate(ctx context.Context, m Message) error {
	var first error
	for _, n := range ms {
		if err := n.Navigate(ctx, m); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close implements Navigator.
func (ms Multi) Close() error {
	var first error
	for _, n := range ms {
		if err := n.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

package tracker

import (
	"log/slog"
	"sync/atomic"
)

// Handle identifies a visible notice to the Notifier that produced it.
type Handle any

// Actions are the user interactions a notification surface hands back to
// the tracker. Both receive the user's "stop showing this automatically"
// choice.
type Actions struct {
	Submit  func(stopAutoDisplay bool)
	Dismiss func(stopAutoDisplay bool)
}

// Notifier renders and removes the user-facing notice. Implementations live
// outside the core; faults they raise surface through the usual capture
// path because Show and Dismiss are invoked from wrapped operations.
type Notifier interface {
	Show(title, text string, style map[string]string, actions Actions) (Handle, error)
	Dismiss(h Handle) error
}

// LogNotifier stands in for a rendered window in headless or terminal
// embedders: each show and dismiss becomes a structured log line.
type LogNotifier struct {
	Logger *slog.Logger

	seq atomic.Uint64
}

// Show logs the notice and returns a sequence handle.
func (n *LogNotifier) Show(title, text string, style map[string]string, _ Actions) (Handle, error) {
	id := n.seq.Add(1)
	n.logger().Warn("error notice",
		"id", id,
		"title", title,
		"text", text,
		"position", style["position"],
	)
	return id, nil
}

// Dismiss logs the removal of a previously shown notice.
func (n *LogNotifier) Dismiss(h Handle) error {
	n.logger().Info("error notice dismissed", "id", h)
	return nil
}

func (n *LogNotifier) logger() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}

// NopNotifier ignores every notice.
type NopNotifier struct{}

func (NopNotifier) Show(string, string, map[string]string, Actions) (Handle, error) {
	return nil, nil
}

func (NopNotifier) Dismiss(Handle) error { return nil }

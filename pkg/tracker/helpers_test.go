package tracker

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// stubTransport records sends and optionally completes them synchronously.
type stubTransport struct {
	mu      sync.Mutex
	calls   []stubCall
	resp    Response
	respond bool
}

type stubCall struct {
	endpoint string
	payload  any
}

func (s *stubTransport) Send(_ context.Context, endpoint string, payload any, done ResponseHandler) {
	s.mu.Lock()
	s.calls = append(s.calls, stubCall{endpoint: endpoint, payload: payload})
	respond, resp := s.respond, s.resp
	s.mu.Unlock()

	if respond && done != nil {
		done(resp)
	}
}

func (s *stubTransport) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubTransport) lastCall() stubCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

// recordingNotifier tracks show/dismiss calls and keeps the last actions so
// tests can drive the user interactions.
type recordingNotifier struct {
	mu        sync.Mutex
	shows     int
	dismisses int
	actions   Actions
}

func (n *recordingNotifier) Show(_, _ string, _ map[string]string, actions Actions) (Handle, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.shows++
	n.actions = actions
	return n.shows, nil
}

func (n *recordingNotifier) Dismiss(Handle) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dismisses++
	return nil
}

func (n *recordingNotifier) counts() (shows, dismisses int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.shows, n.dismisses
}

func testLocation() PageInfo {
	return PageInfo{Protocol: "test", Host: "unit", Route: "/under-test"}
}

// newTestTracker builds a tracker that makes no network calls, shows no
// notices, and logs nowhere.
func newTestTracker(opts ...Option) (*Tracker, *stubTransport) {
	tr := &stubTransport{}
	base := []Option{
		WithTransport(tr),
		WithNotifier(NopNotifier{}),
		WithLocator(testLocation),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return New(append(base, opts...)...), tr
}

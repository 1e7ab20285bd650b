package tracker

import (
	"context"
	"net/http"
	"runtime/debug"
)

// Guard runs fn with panic capture: a panic becomes a received error instead
// of unwinding into the caller. It is the Go analogue of registering with
// the host's unhandled-error channel for one unit of work.
func (t *Tracker) Guard(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			t.ReceiveError(&PanicError{Value: r, Stack: string(debug.Stack())})
		}
	}()
	fn()
}

// Go runs fn on its own goroutine under the same capture as Guard.
func (t *Tracker) Go(fn func()) {
	go t.Guard(fn)
}

// GuardHandler wraps an http.Handler so a panic while serving becomes a
// received error carrying the request's location, and the client gets a
// plain 500 instead of a dropped connection.
func (t *Tracker) GuardHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				t.ReceiveError(&pagedFault{
					fault: &PanicError{Value: rec, Stack: string(debug.Stack())},
					page:  RequestLocation(r),
				})
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Listen drains faults from a host-supplied channel into ReceiveError until
// the context is cancelled or the channel closes. Cancelling the context is
// how a host deregisters.
func (t *Tracker) Listen(ctx context.Context, faults <-chan any) {
	for {
		select {
		case <-ctx.Done():
			return
		case fault, ok := <-faults:
			if !ok {
				return
			}
			t.ReceiveError(fault)
		}
	}
}

package tracker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuardCapturesPanics(t *testing.T) {
	tr, _ := newTestTracker()

	tr.Guard(func() { panic("unhandled") })

	records := tr.Errors()
	require.Len(t, records, 1)
	require.Equal(t, "panic: unhandled", records[0].Message)
	require.NotEmpty(t, records[0].Stack)
}

func TestGuardPassesThroughCleanRuns(t *testing.T) {
	tr, _ := newTestTracker()

	ran := false
	tr.Guard(func() { ran = true })

	require.True(t, ran)
	require.False(t, tr.HasErrors())
}

func TestGuardHandlerRecordsRequestLocation(t *testing.T) {
	tr, _ := newTestTracker()

	h := tr.GuardHandler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("handler blew up")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "http://svc.test/checkout?cart=9", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	records := tr.Errors()
	require.Len(t, records, 1)
	require.Equal(t, "/checkout", records[0].Page.Route)
	require.Equal(t, "cart=9", records[0].Page.Query)
	require.Contains(t, records[0].Message, "handler blew up")
}

func TestGuardHandlerLeavesHealthyRequestsAlone(t *testing.T) {
	tr, _ := newTestTracker()

	h := tr.GuardHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "http://svc.test/ok", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.False(t, tr.HasErrors())
}

func TestListenDrainsFaultChannel(t *testing.T) {
	tr, _ := newTestTracker()

	faults := make(chan any, 3)
	faults <- &ErrorEvent{Message: "ev"}
	faults <- "opaque"
	close(faults)

	tr.Listen(context.Background(), faults)

	require.Len(t, tr.Errors(), 2)
}

func TestListenStopsOnContextCancel(t *testing.T) {
	tr, _ := newTestTracker()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		tr.Listen(ctx, make(chan any))
		close(done)
	}()

	<-done
}

package tracker

import (
	"context"
	"fmt"
)

// Report is the wire payload posted to the collector endpoint.
type Report struct {
	TrackerVersion string    `json:"errorTrackerVersion"`
	ReportVersion  int       `json:"errorReportVersion"`
	ErrorsTracked  []*Record `json:"errorsTracked"`
}

func (t *Tracker) sendErrorsRaw(args []any) (any, error) {
	handler, err := asHandler(argAt(args, 0))
	if err != nil {
		return nil, err
	}

	endpoint := t.config.str(KeyEndpoint)
	if endpoint == "" {
		return nil, ErrNoEndpoint
	}

	report := Report{
		TrackerVersion: Version,
		ReportVersion:  ReportVersion,
		ErrorsTracked:  t.acc.list(),
	}

	done := handler
	if done == nil {
		done = func(resp Response) { t.invoke(OpReceiveResponse, resp) }
	}
	t.transport.Send(context.Background(), endpoint, report, done)
	return nil, nil
}

// receiveResponseRaw is deliberately empty: reacting to the server reply
// (clearing sent records, logging, alerting) is left to after-hooks on
// ReceiveResponse or to an explicit handler passed to SendErrors.
func (t *Tracker) receiveResponseRaw([]any) (any, error) {
	return nil, nil
}

func asHandler(v any) (ResponseHandler, error) {
	switch fn := v.(type) {
	case nil:
		return nil, nil
	case ResponseHandler:
		return fn, nil
	case func(Response):
		return fn, nil
	default:
		return nil, fmt.Errorf("send: handler must be a ResponseHandler, got %T", v)
	}
}

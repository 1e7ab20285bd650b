package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Status tags a transport outcome.
type Status string

// Transport outcomes.
const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Response is the structured result of one transport attempt. Failures are
// values, never faults: a broken network must not feed back into the error
// stream it is trying to drain.
type Response struct {
	Status Status         `json:"status"`
	Body   map[string]any `json:"body,omitempty"`
	Reason string         `json:"reason,omitempty"`
	Raw    string         `json:"raw,omitempty"`
}

// ResponseHandler receives the outcome of a send.
type ResponseHandler func(Response)

// Transport delivers a report payload to an endpoint. Send must not block
// the caller; the outcome arrives through done. One attempt per call, no
// retries.
type Transport interface {
	Send(ctx context.Context, endpoint string, payload any, done ResponseHandler)
}

// maxResponseBytes caps how much of a server reply is read. Collector
// replies are small JSON objects; 1 MB is generous headroom.
const maxResponseBytes = 1 << 20

// HTTPTransport posts JSON report payloads over HTTP.
type HTTPTransport struct {
	Client *http.Client
}

// NewHTTPTransport returns a transport with a bounded request timeout.
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{Client: &http.Client{Timeout: 15 * time.Second}}
}

// Send posts the payload from its own goroutine and hands the outcome to
// done when the request completes.
func (h *HTTPTransport) Send(ctx context.Context, endpoint string, payload any, done ResponseHandler) {
	go func() {
		resp := h.post(ctx, endpoint, payload)
		if done != nil {
			done(resp)
		}
	}()
}

func (h *HTTPTransport) post(ctx context.Context, endpoint string, payload any) Response {
	body, err := json.Marshal(payload)
	if err != nil {
		return Response{Status: StatusFailure, Reason: fmt.Sprintf("encode payload: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{Status: StatusFailure, Reason: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return Response{Status: StatusFailure, Reason: err.Error()}
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return Response{Status: StatusFailure, Reason: fmt.Sprintf("read response: %v", err)}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return Response{
			Status: StatusFailure,
			Reason: fmt.Sprintf("unexpected status %d", res.StatusCode),
			Raw:    string(raw),
		}
	}

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Response{Status: StatusFailure, Reason: "response is not valid JSON", Raw: string(raw)}
	}
	return Response{Status: StatusSuccess, Body: parsed}
}

package tracker

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Kind discriminates the shapes a captured fault can take. Classification
// happens once at save time; each kind has exactly one normalization rule.
type Kind int

// Fault kinds.
const (
	KindOpaque     Kind = iota // no known shape; stored unchanged
	KindErrorEvent             // host-surfaced unhandled error event
	KindException              // Go error, including recovered panics
)

// ErrorEvent mirrors an unhandled-error event surfaced by the hosting
// environment, e.g. an embedding shell forwarding window.onerror data.
type ErrorEvent struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Type     string `json:"type"`
}

// PageInfo is the location metadata captured with every normalized record.
type PageInfo struct {
	Protocol string `json:"protocol"`
	Host     string `json:"host"`
	Port     string `json:"port,omitempty"`
	Route    string `json:"route"`
	Query    string `json:"queryString,omitempty"`
}

// Record is one captured fault, normalized according to its kind. Opaque
// faults only populate Raw; the other kinds carry location and timing.
type Record struct {
	Page      *PageInfo `json:"pageInfo,omitempty"`
	Message   string    `json:"message,omitempty"`
	Filename  string    `json:"filename,omitempty"`
	Line      int       `json:"line,omitempty"`
	Stack     string    `json:"stackTrace,omitempty"`
	EventType string    `json:"kind,omitempty"`
	Timestamp time.Time `json:"timestamp,omitzero"`
	Raw       any       `json:"raw,omitempty"`
}

// classify decides which normalization rule applies to a fault.
func classify(fault any) Kind {
	switch fault.(type) {
	case *ErrorEvent, ErrorEvent:
		return KindErrorEvent
	case error:
		return KindException
	default:
		return KindOpaque
	}
}

// now is swapped out by tests that assert on timestamps.
var now = time.Now

// normalize reduces a fault to a Record, attaching the location reported by
// the tracker's locator (or the location pinned to the fault itself).
func (t *Tracker) normalize(fault any) *Record {
	page := t.location()
	if pf, ok := fault.(*pagedFault); ok {
		page = pf.page
		fault = pf.fault
	}

	switch classify(fault) {
	case KindErrorEvent:
		ev, ok := fault.(*ErrorEvent)
		if !ok {
			v := fault.(ErrorEvent)
			ev = &v
		}
		typ := ev.Type
		if typ == "" {
			typ = "error"
		}
		return &Record{
			Page:      &page,
			Message:   ev.Message,
			Filename:  ev.Filename,
			Line:      ev.Line,
			EventType: typ,
			Timestamp: now(),
		}

	case KindException:
		err := fault.(error)
		var stack string
		var pe *PanicError
		if errors.As(err, &pe) {
			stack = pe.Stack
		}
		return &Record{
			Page:      &page,
			Message:   err.Error(),
			Stack:     stack,
			Timestamp: now(),
		}

	default:
		return &Record{Raw: fault}
	}
}

// LocatorFunc produces the location metadata stamped onto records.
type LocatorFunc func() PageInfo

// ProcessLocation describes the running process in page terms: the binary
// is the route and its arguments are the query string. It is the default
// locator for non-HTTP embedders.
func ProcessLocation() PageInfo {
	host, _ := os.Hostname()
	route := ""
	if len(os.Args) > 0 {
		route = filepath.Base(os.Args[0])
	}
	return PageInfo{
		Protocol: "process",
		Host:     host,
		Route:    route,
		Query:    strings.Join(os.Args[1:], " "),
	}
}

// RequestLocation derives location metadata from an HTTP request, so records
// captured while serving carry the route being served.
func RequestLocation(r *http.Request) PageInfo {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host, port := r.Host, ""
	if h, p, err := net.SplitHostPort(r.Host); err == nil {
		host, port = h, p
	}
	return PageInfo{
		Protocol: scheme,
		Host:     host,
		Port:     port,
		Route:    r.URL.Path,
		Query:    r.URL.RawQuery,
	}
}

// pagedFault pins a fault to the location where it was observed, overriding
// the tracker-wide locator at save time.
type pagedFault struct {
	fault any
	page  PageInfo
}

func (p *pagedFault) Error() string {
	if err, ok := p.fault.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("%v", p.fault)
}

func (t *Tracker) location() PageInfo {
	if t.locate != nil {
		return t.locate()
	}
	return ProcessLocation()
}

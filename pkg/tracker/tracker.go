// Package tracker intercepts otherwise-unhandled faults, accumulates them
// in memory, and ships them as a batch report to a collector endpoint.
//
// Every public operation is a wrapped Operation: observers can attach
// before/after hooks to any of them, and every invocation — raw bodies,
// hooks, and internal cross-calls alike — runs under a uniform fault
// boundary so that a failure in extension code becomes a tracked error
// rather than a crash.
package tracker

import (
	"errors"
	"log/slog"
	"sync"
)

// Version is the tracker version reported in every payload.
const Version = "0.3.1"

// ReportVersion is the wire schema version of the report payload.
const ReportVersion = 1

// Operation names of the public surface, usable with ByName and
// ReplaceOperation.
const (
	OpReceiveError    = "ReceiveError"
	OpSaveError       = "SaveError"
	OpSendErrors      = "SendErrors"
	OpReceiveResponse = "ReceiveResponse"
	OpDisplayWindow   = "DisplayWindow"
	OpDismissWindow   = "DismissWindow"
	OpConfigure       = "Configure"
	OpSetConfigValue  = "SetConfigValue"
	OpConfigValue     = "ConfigValue"
	OpHasConfigValue  = "HasConfigValue"
	OpResetConfig     = "ResetConfig"
	OpErrors          = "Errors"
	OpHasErrors       = "HasErrors"
	OpClearErrors     = "ClearErrors"
	OpAttachBefore    = "AttachBefore"
	OpAttachAfter     = "AttachAfter"
)

// Sentinel errors surfaced in tracked records.
var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrNoEndpoint       = errors.New("no endpoint configured")
	ErrConfigRejected   = errors.New("configuration value rejected")
)

// Tracker is one error-tracking runtime: configuration, accumulator, and
// the wrapped operation table.
type Tracker struct {
	config    *configStore
	acc       *accumulator
	transport Transport
	notifier  Notifier
	locate    LocatorFunc
	logger    *slog.Logger

	opsMu sync.RWMutex
	ops   map[string]any // *Operation by default; embedders may install RawFuncs

	winMu      sync.Mutex
	window     Handle
	windowOpen bool
}

// Option configures a Tracker during New.
type Option func(*Tracker)

// WithTransport replaces the default HTTP transport.
func WithTransport(tr Transport) Option {
	return func(t *Tracker) { t.transport = tr }
}

// WithNotifier replaces the default log-backed notification surface.
func WithNotifier(n Notifier) Option {
	return func(t *Tracker) { t.notifier = n }
}

// WithLocator replaces the location metadata source.
func WithLocator(fn LocatorFunc) Option {
	return func(t *Tracker) { t.locate = fn }
}

// WithLogger sets the logger used for the rare faults that cannot be saved.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// WithEndpoint sets the collector endpoint up front.
func WithEndpoint(endpoint string) Option {
	return func(t *Tracker) { t.config.set(KeyEndpoint, endpoint) }
}

// New builds a tracker with default configuration. Constructing a fresh
// tracker is always safe; there is no teardown beyond dropping it.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		config: newConfigStore(),
		acc:    &accumulator{},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.transport == nil {
		t.transport = NewHTTPTransport()
	}
	if t.notifier == nil {
		t.notifier = &LogNotifier{}
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}

	t.ops = map[string]any{
		OpReceiveError:    t.wrap(OpReceiveError, t.receiveErrorRaw),
		OpSaveError:       t.wrap(OpSaveError, t.saveErrorRaw),
		OpSendErrors:      t.wrap(OpSendErrors, t.sendErrorsRaw),
		OpReceiveResponse: t.wrap(OpReceiveResponse, t.receiveResponseRaw),
		OpDisplayWindow:   t.wrap(OpDisplayWindow, t.displayWindowRaw),
		OpDismissWindow:   t.wrap(OpDismissWindow, t.dismissWindowRaw),
		OpConfigure:       t.wrap(OpConfigure, t.configureRaw),
		OpSetConfigValue:  t.wrap(OpSetConfigValue, t.setConfigValueRaw),
		OpConfigValue:     t.wrap(OpConfigValue, t.configValueRaw),
		OpHasConfigValue:  t.wrap(OpHasConfigValue, t.hasConfigValueRaw),
		OpResetConfig:     t.wrap(OpResetConfig, t.resetConfigRaw),
		OpErrors:          t.wrap(OpErrors, t.errorsRaw),
		OpHasErrors:       t.wrap(OpHasErrors, t.hasErrorsRaw),
		OpClearErrors:     t.wrap(OpClearErrors, t.clearErrorsRaw),
		OpAttachBefore:    t.wrap(OpAttachBefore, t.attachBeforeRaw),
		OpAttachAfter:     t.wrap(OpAttachAfter, t.attachAfterRaw),
	}
	return t
}

// operationEntry returns the live table entry for name, or nil.
func (t *Tracker) operationEntry(name string) any {
	t.opsMu.RLock()
	defer t.opsMu.RUnlock()
	return t.ops[name]
}

// Op returns the wrapped operation registered under name, or nil if the
// name is unknown or its entry was replaced with something unwrapped.
func (t *Tracker) Op(name string) *Operation {
	op, _ := t.operationEntry(name).(*Operation)
	return op
}

// ReplaceOperation swaps the table entry for name. The replacement runs
// under the same fault boundary as the original, but it is not hookable:
// hooks attach only to wrapped operations.
func (t *Tracker) ReplaceOperation(name string, fn RawFunc) bool {
	t.opsMu.Lock()
	defer t.opsMu.Unlock()
	if _, ok := t.ops[name]; !ok {
		return false
	}
	t.ops[name] = fn
	return true
}

// ReceiveError is the entry point for faults surfaced by the host
// environment: the fault is saved unconditionally, then sent and/or
// displayed according to configuration.
func (t *Tracker) ReceiveError(fault any) { t.invoke(OpReceiveError, fault) }

// SaveError normalizes fault and appends it to the accumulator.
func (t *Tracker) SaveError(fault any) { t.invoke(OpSaveError, fault) }

// SendErrors transmits the accumulated records to the configured endpoint.
// A nil handler routes the outcome to ReceiveResponse instead. Records stay
// in the accumulator after a send; embedders wanting a fresh slate clear it
// once the response confirms receipt.
func (t *Tracker) SendErrors(handler ResponseHandler) { t.invoke(OpSendErrors, handler) }

// ReceiveResponse handles a server reply to a report. It does nothing by
// default and exists as a hookable extension point.
func (t *Tracker) ReceiveResponse(resp Response) { t.invoke(OpReceiveResponse, resp) }

// DisplayWindow shows the user-facing notice if it is not already visible.
func (t *Tracker) DisplayWindow() { t.invoke(OpDisplayWindow) }

// DismissWindow removes the user-facing notice if one is visible.
func (t *Tracker) DismissWindow() { t.invoke(OpDismissWindow) }

// Configure replaces the whole configuration with defaults overlaid by
// settings. It reports false — and changes nothing — if any entry fails
// validation.
func (t *Tracker) Configure(settings map[string]any) bool {
	return boolResult(t.invoke(OpConfigure, settings))
}

// SetConfigValue stores one setting, reporting false if the key is
// boolean-constrained and the value is not a boolean.
func (t *Tracker) SetConfigValue(key string, value any) bool {
	return boolResult(t.invoke(OpSetConfigValue, key, value))
}

// ConfigValue returns the stored value for key, or nil when absent.
func (t *Tracker) ConfigValue(key string) any { return t.invoke(OpConfigValue, key) }

// HasConfigValue reports whether key is present, independent of its value.
func (t *Tracker) HasConfigValue(key string) bool {
	return boolResult(t.invoke(OpHasConfigValue, key))
}

// ResetConfig restores the built-in defaults.
func (t *Tracker) ResetConfig() bool { return boolResult(t.invoke(OpResetConfig)) }

// Errors returns a shallow copy of the accumulated records: the slice is
// fresh, the records are shared.
func (t *Tracker) Errors() []*Record {
	list, _ := t.invoke(OpErrors).([]*Record)
	return list
}

// HasErrors reports whether any records have accumulated.
func (t *Tracker) HasErrors() bool { return boolResult(t.invoke(OpHasErrors)) }

// ClearErrors discards every accumulated record. There is no archive.
func (t *Tracker) ClearErrors() { t.invoke(OpClearErrors) }

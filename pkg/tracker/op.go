package tracker

import "sync"

// Phase says which hook list an invocation context belongs to.
type Phase string

// Hook phases.
const (
	PhaseBefore Phase = "before"
	PhaseAfter  Phase = "after"
)

// RawFunc is the uniform shape of raw operation bodies and of replacement
// entries installed in the operation table.
type RawFunc func(args []any) (any, error)

// HookFunc observes a wrapped operation. Returning an error (or panicking)
// records a fault without disturbing the operation the hook is attached to.
type HookFunc func(*HookContext) error

// HookContext is handed to every hook invocation. It is transient; hooks
// should not retain it past their own call.
type HookContext struct {
	Op    string     // public operation name
	Raw   RawFunc    // the raw, unwrapped operation body
	Args  []any      // arguments of the current invocation
	Hooks []HookFunc // the hook list being run, in execution order
	Phase Phase
}

// Operation is a wrapped public operation: the raw body plus ordered before
// and after hook lists. The raw body and every hook each run under the fault
// boundary individually, so a failing hook never disturbs its neighbours,
// the raw body, or the caller.
type Operation struct {
	t    *Tracker
	name string
	raw  RawFunc

	mu     sync.RWMutex
	before []HookFunc
	after  []HookFunc
}

// wrap builds the Operation for a raw body. The tracker receiver is fixed at
// construction; replacing table entries later does not rebind it.
func (t *Tracker) wrap(name string, raw RawFunc) *Operation {
	return &Operation{t: t, name: name, raw: raw}
}

// Name returns the public name the operation is registered under.
func (op *Operation) Name() string { return op.name }

// Raw returns the unwrapped body. Mutating anything reachable from the
// returned reference has no effect on the wrapped behaviour.
func (op *Operation) Raw() RawFunc { return op.raw }

// Before returns a copy of the before-hook list in execution order.
func (op *Operation) Before() []HookFunc {
	op.mu.RLock()
	defer op.mu.RUnlock()
	out := make([]HookFunc, len(op.before))
	copy(out, op.before)
	return out
}

// After returns a copy of the after-hook list in execution order.
func (op *Operation) After() []HookFunc {
	op.mu.RLock()
	defer op.mu.RUnlock()
	out := make([]HookFunc, len(op.after))
	copy(out, op.after)
	return out
}

func (op *Operation) attach(phase Phase, fn HookFunc) {
	op.mu.Lock()
	defer op.mu.Unlock()
	if phase == PhaseAfter {
		op.after = append(op.after, fn)
		return
	}
	op.before = append(op.before, fn)
}

// Call invokes the operation with full isolation: a fault anywhere inside is
// recorded and Call returns the zero result instead of failing.
func (op *Operation) Call(args ...any) any {
	res, err := op.call(args)
	if err != nil {
		op.t.captureFault(err)
	}
	return res
}

// call runs the before-hooks, the raw body, then the after-hooks. Hook
// faults are recorded here, one record per failing hook, and never stop the
// sequence. A raw-body fault is returned to the caller, which decides
// whether recording it would recurse (see dispatch).
func (op *Operation) call(args []any) (any, error) {
	op.t.runHooks(&HookContext{
		Op:    op.name,
		Raw:   op.raw,
		Args:  args,
		Hooks: op.Before(),
		Phase: PhaseBefore,
	})

	res, err := protect(op.raw, args)

	op.t.runHooks(&HookContext{
		Op:    op.name,
		Raw:   op.raw,
		Args:  args,
		Hooks: op.After(),
		Phase: PhaseAfter,
	})

	if err != nil {
		return nil, err
	}
	return res, nil
}

// runHooks executes each hook in order under the fault boundary. It is a
// primitive of the operation wrapper and is never itself wrappable or
// hookable.
func (t *Tracker) runHooks(hctx *HookContext) {
	for _, hook := range hctx.Hooks {
		h := hook
		_, err := protect(func([]any) (any, error) { return nil, h(hctx) }, nil)
		if err == nil {
			continue
		}
		if hctx.Op == OpSaveError {
			// A failing hook on the save operation cannot be routed back
			// through save without recursing; record it directly.
			t.acc.append(t.normalize(err))
			continue
		}
		t.captureFault(err)
	}
}

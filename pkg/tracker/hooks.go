package tracker

import (
	"errors"
	"fmt"
)

// Target selects an operation for hook attachment: either by its public
// name or by direct reference to a wrapped operation.
type Target struct {
	name string
	op   *Operation
}

// ByName targets the operation registered under name.
func ByName(name string) Target { return Target{name: name} }

// ByRef targets a wrapped operation directly.
func ByRef(op *Operation) Target { return Target{op: op} }

// resolveTarget maps a Target onto a wrapped operation in the live table.
// Anything else — unknown names, replaced (unwrapped) entries, the
// primitives the wrapper machinery is built from — yields nil: those are
// not attachable.
func (t *Tracker) resolveTarget(tgt Target) *Operation {
	if tgt.op != nil {
		return tgt.op
	}
	if tgt.name == "" {
		return nil
	}
	op, _ := t.operationEntry(tgt.name).(*Operation)
	return op
}

// AttachBefore appends fn to the before-hooks of the target operation and
// reports whether the attachment took. Unresolvable targets fail quietly;
// malformed attachments become tracked errors. Nothing here ever panics at
// the caller.
func (t *Tracker) AttachBefore(target Target, fn HookFunc) bool {
	return boolResult(t.invoke(OpAttachBefore, target, fn))
}

// AttachAfter appends fn to the after-hooks of the target operation, with
// the same failure behaviour as AttachBefore.
func (t *Tracker) AttachAfter(target Target, fn HookFunc) bool {
	return boolResult(t.invoke(OpAttachAfter, target, fn))
}

func (t *Tracker) attachBeforeRaw(args []any) (any, error) {
	return t.attachRaw(args, PhaseBefore)
}

func (t *Tracker) attachAfterRaw(args []any) (any, error) {
	return t.attachRaw(args, PhaseAfter)
}

func (t *Tracker) attachRaw(args []any, phase Phase) (any, error) {
	if len(args) != 2 {
		return false, fmt.Errorf("attach: want target and hook, got %d arguments", len(args))
	}
	tgt, ok := args[0].(Target)
	if !ok {
		return false, fmt.Errorf("attach: first argument must be a Target, got %T", args[0])
	}
	hook, err := asHook(args[1])
	if err != nil {
		return false, err
	}

	op := t.resolveTarget(tgt)
	if op == nil {
		return false, nil
	}
	op.attach(phase, hook)
	return true, nil
}

func asHook(v any) (HookFunc, error) {
	switch fn := v.(type) {
	case HookFunc:
		if fn == nil {
			return nil, errors.New("attach: hook must not be nil")
		}
		return fn, nil
	case func(*HookContext) error:
		if fn == nil {
			return nil, errors.New("attach: hook must not be nil")
		}
		return fn, nil
	case nil:
		return nil, errors.New("attach: hook must not be nil")
	default:
		return nil, fmt.Errorf("attach: second argument must be a hook func, got %T", v)
	}
}

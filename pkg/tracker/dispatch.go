package tracker

import "fmt"

// dispatch invokes a named operation through the live operation table. The
// table is consulted on every call because embedders may replace entries; a
// replaced entry that panics becomes a tracked error like any other fault.
//
// A fault while dispatching SaveError itself is returned to the caller
// instead of being re-dispatched: re-entering save on its own failure would
// never terminate. That returned error is the one fault permitted to
// surface out of the isolation machinery.
func (t *Tracker) dispatch(name string, args ...any) (any, error) {
	var (
		res any
		err error
	)

	switch fn := t.operationEntry(name).(type) {
	case *Operation:
		res, err = fn.call(args)
	case RawFunc:
		res, err = protect(fn, args)
	case func(args []any) (any, error):
		res, err = protect(fn, args)
	case nil:
		err = fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	default:
		err = fmt.Errorf("operation %s is not callable (entry is %T)", name, fn)
	}

	if err == nil {
		return res, nil
	}
	if name == OpSaveError {
		return nil, err
	}
	if _, derr := t.dispatch(OpSaveError, err); derr != nil {
		return nil, derr
	}
	return nil, nil
}

// captureFault routes a fault into the save operation through the internal
// dispatcher. If saving itself is broken the failure is logged and dropped;
// nothing propagates to the embedding application.
func (t *Tracker) captureFault(fault any) {
	if _, err := t.dispatch(OpSaveError, fault); err != nil {
		t.logger.Error("error save failed", "error", err)
	}
}

// invoke runs a public operation and flattens the loop-guard error into a
// log line. Every exported method on Tracker funnels through here so that
// replaced table entries and attached hooks see internal calls too.
func (t *Tracker) invoke(name string, args ...any) any {
	res, err := t.dispatch(name, args...)
	if err != nil {
		t.logger.Error("operation failed and save is unavailable", "op", name, "error", err)
		return nil
	}
	return res
}

func boolResult(v any) bool {
	b, _ := v.(bool)
	return b
}

package tracker

import (
	"fmt"
	"runtime/debug"
)

// PanicError carries a recovered panic value and the stack captured at the
// recovery point. It is how panics enter the error records.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// protect is the fault boundary everything else is built on: it runs fn and
// returns a panic or returned error as the error result, so no fault escapes
// the call. It only observes faults; recording them is the caller's concern.
// protect must never itself be wrapped as an operation, or hook execution
// would recurse without end.
func protect(fn RawFunc, args []any) (res any, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &PanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()
	if fn == nil {
		return nil, fmt.Errorf("nil operation body")
	}
	return fn(args)
}

package tracker

import "fmt"

// argAt fetches a positional argument, tolerating short argument lists so
// malformed internal dispatches degrade into recorded faults instead of
// out-of-range panics.
func argAt(args []any, i int) any {
	if i < len(args) {
		return args[i]
	}
	return nil
}

func (t *Tracker) receiveErrorRaw(args []any) (any, error) {
	if _, err := t.dispatch(OpSaveError, argAt(args, 0)); err != nil {
		// Loop guard: saving is broken, surface it to the boundary.
		return nil, err
	}

	// Send and display are independent of each other; faults in either are
	// already captured by dispatch.
	if t.config.boolean(KeyAutoSendErrors) {
		_, _ = t.dispatch(OpSendErrors)
	}
	if t.config.boolean(KeyAutoDisplayWindow) {
		_, _ = t.dispatch(OpDisplayWindow)
	}
	return nil, nil
}

func (t *Tracker) saveErrorRaw(args []any) (any, error) {
	t.acc.append(t.normalize(argAt(args, 0)))
	return nil, nil
}

func (t *Tracker) configureRaw(args []any) (any, error) {
	var settings map[string]any
	switch v := argAt(args, 0).(type) {
	case nil:
	case map[string]any:
		settings = v
	default:
		return false, fmt.Errorf("configure: want map[string]any, got %T", v)
	}

	ok, err := t.config.configureAll(settings)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (t *Tracker) setConfigValueRaw(args []any) (any, error) {
	key, ok := argAt(args, 0).(string)
	if !ok {
		return false, fmt.Errorf("set config: key must be a string, got %T", argAt(args, 0))
	}
	return t.config.set(key, argAt(args, 1)), nil
}

func (t *Tracker) configValueRaw(args []any) (any, error) {
	key, ok := argAt(args, 0).(string)
	if !ok {
		return nil, fmt.Errorf("get config: key must be a string, got %T", argAt(args, 0))
	}
	v, _ := t.config.get(key)
	return v, nil
}

func (t *Tracker) hasConfigValueRaw(args []any) (any, error) {
	key, ok := argAt(args, 0).(string)
	if !ok {
		return false, fmt.Errorf("check config: key must be a string, got %T", argAt(args, 0))
	}
	return t.config.has(key), nil
}

func (t *Tracker) resetConfigRaw([]any) (any, error) {
	ok, err := t.config.configureAll(nil)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (t *Tracker) errorsRaw([]any) (any, error) {
	return t.acc.list(), nil
}

func (t *Tracker) hasErrorsRaw([]any) (any, error) {
	return t.acc.hasAny(), nil
}

func (t *Tracker) clearErrorsRaw([]any) (any, error) {
	t.acc.clear()
	return nil, nil
}

func (t *Tracker) displayWindowRaw([]any) (any, error) {
	t.winMu.Lock()
	if t.windowOpen {
		t.winMu.Unlock()
		return nil, nil
	}
	t.windowOpen = true
	t.winMu.Unlock()

	actions := Actions{
		Submit: func(stopAutoDisplay bool) {
			if stopAutoDisplay {
				_, _ = t.dispatch(OpSetConfigValue, KeyAutoDisplayWindow, false)
			}
			_, _ = t.dispatch(OpSendErrors)
			_, _ = t.dispatch(OpDismissWindow)
		},
		Dismiss: func(stopAutoDisplay bool) {
			if stopAutoDisplay {
				_, _ = t.dispatch(OpSetConfigValue, KeyAutoDisplayWindow, false)
			}
			_, _ = t.dispatch(OpDismissWindow)
		},
	}

	// Show runs outside winMu: a notifier may invoke the actions
	// synchronously before returning, and those re-enter the window
	// operations.
	h, err := t.notifier.Show(
		t.config.str(KeyWindowTitle),
		t.config.str(KeyWindowText),
		t.config.styleSettings(),
		actions,
	)
	if err != nil {
		t.winMu.Lock()
		t.window = nil
		t.windowOpen = false
		t.winMu.Unlock()
		return nil, fmt.Errorf("show notice: %w", err)
	}

	t.winMu.Lock()
	if !t.windowOpen {
		// Dismissed from inside Show, before a handle existed. Finish the
		// dismissal now that there is one.
		t.winMu.Unlock()
		return nil, t.finishDismiss(h)
	}
	t.window = h
	t.winMu.Unlock()
	return h, nil
}

func (t *Tracker) dismissWindowRaw([]any) (any, error) {
	t.winMu.Lock()
	if !t.windowOpen {
		t.winMu.Unlock()
		return nil, nil
	}
	h := t.window
	t.window = nil
	t.windowOpen = false
	t.winMu.Unlock()

	if h == nil {
		// Show has not returned yet; displayWindowRaw finishes the
		// dismissal once it has the handle.
		return nil, nil
	}
	return nil, t.finishDismiss(h)
}

// finishDismiss hands the handle to the notifier. On failure the window is
// reinstated so a later dismiss can retry with the same handle.
func (t *Tracker) finishDismiss(h Handle) error {
	if err := t.notifier.Dismiss(h); err != nil {
		t.winMu.Lock()
		if !t.windowOpen {
			t.window = h
			t.windowOpen = true
		}
		t.winMu.Unlock()
		return fmt.Errorf("dismiss notice: %w", err)
	}
	return nil
}

package tracker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatchOfCorruptedOperationIsCaptured(t *testing.T) {
	tr, _ := newTestTracker()

	// An embedder overrides a public operation with something that panics.
	require.True(t, tr.ReplaceOperation(OpSendErrors, func([]any) (any, error) {
		panic("corrupted override")
	}))
	require.True(t, tr.SetConfigValue(KeyAutoSendErrors, true))

	// Receiving an error must not crash even though the send op is broken.
	tr.ReceiveError(errors.New("original fault"))

	records := tr.Errors()
	require.Len(t, records, 2)
	require.Equal(t, "original fault", records[0].Message)
	require.Contains(t, records[1].Message, "corrupted override")
}

func TestBrokenSaveDoesNotLoop(t *testing.T) {
	tr, _ := newTestTracker()

	require.True(t, tr.ReplaceOperation(OpSaveError, func([]any) (any, error) {
		panic("save is broken")
	}))

	// Must terminate: the failure while dispatching save surfaces instead of
	// re-entering save forever.
	tr.ReceiveError(errors.New("fault"))

	require.False(t, tr.HasErrors())
}

func TestDispatchUnknownOperationIsCaptured(t *testing.T) {
	tr, _ := newTestTracker()

	res, err := tr.dispatch("NoSuchOperation")
	require.NoError(t, err)
	require.Nil(t, res)

	records := tr.Errors()
	require.Len(t, records, 1)
	require.Contains(t, records[0].Message, "NoSuchOperation")
}

func TestReplaceOperationRejectsUnknownNames(t *testing.T) {
	tr, _ := newTestTracker()

	require.False(t, tr.ReplaceOperation("NoSuchOperation", func([]any) (any, error) {
		return nil, nil
	}))
}

func TestReplacedOperationServesPublicMethod(t *testing.T) {
	tr, _ := newTestTracker()

	called := false
	require.True(t, tr.ReplaceOperation(OpClearErrors, func([]any) (any, error) {
		called = true
		return nil, nil
	}))

	tr.ClearErrors()
	require.True(t, called)
}

func TestFaultingSaveHookStillRecordsWithoutRecursion(t *testing.T) {
	tr, _ := newTestTracker()

	require.True(t, tr.AttachBefore(ByName(OpSaveError), func(*HookContext) error {
		return errors.New("observer of save failed")
	}))

	tr.SaveError(errors.New("fault"))

	// Both the hook failure and the original fault are recorded, exactly
	// once each.
	records := tr.Errors()
	require.Len(t, records, 2)
	require.Equal(t, "observer of save failed", records[0].Message)
	require.Equal(t, "fault", records[1].Message)
}

package tracker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetAndGetConfigValue(t *testing.T) {
	tr, _ := newTestTracker()

	require.True(t, tr.SetConfigValue(KeyEndpoint, "/api/errs"))
	require.Equal(t, "/api/errs", tr.ConfigValue(KeyEndpoint))
}

func TestBooleanKeysRejectNonBooleans(t *testing.T) {
	tr, _ := newTestTracker()

	require.False(t, tr.SetConfigValue(KeyAutoSendErrors, "yes"))
	require.Equal(t, false, tr.ConfigValue(KeyAutoSendErrors))

	require.True(t, tr.SetConfigValue(KeyAutoSendErrors, true))
	require.Equal(t, true, tr.ConfigValue(KeyAutoSendErrors))
}

func TestOpenKeyspaceAcceptsExtensionKeys(t *testing.T) {
	tr, _ := newTestTracker()

	require.True(t, tr.SetConfigValue("myPlugin.threshold", 42))
	require.Equal(t, 42, tr.ConfigValue("myPlugin.threshold"))
	require.True(t, tr.HasConfigValue("myPlugin.threshold"))
}

func TestHasConfigValueSeesUnsetSentinel(t *testing.T) {
	tr, _ := newTestTracker()

	// The endpoint defaults to empty but the key is present.
	require.True(t, tr.HasConfigValue(KeyEndpoint))
	require.Equal(t, "", tr.ConfigValue(KeyEndpoint))
	require.False(t, tr.HasConfigValue("never-set"))
	require.Nil(t, tr.ConfigValue("never-set"))
}

func TestConfigureRollsBackOnInvalidEntry(t *testing.T) {
	tr, _ := newTestTracker()

	require.True(t, tr.SetConfigValue(KeyEndpoint, "/a"))
	require.True(t, tr.SetConfigValue(KeyAutoSendErrors, true))

	ok := tr.Configure(map[string]any{
		KeyEndpoint:          "/b",
		KeyAutoDisplayWindow: "not-a-bool",
	})

	require.False(t, ok)
	require.Equal(t, "/a", tr.ConfigValue(KeyEndpoint))
	require.Equal(t, true, tr.ConfigValue(KeyAutoSendErrors))
}

func TestConfigureRejectionIsRecorded(t *testing.T) {
	tr, _ := newTestTracker()

	tr.Configure(map[string]any{KeyAutoDisplayWindow: "not-a-bool"})

	records := tr.Errors()
	require.Len(t, records, 1)
	require.Contains(t, records[0].Message, KeyAutoDisplayWindow)
}

func TestConfigureReplacesInsteadOfMerging(t *testing.T) {
	tr, _ := newTestTracker()

	require.True(t, tr.SetConfigValue(KeyEndpoint, "/a"))
	require.True(t, tr.SetConfigValue(KeyAutoSendErrors, true))

	require.True(t, tr.Configure(map[string]any{KeyEndpoint: "/b"}))

	require.Equal(t, "/b", tr.ConfigValue(KeyEndpoint))
	require.Equal(t, false, tr.ConfigValue(KeyAutoSendErrors))
}

func TestResetConfigRestoresDefaults(t *testing.T) {
	tr, _ := newTestTracker()

	require.True(t, tr.SetConfigValue(KeyEndpoint, "/somewhere"))
	require.True(t, tr.SetConfigValue("extra", "value"))

	require.True(t, tr.ResetConfig())

	require.Equal(t, "", tr.ConfigValue(KeyEndpoint))
	require.False(t, tr.HasConfigValue("extra"))
	require.Equal(t, false, tr.ConfigValue(KeyAutoDisplayWindow))
}

func TestStyleSettingsStripPrefix(t *testing.T) {
	tr, _ := newTestTracker()

	require.True(t, tr.SetConfigValue(StylePrefix+"position", "top-left"))
	style := tr.config.styleSettings()
	require.Equal(t, "top-left", style["position"])
	require.NotContains(t, style, StylePrefix+"position")
}

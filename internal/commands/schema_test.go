package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestBuildCommandSchema_FlagTypesAndDefaults(t *testing.T) {
	cmd := &cobra.Command{Use: "probe", Short: "probe command"}
	cmd.Flags().Int("limit", 50, "Maximum rows")
	cmd.Flags().Bool("verbose", false, "Verbose output")
	cmd.Flags().String("name", "", "A name")

	schema := buildCommandSchema(cmd)
	require.Equal(t, "probe", schema.Command)
	require.Equal(t, "probe command", schema.Description)

	props, ok := schema.ArgsSchema["properties"].(map[string]any)
	require.True(t, ok)

	limit := props["limit"].(map[string]any)
	require.Equal(t, "integer", limit["type"])
	require.Equal(t, 50, limit["default"])

	verbose := props["verbose"].(map[string]any)
	require.Equal(t, "boolean", verbose["type"])
	require.Equal(t, false, verbose["default"])

	name := props["name"].(map[string]any)
	require.Equal(t, "string", name["type"])
	_, hasDefault := name["default"]
	require.False(t, hasDefault, "empty defaults should be omitted")
}

func TestBuildCommandSchema_SkipsHiddenFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "probe"}
	cmd.Flags().String("secret", "", "Hidden flag")
	require.NoError(t, cmd.Flags().MarkHidden("secret"))

	schema := buildCommandSchema(cmd)
	props := schema.ArgsSchema["properties"].(map[string]any)
	_, ok := props["secret"]
	require.False(t, ok)
}

func TestCollectCommandSchemas_SkipsRootAndSchema(t *testing.T) {
	root := &cobra.Command{Use: "errtracker"}
	root.AddCommand(NewDemoCmd())
	root.AddCommand(NewReportsCmd())
	schemaCmd := newSchemaCmd(root)
	root.AddCommand(schemaCmd)

	var schemas []commandArgSchema
	collectCommandSchemas(root, &schemas)

	names := map[string]bool{}
	for _, s := range schemas {
		names[s.Command] = true
	}
	require.True(t, names["errtracker demo"])
	require.True(t, names["errtracker reports list"])
	require.False(t, names["errtracker"])
	require.False(t, names["errtracker schema"])
}

func TestNormalizeFlagType(t *testing.T) {
	require.Equal(t, "integer", normalizeFlagType("int64"))
	require.Equal(t, "boolean", normalizeFlagType("bool"))
	require.Equal(t, "string", normalizeFlagType("duration"))
	require.Equal(t, "string", normalizeFlagType("stringSlice"))
}

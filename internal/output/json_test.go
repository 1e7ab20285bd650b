package output

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	original := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = original }()

	fn()

	require.NoError(t, w.Close())

	b, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	return string(b)
}

func TestSuccessAndError(t *testing.T) {
	s := Success(map[string]string{"k": "v"})
	require.Equal(t, "v1", s.SchemaVersion)
	require.True(t, s.Success)
	require.NotNil(t, s.Data)
	require.Empty(t, s.Error)

	e := Error(errors.New("boom"))
	require.Equal(t, "v1", e.SchemaVersion)
	require.False(t, e.Success)
	require.Nil(t, e.Data)
	require.Equal(t, "boom", e.Error)
}

func TestPrintWith_CompactJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Writer: &buf, Pretty: false}

	err := PrintWith(cfg, map[string]string{"hello": "world"})
	require.NoError(t, err)
	require.Equal(t, "{\"hello\":\"world\"}\n", buf.String())
}

func TestPrintWith_PrettyJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Writer: &buf, Pretty: true}

	err := PrintWith(cfg, map[string]string{"hello": "world"})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "\n  \"hello\": \"world\"\n")
	require.True(t, strings.HasPrefix(out, "{\n"))
}

func TestPrint_DefaultCompactJSON(t *testing.T) {
	t.Setenv("ERRTRACKER_PRETTY_JSON", "")

	out := captureStdout(t, func() {
		err := Print(map[string]string{"hello": "world"})
		require.NoError(t, err)
	})

	require.Equal(t, "{\"hello\":\"world\"}\n", out)
}

func TestPrint_PrettyViaEnv(t *testing.T) {
	t.Setenv("ERRTRACKER_PRETTY_JSON", "1")

	out := captureStdout(t, func() {
		err := Print(map[string]string{"hello": "world"})
		require.NoError(t, err)
	})

	require.Contains(t, out, "\n  \"hello\": \"world\"\n")
}

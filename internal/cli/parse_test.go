package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parseSample = `prose before the first tag
@zora:logical:0:
 F
@total_energy:real:0:
 -0.525939780218915E+003
@eigenlevels_up:real:2:2,3
 1.0 2.0 3.0
 4.0 5.0 6.0
`

func writeTagFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.tag")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseText(t *testing.T) {
	path := writeTagFile(t, parseSample)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewParseCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "@zora:logical:0:")
	assert.Contains(t, out, "@total_energy:real:0:")
	assert.Contains(t, out, "@eigenlevels_up:real:2:2,3")
	assert.Contains(t, out, "3 entries")
}

func TestParseValues(t *testing.T) {
	path := writeTagFile(t, parseSample)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewParseCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--values"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "-5.25939780218915E+02")
}

func TestParseJSON(t *testing.T) {
	path := writeTagFile(t, parseSample)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewParseCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	payload, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result ParseResult
	require.NoError(t, json.Unmarshal(payload, &result))
	require.Len(t, result.Entries, 3)
	assert.Equal(t, "eigenlevels_up", result.Entries[2].Name)
	assert.Equal(t, []int{2, 3}, result.Entries[2].Shape)
	assert.Equal(t, 6, result.Entries[2].Values)
}

func TestParseMissingFile(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewParseCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "nope.tag")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestParseMalformedReportsLineRange(t *testing.T) {
	path := writeTagFile(t, "@bad:real:2:2,3\n1.0 2.0\n")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewParseCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "lines 1-2")
	assert.Contains(t, buf.String(), "invalid number of values")
}

package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOrderCommand_Text tests the space-separated single-line output.
func TestOrderCommand_Text(t *testing.T) {
	base, mid, top := writeProject(t)

	// Pass files in reverse to prove ordering does the work.
	stdout, _, err := executeCommand(t, "order", top, mid, base)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("%s %s %s\n", base, mid, top), stdout)
}

// TestOrderCommand_JSON tests the structured response.
func TestOrderCommand_JSON(t *testing.T) {
	base, mid, top := writeProject(t)

	stdout, _, err := executeCommand(t, "order", "--format", "json", top, mid, base)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{base, mid, top}, data["order"].([]interface{}))
	assert.Equal(t, []interface{}{top, mid, base}, data["files"].([]interface{}))
}

// TestOrderCommand_Cycle tests that a cycle aborts with the witness path
// and exit code 1, producing no order.
func TestOrderCommand_Cycle(t *testing.T) {
	a, b := writeCycle(t)

	stdout, _, err := executeCommand(t, "order", a, b)
	require.Error(t, err)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E101]")
	assert.Contains(t, stdout, fmt.Sprintf("%s -> %s -> %s", a, b, a))
	assert.NotContains(t, stdout, fmt.Sprintf("%s %s\n", a, b))
}

// TestOrderCommand_UnreadableFile tests the fatal input error path.
func TestOrderCommand_UnreadableFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.js")

	stdout, _, err := executeCommand(t, "order", missing)
	require.Error(t, err)

	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E003]")
}

// TestOrderCommand_SyntaxOverride tests ordering with a custom grammar.
func TestOrderCommand_SyntaxOverride(t *testing.T) {
	dir := t.TempDir()
	syntax := writeSource(t, dir, "syntax.yaml",
		"require_marker: needs\nvariable_keywords: [let]\nfunction_keywords: [def]\n")
	lib := writeSource(t, dir, "lib.src", "let core = 1\n")
	app := writeSource(t, dir, "app.src", "/* needs core */\nlet app = core\n")

	stdout, _, err := executeCommand(t, "order", "--syntax", syntax, app, lib)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("%s %s\n", lib, app), stdout)
}

// TestOrderCommand_BadSyntaxFile tests the syntax config error path.
func TestOrderCommand_BadSyntaxFile(t *testing.T) {
	dir := t.TempDir()
	syntax := writeSource(t, dir, "syntax.yaml", "variable_keywords: []\n")
	src := writeSource(t, dir, "a.js", "var x = 1;\n")

	stdout, _, err := executeCommand(t, "order", "--syntax", syntax, src)
	require.Error(t, err)

	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E004]")
}

// TestOrderCommand_IndependentFiles tests that files without requirements
// each appear exactly once.
func TestOrderCommand_IndependentFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.js", "var a = 1;\n")
	b := writeSource(t, dir, "b.js", "var b = 2;\n")
	c := writeSource(t, dir, "c.js", "var c = 3;\n")

	stdout, _, err := executeCommand(t, "order", a, b, c)
	require.NoError(t, err)

	for _, path := range []string{a, b, c} {
		assert.Contains(t, stdout, path)
	}
}

// TestRootCommand_InvalidFormat tests the persistent flag validation.
func TestRootCommand_InvalidFormat(t *testing.T) {
	base, _, _ := writeProject(t)

	_, _, err := executeCommand(t, "order", "--format", "xml", base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

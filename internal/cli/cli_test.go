package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with args and captured output.
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// writeSource creates one source file under dir and returns its path.
func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeProject creates the standard three-file chain used across command
// tests: base defines x, mid requires x and defines y, top requires both.
func writeProject(t *testing.T) (base, mid, top string) {
	dir := t.TempDir()
	base = writeSource(t, dir, "base.js", "var x = 1;\n")
	mid = writeSource(t, dir, "mid.js", "/* global x */\nfunction y() {}\n")
	top = writeSource(t, dir, "top.js", "/* global x, y */\nvar top = y(x);\n")
	return base, mid, top
}

// writeCycle creates two files with mutual requirements.
func writeCycle(t *testing.T) (a, b string) {
	dir := t.TempDir()
	a = writeSource(t, dir, "a.js", "/* global y */\nvar x = y;\n")
	b = writeSource(t, dir, "b.js", "/* global x */\nvar y = x;\n")
	return a, b
}

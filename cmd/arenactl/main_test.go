package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	return path
}

const reference = `
backing: 1024
slots: 4
ops:
  - alloc: 100
  - split: {index: 0, size: 200}
    expect_addr: 824
  - free: 824
  - free: 0
  - expect_merged: true
`

func TestRun(t *testing.T) {
	path := writeScenario(t, reference)

	t.Run("replay", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run([]string{"-f", path}, &stdout, &stderr)
		assert.Equal(t, exitOK, code, stderr.String())
		assert.Contains(t, stdout.String(), "#2 split slot=0 size=200 -> addr=824")
		assert.Contains(t, stdout.String(), "#5 expect_merged true -> true")
		assert.Empty(t, stderr.String())
	})

	t.Run("dump and metrics", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run([]string{"--file", path, "--dump", "--metrics"}, &stdout, &stderr)
		assert.Equal(t, exitOK, code, stderr.String())
		assert.Contains(t, stdout.String(), "Manager{slots: 1/4, size: 1024, used: 0, hint: 0}")
		assert.Contains(t, stdout.String(), `arenactl_arena_operations_total{operation="split"} 1`)
		assert.Contains(t, stdout.String(), "arenactl_arena_active_slots 1")
	})

	t.Run("verbose", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run([]string{"-f", path, "-v"}, &stdout, &stderr)
		assert.Equal(t, exitOK, code)
		assert.Contains(t, stderr.String(), "allocate completed")
	})

	t.Run("budget", func(t *testing.T) {
		over := writeScenario(t, "backing: 1024\nslots: 2\nops:\n  - alloc: 100\n  - alloc: 100\n    expect_error: out_of_memory\n")
		var stdout, stderr bytes.Buffer
		code := run([]string{"-f", over, "--budget", "150"}, &stdout, &stderr)
		assert.Equal(t, exitOK, code, stderr.String())
		assert.Contains(t, stdout.String(), "error out_of_memory (expected)")
	})
}

func TestRun_Failures(t *testing.T) {
	t.Run("missing file flag", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, exitUsage, run(nil, &stdout, &stderr))
		assert.Contains(t, stderr.String(), "--file is required")
	})

	t.Run("unknown flag", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, exitUsage, run([]string{"--nope"}, &stdout, &stderr))
	})

	t.Run("help", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, exitOK, run([]string{"--help"}, &stdout, &stderr))
	})

	t.Run("unreadable file", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run([]string{"-f", filepath.Join(t.TempDir(), "missing.yaml")}, &stdout, &stderr)
		assert.Equal(t, exitFailed, code)
	})

	t.Run("unmet expectation", func(t *testing.T) {
		path := writeScenario(t, "backing: 64\nslots: 1\nops:\n  - alloc: 8\n  - expect_merged: true\n  - alloc: 100\n")
		var stdout, stderr bytes.Buffer
		code := run([]string{"-f", path}, &stdout, &stderr)
		assert.Equal(t, exitFailed, code)
		assert.Contains(t, stdout.String(), "#3 alloc 100 -> error out_of_memory")
		assert.Contains(t, stderr.String(), "expectation failed")
	})
}

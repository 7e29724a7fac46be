package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choplin/projectdb/internal/model"
)

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	for _, key := range []string{"PROJECTDB_PROJECTS_DIR", "PROJECTDB_LOG_LEVEL", "PROJECTS_DIR"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--dir", filepath.Join(dir, "projects"), "--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestProjectCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "project", "create", "alpha")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project 'alpha'")

	_, err = run(t, dir, "project", "create", "alpha")
	require.ErrorIs(t, err, model.ErrAlreadyExists)

	out, err = run(t, dir, "project", "list", "--format", "json")
	require.NoError(t, err)
	var projects []string
	require.NoError(t, json.Unmarshal([]byte(out), &projects))
	assert.Equal(t, []string{"alpha"}, projects)

	out, err = run(t, dir, "project", "list", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "alpha")

	out, err = run(t, dir, "project", "delete", "alpha", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted project 'alpha'")

	_, err = run(t, dir, "project", "delete", "alpha", "--force")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestEntryCommands(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "project", "create", "notes")
	require.NoError(t, err)

	out, err := run(t, dir, "entry", "add", "notes", "--title", "x", "--body", "lorem ipsum")
	require.NoError(t, err)
	assert.Contains(t, out, "Created entry 1 in 'notes'")

	out, err = run(t, dir, "entry", "get", "notes", "1", "--format", "json")
	require.NoError(t, err)
	var entry model.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entry))
	assert.Equal(t, model.Entry{ID: 1, Title: "x", Body: "lorem ipsum"}, entry)

	out, err = run(t, dir, "entry", "list", "notes", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "lorem ipsum")

	_, err = run(t, dir, "entry", "delete", "notes", "1")
	require.NoError(t, err)

	_, err = run(t, dir, "entry", "get", "notes", "1", "--format", "table")
	require.ErrorIs(t, err, model.ErrNotFound)

	_, err = run(t, dir, "entry", "get", "notes", "not-a-number")
	require.Error(t, err)

	out, err = run(t, dir, "entry", "list", "notes", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, t.TempDir(), "project", "list", "--format", "yaml")
	require.ErrorContains(t, err, "invalid format")
}

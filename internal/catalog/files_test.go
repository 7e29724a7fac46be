package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choplin/projectdb/internal/model"
)

func TestCreateExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.db")

	require.NoError(t, createExclusive(path))
	assert.ErrorIs(t, createExclusive(path), model.ErrAlreadyExists)
}

func TestRemoveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.db")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	require.NoError(t, removeFile(path))
	assert.ErrorIs(t, removeFile(path), model.ErrNotFound)
}

func TestTrimSuffix(t *testing.T) {
	cases := map[string]struct {
		name string
		ok   bool
	}{
		"notes.db":         {"notes", true},
		"with space.db":    {"with space", true},
		".db":              {"", false},
		"notes.db-journal": {"", false},
		"notes.txt":        {"", false},
	}
	for in, want := range cases {
		name, ok := trimSuffix(in)
		assert.Equal(t, want.ok, ok, in)
		assert.Equal(t, want.name, name, in)
	}
}

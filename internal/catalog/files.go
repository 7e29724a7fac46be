package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/choplin/projectdb/internal/model"
)

// projectSuffix is appended to a project name to form its file name.
const projectSuffix = ".db"

// validateName rejects names that would resolve outside the catalog root.
// Anything else is left to the filesystem.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("project %q: %w", name, model.ErrInvalidName)
	}
	return nil
}

// projectName returns the project a directory entry belongs to, if any.
func projectName(entry fs.DirEntry) (string, bool) {
	if !entry.Type().IsRegular() {
		return "", false
	}
	return trimSuffix(entry.Name())
}

func trimSuffix(fileName string) (string, bool) {
	base, ok := strings.CutSuffix(fileName, projectSuffix)
	if !ok || base == "" {
		return "", false
	}
	return base, true
}

// createExclusive creates path, failing with model.ErrAlreadyExists when it
// is already present. This is the only guard against duplicate creation.
func createExclusive(path string) error {
	//nolint:gosec // G304: path is built from the catalog root
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return model.ErrAlreadyExists
		}
		return fmt.Errorf("%w: %w", model.ErrStorage, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", model.ErrStorage, err)
	}
	return nil
}

// removeFile deletes path, failing with model.ErrNotFound when it is absent.
func removeFile(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.ErrNotFound
		}
		return fmt.Errorf("%w: %w", model.ErrStorage, err)
	}
	return nil
}

// listProjects returns the sorted project names stored in dir. A project file
// whose name is not valid UTF-8 fails the whole listing.
func listProjects(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", dir, model.ErrStorage, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name, ok := projectName(entry)
		if !ok {
			continue
		}
		if !utf8.ValidString(name) {
			return nil, fmt.Errorf("file name %q: %w: not valid UTF-8", entry.Name(), model.ErrInvalidName)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

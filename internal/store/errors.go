package store

import (
	"fmt"

	"github.com/choplin/projectdb/internal/model"
)

var (
	// ErrClosed is returned by operations on a handle that was closed.
	ErrClosed = fmt.Errorf("store: handle closed: %w", model.ErrStorage)
	// ErrDeleted is returned by every handle of a project once the project
	// has been deleted.
	ErrDeleted = fmt.Errorf("store: project deleted: %w", model.ErrNotFound)
	// ErrIncomplete indicates a project file without the entries table,
	// typically left behind by a crash during project creation.
	ErrIncomplete = fmt.Errorf("store: entries table missing: %w", model.ErrStorage)
)

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, model.ErrStorage, err)
}

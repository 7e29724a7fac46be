package model

import "errors"

var (
	// ErrNotFound indicates a project or entry does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a project file is already present.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidName indicates a project name cannot be used or represented.
	ErrInvalidName = errors.New("invalid name")
	// ErrStorage wraps failures of the underlying file or database connection.
	ErrStorage = errors.New("storage error")
)

// Kind reports which error kind err belongs to, as a short snake_case code.
// It returns "internal" for errors outside the taxonomy.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrInvalidName):
		return "invalid_name"
	case errors.Is(err, ErrStorage):
		return "storage"
	default:
		return "internal"
	}
}

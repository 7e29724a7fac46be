package store

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"

	sqldb "github.com/choplin/projectdb/internal/store/sqlc"
)

// pool is the connection pool shared by every clone of a Store.
type pool struct {
	path    string
	file    fs.FileInfo
	db      *sql.DB
	queries *sqldb.Queries

	refs    atomic.Int64
	deleted atomic.Bool
	closed  atomic.Bool

	closeOnce sync.Once
	closeErr  error
}

func (p *pool) shutdown() error {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		p.closeErr = p.db.Close()
	})
	return p.closeErr
}

// Store is a handle on one project's entries.
//
// A Store is cheap to clone: clones share a single connection pool, which is
// released when the last clone is closed. It is safe for concurrent use.
type Store struct {
	p        *pool
	released atomic.Bool
}

func newStore(path string, db *sql.DB, file fs.FileInfo) *Store {
	p := &pool{
		path:    path,
		file:    file,
		db:      db,
		queries: sqldb.New(db),
	}
	p.refs.Store(1)
	return &Store{p: p}
}

// Path returns the project file backing the store.
func (s *Store) Path() string {
	return s.p.path
}

// IsCurrent reports whether the file at Path is still the one the store was
// opened on. It is false once the file has been removed or replaced.
func (s *Store) IsCurrent() bool {
	info, err := os.Stat(s.p.path)
	return err == nil && os.SameFile(s.p.file, info)
}

// Clone returns a new handle sharing the same pool. Each clone must be closed
// independently.
func (s *Store) Clone() *Store {
	s.p.refs.Add(1)
	return &Store{p: s.p}
}

// Close releases this handle. The pool is closed once every clone has been
// released. Closing a handle twice is a no-op.
func (s *Store) Close() error {
	if !s.released.CompareAndSwap(false, true) {
		return nil
	}
	if s.p.refs.Add(-1) == 0 {
		return s.p.shutdown()
	}
	return nil
}

// Invalidate marks the project as deleted and closes the pool. Every handle
// sharing it fails with ErrDeleted from then on.
func (s *Store) Invalidate() error {
	s.p.deleted.Store(true)
	return s.p.shutdown()
}

// Shutdown closes the pool regardless of outstanding clones, which fail with
// ErrClosed afterwards.
func (s *Store) Shutdown() error {
	return s.p.shutdown()
}

func (s *Store) queries() (*sqldb.Queries, error) {
	switch {
	case s.released.Load():
		return nil, ErrClosed
	case s.p.deleted.Load():
		return nil, ErrDeleted
	case s.p.closed.Load():
		return nil, ErrClosed
	}
	return s.p.queries, nil
}

// queryErr wraps a failed statement. The pool flags are set before the pool
// is closed, so a statement that lost the race with Invalidate or Shutdown
// reports ErrDeleted or ErrClosed rather than a driver error.
func (s *Store) queryErr(op string, err error) error {
	switch {
	case s.p.deleted.Load():
		return fmt.Errorf("%s: %w", op, ErrDeleted)
	case s.p.closed.Load():
		return fmt.Errorf("%s: %w", op, ErrClosed)
	}
	return storageErr(op, err)
}

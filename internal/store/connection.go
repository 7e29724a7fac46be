// Package store provides access to the SQLite file backing a single project.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/choplin/projectdb/db/migrations"
	"github.com/choplin/projectdb/internal/model"
	sqldb "github.com/choplin/projectdb/internal/store/sqlc"

	// Import SQLite driver for database/sql
	_ "modernc.org/sqlite"
)

// maxOpenConns bounds every project pool; SQLite allows a single writer.
const maxOpenConns = 1

// Create connects to path, creating the file if needed, and provisions the
// entries schema.
//
// If provisioning fails the file is left in place without a schema; Open
// reports such a file as ErrIncomplete.
func Create(ctx context.Context, path string) (*Store, error) {
	before, err := os.Stat(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, storageErr("create "+path, err)
	}

	db, err := connect(ctx, path, "rwc")
	if err != nil {
		return nil, err
	}

	info, err := boundFile(path, before)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, storageErr("provision "+path, err)
	}

	return newStore(path, db, info), nil
}

// Open connects to the existing project file at path. It never creates the
// file and returns model.ErrNotFound when it is missing.
func Open(ctx context.Context, path string) (*Store, error) {
	before, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", path, model.ErrNotFound)
		}
		return nil, storageErr("open "+path, err)
	}
	if !before.Mode().IsRegular() {
		return nil, fmt.Errorf("open %s: %w: not a regular file", path, model.ErrStorage)
	}

	db, err := connect(ctx, path, "rw")
	if err != nil {
		if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", path, model.ErrNotFound)
		}
		return nil, err
	}

	info, err := boundFile(path, before)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ok, err := sqldb.New(db).TableExists(ctx, "entries")
	if err != nil {
		_ = db.Close()
		return nil, storageErr("open "+path, err)
	}
	if !ok {
		_ = db.Close()
		return nil, fmt.Errorf("open %s: %w", path, ErrIncomplete)
	}

	return newStore(path, db, info), nil
}

// boundFile returns the file a freshly pinged connection to path is bound to.
// before is the file seen at path before connecting (nil if there was none).
// If path now names a different file, the connection may hold either one, so
// the open fails with ErrDeleted.
func boundFile(path string, before fs.FileInfo) (fs.FileInfo, error) {
	after, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", path, ErrDeleted)
		}
		return nil, storageErr("open "+path, err)
	}
	if before != nil && !os.SameFile(before, after) {
		return nil, fmt.Errorf("open %s: replaced while opening: %w", path, ErrDeleted)
	}
	return after, nil
}

func connect(ctx context.Context, path, mode string) (*sql.DB, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, storageErr("resolve "+path, err)
	}

	u := url.URL{Path: filepath.ToSlash(absPath)}
	dsn := fmt.Sprintf("file:%s?mode=%s&_pragma=busy_timeout(5000)", u.EscapedPath(), mode)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, storageErr("open "+path, err)
	}
	db.SetMaxOpenConns(maxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, storageErr("connect "+path, err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to initialise migrate driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrations.Files, ".")
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}
	defer func() {
		_ = sourceDriver.Close()
	}()

	// The migrator is not closed: that would close db as well.
	migrator, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

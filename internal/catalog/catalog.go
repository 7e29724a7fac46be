// Package catalog manages the projects stored under a root directory and
// caches one open store per project.
//
// Each project is a single SQLite file named after the project. The catalog is
// the only component that creates, removes or enumerates those files; entry
// data is accessed through the *store.Store handles it returns.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/choplin/projectdb/internal/model"
	"github.com/choplin/projectdb/internal/store"
)

// ErrClosed is returned by a Catalog after Close.
var ErrClosed = fmt.Errorf("catalog: closed: %w", model.ErrStorage)

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger used by the catalog. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// WithRegisterer registers the catalog metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Catalog) {
		c.reg = reg
	}
}

// Catalog resolves project names to store handles.
//
// Handles are opened on first use and kept until the project is deleted or
// the catalog is closed. Every method is safe for concurrent use; the cache
// lock is never held while a project file is being opened or created, so a
// slow open does not delay other projects.
type Catalog struct {
	root    string
	logger  *slog.Logger
	reg     prometheus.Registerer
	metrics *Metrics

	mu     sync.RWMutex
	cache  map[string]*store.Store
	closed bool
}

// New returns a catalog over the project files in root. The directory is not
// created.
func New(root string, opts ...Option) *Catalog {
	c := &Catalog{
		root:   root,
		logger: slog.Default(),
		cache:  make(map[string]*store.Store),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.metrics = newMetrics(c.reg)
	return c
}

// Root returns the directory holding the project files.
func (c *Catalog) Root() string {
	return c.root
}

// Metrics returns the collectors updated by the catalog.
func (c *Catalog) Metrics() *Metrics {
	return c.metrics
}

// CreateProject creates the project file and its schema and returns a handle
// on it. It fails with model.ErrAlreadyExists if the file is already present.
// The returned handle should be closed by the caller.
func (c *Catalog) CreateProject(ctx context.Context, name string) (*store.Store, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	if c.isClosed() {
		return nil, ErrClosed
	}

	path := c.projectPath(name)
	if err := createExclusive(path); err != nil {
		return nil, fmt.Errorf("create project %q: %w", name, err)
	}

	start := time.Now()
	s, err := store.Create(ctx, path)
	c.metrics.OpenDuration.WithLabelValues("create").Observe(time.Since(start).Seconds())
	if err != nil {
		// ErrDeleted means the path no longer names the file created above.
		if !errors.Is(err, store.ErrDeleted) {
			c.removePartial(name, path)
		}
		return nil, fmt.Errorf("create project %q: %w", name, err)
	}

	st, err := c.insert(name, s, true)
	if err != nil {
		// Closed meanwhile: the file is ours and nobody will ever get a handle on it.
		if errors.Is(err, ErrClosed) {
			c.removePartial(name, path)
		}
		return nil, fmt.Errorf("create project %q: %w", name, err)
	}

	c.logger.Debug("project created", "project", name, "path", path)
	return st, nil
}

func (c *Catalog) removePartial(name, path string) {
	if err := os.Remove(path); err != nil {
		c.logger.Warn("failed to remove partially created project", "project", name, "error", err)
	}
}

// DeleteProject removes the project file. It fails with model.ErrNotFound if
// the project does not exist.
//
// The cached handle is dropped and invalidated: every handle previously
// returned for the project fails with store.ErrDeleted afterwards.
func (c *Catalog) DeleteProject(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}

	// The removal and the eviction happen under one write lock: evicting
	// after unlocking could drop a handle a concurrent CreateProject has just
	// cached for the new file.
	c.mu.Lock()
	defer c.mu.Unlock()

	err := removeFile(c.projectPath(name))
	if err == nil || errors.Is(err, model.ErrNotFound) {
		c.evictLocked(name)
	}
	if err != nil {
		return fmt.Errorf("delete project %q: %w", name, err)
	}

	c.logger.Debug("project deleted", "project", name)
	return nil
}

// Projects returns the names of all projects, sorted. It fails with
// model.ErrInvalidName if any project file name is not valid UTF-8.
func (c *Catalog) Projects(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return listProjects(c.root)
}

// Project returns a handle on an existing project, opening the project file
// on first use. The returned handle should be closed by the caller.
func (c *Catalog) Project(ctx context.Context, name string) (*store.Store, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	s, ok, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	if ok {
		c.metrics.CacheHitsTotal.Inc()
		return s, nil
	}
	c.metrics.CacheMissesTotal.Inc()

	start := time.Now()
	opened, err := store.Open(ctx, c.projectPath(name))
	c.metrics.OpenDuration.WithLabelValues("open").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", name, err)
	}

	c.logger.Debug("project opened", "project", name)
	return c.insert(name, opened, false)
}

// Close shuts down every cached handle. Handles obtained from the catalog
// fail with store.ErrClosed afterwards.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	for name, s := range c.cache {
		if err := s.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("close project %q: %w", name, err))
		}
		delete(c.cache, name)
	}
	c.metrics.OpenProjects.Set(0)
	return errors.Join(errs...)
}

func (c *Catalog) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Catalog) lookup(name string) (*store.Store, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, false, ErrClosed
	}
	s, ok := c.cache[name]
	if !ok {
		return nil, false, nil
	}
	return s.Clone(), true, nil
}

// insert caches s as the canonical handle of name and returns a clone.
//
// When another handle was cached meanwhile, the existing one wins unless
// replace is set. The file identity is re-checked under the lock so a handle
// is never cached after a concurrent DeleteProject removed its file, even if
// another CreateProject has put a new file in its place.
func (c *Catalog) insert(name string, s *store.Store, replace bool) (*store.Store, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		_ = s.Shutdown()
		return nil, ErrClosed
	}

	if existing, ok := c.cache[name]; ok {
		if !replace {
			_ = s.Close()
			return existing.Clone(), nil
		}
		c.evictLocked(name)
	}

	if !s.IsCurrent() {
		_ = s.Invalidate()
		return nil, fmt.Errorf("project %q: %w", name, store.ErrDeleted)
	}

	c.cache[name] = s
	c.metrics.OpenProjects.Set(float64(len(c.cache)))
	return s.Clone(), nil
}

// evictLocked drops and invalidates the cached handle of name. c.mu must be
// held for writing.
func (c *Catalog) evictLocked(name string) bool {
	s, ok := c.cache[name]
	if !ok {
		return false
	}
	delete(c.cache, name)
	c.metrics.OpenProjects.Set(float64(len(c.cache)))

	if err := s.Invalidate(); err != nil {
		c.logger.Warn("failed to close project handle", "project", name, "error", err)
	}
	return true
}

func (c *Catalog) projectPath(name string) string {
	return filepath.Join(c.root, name+projectSuffix)
}

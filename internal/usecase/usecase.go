// Package usecase implements the query and mutation surface shared by the CLI
// and the MCP server.
//
// It mirrors a GraphQL-shaped schema: queries return data, mutations report
// success. Every call resolves the project through the catalog and releases
// the handle before returning.
package usecase

import (
	"context"
	"errors"

	"github.com/choplin/projectdb/internal/catalog"
	"github.com/choplin/projectdb/internal/model"
	"github.com/choplin/projectdb/internal/store"
)

// Service answers project and entry queries against a catalog.
type Service struct {
	catalog *catalog.Catalog
}

// New returns a Service backed by c. The catalog stays owned by the caller.
func New(c *catalog.Catalog) *Service {
	return &Service{catalog: c}
}

// Projects lists all project names.
func (s *Service) Projects(ctx context.Context) ([]string, error) {
	return s.catalog.Projects(ctx)
}

// CreateProject creates a new, empty project.
func (s *Service) CreateProject(ctx context.Context, name string) (bool, error) {
	st, err := s.catalog.CreateProject(ctx, name)
	if err != nil {
		return false, err
	}
	return true, st.Close()
}

// DeleteProject removes a project and all of its entries.
func (s *Service) DeleteProject(ctx context.Context, name string) (bool, error) {
	if err := s.catalog.DeleteProject(ctx, name); err != nil {
		return false, err
	}
	return true, nil
}

// Entries lists the entries of a project.
func (s *Service) Entries(ctx context.Context, project string) ([]model.Entry, error) {
	var entries []model.Entry
	err := s.withProject(ctx, project, func(st *store.Store) error {
		var err error
		entries, err = st.Entries(ctx)
		return err
	})
	return entries, err
}

// Entry returns a single entry, or nil when the project has no such entry.
// A missing project is still an error.
func (s *Service) Entry(ctx context.Context, project string, id uint32) (*model.Entry, error) {
	var entry *model.Entry
	err := s.withProject(ctx, project, func(st *store.Store) error {
		e, err := st.Entry(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) && !errors.Is(err, store.ErrDeleted) {
				return nil
			}
			return err
		}
		entry = &e
		return nil
	})
	return entry, err
}

// CreateEntry adds an entry to a project and returns its id.
func (s *Service) CreateEntry(ctx context.Context, project string, e model.CreateEntry) (uint32, error) {
	var id uint32
	err := s.withProject(ctx, project, func(st *store.Store) error {
		var err error
		id, err = st.CreateEntry(ctx, e)
		return err
	})
	return id, err
}

// DeleteEntry removes an entry. Deleting a missing entry succeeds.
func (s *Service) DeleteEntry(ctx context.Context, project string, id uint32) (bool, error) {
	err := s.withProject(ctx, project, func(st *store.Store) error {
		return st.DeleteEntry(ctx, id)
	})
	return err == nil, err
}

func (s *Service) withProject(ctx context.Context, project string, fn func(*store.Store) error) (err error) {
	st, err := s.catalog.Project(ctx, project)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, st.Close())
	}()
	return fn(st)
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/choplin/projectdb/internal/model"
)

// CreateEntry inserts a new entry and returns the id assigned to it.
func (s *Store) CreateEntry(ctx context.Context, e model.CreateEntry) (uint32, error) {
	q, err := s.queries()
	if err != nil {
		return 0, err
	}

	res, err := q.InsertEntry(ctx, entryInsertParams(e))
	if err != nil {
		return 0, s.queryErr("create entry", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, s.queryErr("create entry", err)
	}
	return toEntryID(id)
}

// DeleteEntry removes the entry with the given id. Deleting an id that does
// not exist is not an error.
func (s *Store) DeleteEntry(ctx context.Context, id uint32) error {
	q, err := s.queries()
	if err != nil {
		return err
	}

	if _, err := q.DeleteEntryByID(ctx, int64(id)); err != nil {
		return s.queryErr(fmt.Sprintf("delete entry %d", id), err)
	}
	return nil
}

// Entries returns every entry ordered by id.
func (s *Store) Entries(ctx context.Context) ([]model.Entry, error) {
	q, err := s.queries()
	if err != nil {
		return nil, err
	}

	rows, err := q.ListEntries(ctx)
	if err != nil {
		return nil, s.queryErr("list entries", err)
	}

	result := make([]model.Entry, 0, len(rows))
	for _, row := range rows {
		e, err := entryFromRow(row)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, nil
}

// Entry returns the entry with the given id, or model.ErrNotFound.
func (s *Store) Entry(ctx context.Context, id uint32) (model.Entry, error) {
	q, err := s.queries()
	if err != nil {
		return model.Entry{}, err
	}

	row, err := q.FindEntryByID(ctx, int64(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Entry{}, fmt.Errorf("entry %d: %w", id, model.ErrNotFound)
		}
		return model.Entry{}, s.queryErr(fmt.Sprintf("get entry %d", id), err)
	}
	return entryFromRow(row)
}

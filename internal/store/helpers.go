package store

import (
	"fmt"
	"math"

	"github.com/choplin/projectdb/internal/model"
	sqldb "github.com/choplin/projectdb/internal/store/sqlc"
)

func boolToInt64(value bool) int64 {
	if value {
		return 1
	}
	return 0
}

func toEntryID(id int64) (uint32, error) {
	if id < 1 || id > math.MaxUint32 {
		return 0, fmt.Errorf("entry id %d out of range: %w", id, model.ErrStorage)
	}
	return uint32(id), nil
}

// entryFromRow decodes a row of the entries table.
func entryFromRow(row sqldb.Entry) (model.Entry, error) {
	id, err := toEntryID(row.ID)
	if err != nil {
		return model.Entry{}, err
	}
	return model.Entry{
		ID:        id,
		Title:     row.Title,
		Body:      row.Body,
		Published: row.Published != 0,
	}, nil
}

func entryInsertParams(e model.CreateEntry) sqldb.InsertEntryParams {
	return sqldb.InsertEntryParams{
		Title:     e.Title,
		Body:      e.Body,
		Published: boolToInt64(e.Published),
	}
}

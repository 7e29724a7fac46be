package sqldb

import (
	"context"
	"database/sql"
)

// Entry mirrors a row of the entries table. Published is stored as 0 or 1.
type Entry struct {
	ID        int64
	Title     string
	Body      string
	Published int64
}

type InsertEntryParams struct {
	Title     string
	Body      string
	Published int64
}

const insertEntry = `INSERT INTO entries (title, body, published) VALUES (?, ?, ?)`

func (q *Queries) InsertEntry(ctx context.Context, arg InsertEntryParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, insertEntry, arg.Title, arg.Body, arg.Published)
}

const deleteEntryByID = `DELETE FROM entries WHERE id = ?`

func (q *Queries) DeleteEntryByID(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteEntryByID, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const findEntryByID = `SELECT id, title, body, published FROM entries WHERE id = ?`

func (q *Queries) FindEntryByID(ctx context.Context, id int64) (Entry, error) {
	row := q.db.QueryRowContext(ctx, findEntryByID, id)
	var e Entry
	err := row.Scan(&e.ID, &e.Title, &e.Body, &e.Published)
	return e, err
}

const listEntries = `SELECT id, title, body, published FROM entries ORDER BY id`

func (q *Queries) ListEntries(ctx context.Context) ([]Entry, error) {
	rows, err := q.db.QueryContext(ctx, listEntries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Title, &e.Body, &e.Published); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const tableExists = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`

func (q *Queries) TableExists(ctx context.Context, name string) (bool, error) {
	var n int64
	if err := q.db.QueryRowContext(ctx, tableExists, name).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

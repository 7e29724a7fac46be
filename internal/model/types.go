// Package model provides the data types and error kinds shared by the
// storage layers of projectdb.
package model

// Entry is a persisted record of a project. ID is assigned by the store and
// never changes afterwards.
type Entry struct {
	ID        uint32 `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
}

// CreateEntry is the only input accepted when creating an entry. It carries
// no ID so callers cannot choose one.
type CreateEntry struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
}

package blogs

import (
	"time"

	"github.com/google/uuid"
)

type State string

const (
	Draft     State = "draft"
	Published State = "published"
)

func (s State) Valid() bool {
	return s == Draft || s == Published
}

// Author is the display slice of a user attached to blog responses.
type Author struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type Blog struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	Tags        []string  `json:"tags"`
	AuthorID    uuid.UUID `json:"authorId"`
	Author      *Author   `json:"author,omitempty"`
	State       State     `json:"state"`
	ReadCount   int64     `json:"readCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OwnedBy reports whether userID is the blog's author. Author is set at
// creation and never changes, so this is the whole authorization check for
// update and delete.
func (b *Blog) OwnedBy(userID uuid.UUID) bool {
	return b.AuthorID == userID
}

// Input carries the five caller-mutable fields. Everything else (author,
// read count, timestamps) is owned by the service.
type Input struct {
	Title       string
	Description string
	Tags        []string
	Body        string
	State       State
}

type SortField string

const (
	SortCreatedAt SortField = "created_at"
	SortUpdatedAt SortField = "updated_at"
	SortTitle     SortField = "title"
	SortReadCount SortField = "read_count"
)

// SortFieldFromQuery maps a caller-supplied sortBy value onto the whitelist
// of sortable columns. An empty value means the default (creation time).
// Unknown values are rejected rather than passed through to the query.
func SortFieldFromQuery(s string) (SortField, bool) {
	switch s {
	case "", "createdAt", "timestamp":
		return SortCreatedAt, true
	case "updatedAt":
		return SortUpdatedAt, true
	case "title":
		return SortTitle, true
	case "readCount":
		return SortReadCount, true
	}
	return "", false
}

// Filter is the optional predicate set for the public listing. All supplied
// filters apply together; the published-only constraint is not part of the
// filter and cannot be overridden by one.
type Filter struct {
	ID       *uuid.UUID
	AuthorID *uuid.UUID
	Title    string
	Tags     []string
	SortBy   SortField
	SortDesc bool
}

type ListParams struct {
	Filter
	Limit  int
	Offset int
}

type ListResult struct {
	Blogs      []*Blog `json:"data"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	TotalPages int     `json:"total_pages"`
}

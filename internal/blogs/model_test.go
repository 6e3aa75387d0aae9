package blogs

import (
	"testing"

	"github.com/google/uuid"
)

func TestBlog_OwnedBy(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	b := &Blog{AuthorID: owner}

	if !b.OwnedBy(owner) {
		t.Error("author should own the blog")
	}
	if b.OwnedBy(other) {
		t.Error("non-author should not own the blog")
	}
}

func TestSortFieldFromQuery(t *testing.T) {
	tests := []struct {
		in   string
		want SortField
		ok   bool
	}{
		{"", SortCreatedAt, true},
		{"createdAt", SortCreatedAt, true},
		{"timestamp", SortCreatedAt, true},
		{"updatedAt", SortUpdatedAt, true},
		{"title", SortTitle, true},
		{"readCount", SortReadCount, true},
		{"read_count; DROP TABLE blogs", "", false},
		{"author", "", false},
		{"body", "", false},
	}
	for _, tt := range tests {
		t.Run("sortBy="+tt.in, func(t *testing.T) {
			got, ok := SortFieldFromQuery(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("SortFieldFromQuery(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestState_Valid(t *testing.T) {
	for _, s := range []State{Draft, Published} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []State{"", "archived", "DRAFT"} {
		if s.Valid() {
			t.Errorf("%q should not be valid", s)
		}
	}
}

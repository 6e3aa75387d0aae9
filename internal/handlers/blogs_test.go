package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blogapi/internal/blogs"
	"blogapi/internal/events"
	"blogapi/internal/middleware"

	"github.com/google/uuid"
)

type testMockRepo struct {
	create       func(ctx context.Context, b *blogs.Blog) (*blogs.Blog, error)
	getByID      func(ctx context.Context, id uuid.UUID) (*blogs.Blog, error)
	increment    func(ctx context.Context, id uuid.UUID) (*blogs.Blog, error)
	list         func(ctx context.Context, params blogs.ListParams) ([]*blogs.Blog, error)
	count        func(ctx context.Context, params blogs.ListParams) (int64, error)
	listByAuthor func(ctx context.Context, authorID uuid.UUID) ([]*blogs.Blog, error)
	update       func(ctx context.Context, b *blogs.Blog) (*blogs.Blog, error)
	delete       func(ctx context.Context, id uuid.UUID) error
}

func (m *testMockRepo) Create(ctx context.Context, b *blogs.Blog) (*blogs.Blog, error) {
	if m.create != nil {
		return m.create(ctx, b)
	}
	return b, nil
}

func (m *testMockRepo) GetByID(ctx context.Context, id uuid.UUID) (*blogs.Blog, error) {
	if m.getByID != nil {
		return m.getByID(ctx, id)
	}
	return nil, blogs.ErrNotFound
}

func (m *testMockRepo) IncrementReadCount(ctx context.Context, id uuid.UUID) (*blogs.Blog, error) {
	if m.increment != nil {
		return m.increment(ctx, id)
	}
	return nil, blogs.ErrNotFound
}

func (m *testMockRepo) List(ctx context.Context, params blogs.ListParams) ([]*blogs.Blog, error) {
	if m.list != nil {
		return m.list(ctx, params)
	}
	return nil, nil
}

func (m *testMockRepo) Count(ctx context.Context, params blogs.ListParams) (int64, error) {
	if m.count != nil {
		return m.count(ctx, params)
	}
	return 0, nil
}

func (m *testMockRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*blogs.Blog, error) {
	if m.listByAuthor != nil {
		return m.listByAuthor(ctx, authorID)
	}
	return nil, nil
}

func (m *testMockRepo) Update(ctx context.Context, b *blogs.Blog) (*blogs.Blog, error) {
	if m.update != nil {
		return m.update(ctx, b)
	}
	return b, nil
}

func (m *testMockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.delete != nil {
		return m.delete(ctx, id)
	}
	return nil
}

type testMockStorage struct{}

func (testMockStorage) Upload(context.Context, string, io.Reader, string) error { return nil }
func (testMockStorage) Exists(context.Context, string) (bool, error)            { return false, nil }

type testMockPublisher struct{}

func (testMockPublisher) PublishBlogPublished(context.Context, events.BlogPublished) error {
	return nil
}

func testBlogsHandler(repo *testMockRepo) *BlogsHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := blogs.NewService(repo, testMockStorage{}, testMockPublisher{}, "b", "r", "", logger)
	return NewBlogsHandler(svc, logger)
}

// asUser fakes what middleware.RequireAuth does after verifying a token.
func asUser(id uuid.UUID, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h(w, r.WithContext(middleware.WithUserID(r.Context(), id)))
	})
}

func testBlogsMux(h *BlogsHandler, userID uuid.UUID) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /blogs", h.List())
	mux.Handle("GET /blogs/user", asUser(userID, h.ListMine()))
	mux.HandleFunc("GET /blogs/{id}", h.Get())
	mux.Handle("POST /blogs", asUser(userID, h.Create()))
	mux.Handle("PATCH /blogs/{id}", asUser(userID, h.Update()))
	mux.Handle("DELETE /blogs/{id}", asUser(userID, h.Delete()))
	return mux
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	return body
}

func TestBlogsHandler_List(t *testing.T) {
	caller := uuid.New()

	t.Run("query parameters reach the filter", func(t *testing.T) {
		var got blogs.ListParams
		repo := &testMockRepo{
			list: func(_ context.Context, p blogs.ListParams) ([]*blogs.Blog, error) {
				got = p
				return []*blogs.Blog{{ID: uuid.New(), State: blogs.Published}}, nil
			},
			count: func(context.Context, blogs.ListParams) (int64, error) { return 1, nil },
		}
		mux := testBlogsMux(testBlogsHandler(repo), caller)

		author := uuid.New()
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			"/blogs?author="+author.String()+"&title=hello&tags=go,%20web,&sortBy=readCount&sortOrder=desc&page=2&limit=10", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
		}
		if got.AuthorID == nil || *got.AuthorID != author {
			t.Errorf("author filter not set: %+v", got.Filter)
		}
		if got.Title != "hello" {
			t.Errorf("title filter %q", got.Title)
		}
		if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "web" {
			t.Errorf("tags filter %v", got.Tags)
		}
		if got.SortBy != blogs.SortReadCount || !got.SortDesc {
			t.Errorf("sort %q desc=%v", got.SortBy, got.SortDesc)
		}
		if got.Limit != 10 || got.Offset != 10 {
			t.Errorf("window limit=%d offset=%d", got.Limit, got.Offset)
		}
	})

	t.Run("default sort is newest first", func(t *testing.T) {
		repo := &testMockRepo{
			list: func(_ context.Context, p blogs.ListParams) ([]*blogs.Blog, error) {
				if p.SortBy != blogs.SortCreatedAt || !p.SortDesc {
					t.Errorf("sort %q desc=%v", p.SortBy, p.SortDesc)
				}
				return nil, nil
			},
		}
		mux := testBlogsMux(testBlogsHandler(repo), caller)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blogs", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d", rec.Code)
		}
	})

	t.Run("explicit sort defaults to ascending", func(t *testing.T) {
		repo := &testMockRepo{
			list: func(_ context.Context, p blogs.ListParams) ([]*blogs.Blog, error) {
				if p.SortBy != blogs.SortTitle || p.SortDesc {
					t.Errorf("sort %q desc=%v", p.SortBy, p.SortDesc)
				}
				return nil, nil
			},
		}
		mux := testBlogsMux(testBlogsHandler(repo), caller)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blogs?sortBy=title", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d", rec.Code)
		}
	})

	t.Run("unknown sort field rejected", func(t *testing.T) {
		mux := testBlogsMux(testBlogsHandler(&testMockRepo{}), caller)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blogs?sortBy=password_hash", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400", rec.Code)
		}
	})

	t.Run("malformed author id rejected", func(t *testing.T) {
		mux := testBlogsMux(testBlogsHandler(&testMockRepo{}), caller)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blogs?author=not-a-uuid", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400", rec.Code)
		}
	})
}

func TestBlogsHandler_Get(t *testing.T) {
	caller := uuid.New()

	t.Run("returns blog with reading time", func(t *testing.T) {
		id := uuid.New()
		repo := &testMockRepo{
			increment: func(context.Context, uuid.UUID) (*blogs.Blog, error) {
				return &blogs.Blog{
					ID:        id,
					Body:      strings.TrimSpace(strings.Repeat("word ", 400)),
					ReadCount: 1,
					Author:    &blogs.Author{FirstName: "Ada", LastName: "Lovelace"},
				}, nil
			},
		}
		mux := testBlogsMux(testBlogsHandler(repo), caller)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blogs/"+id.String(), nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
		}
		body := decodeBody(t, rec)
		if body["readingTimeMinutes"] != float64(2) {
			t.Errorf("readingTimeMinutes = %v, want 2", body["readingTimeMinutes"])
		}
		blog, ok := body["blog"].(map[string]any)
		if !ok {
			t.Fatalf("missing blog in %v", body)
		}
		if blog["readCount"] != float64(1) {
			t.Errorf("readCount = %v, want 1", blog["readCount"])
		}
		author, ok := blog["author"].(map[string]any)
		if !ok || author["firstName"] != "Ada" || author["lastName"] != "Lovelace" {
			t.Errorf("author = %v", blog["author"])
		}
	})

	t.Run("not found", func(t *testing.T) {
		mux := testBlogsMux(testBlogsHandler(&testMockRepo{}), caller)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blogs/"+uuid.NewString(), nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status %d, want 404", rec.Code)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		mux := testBlogsMux(testBlogsHandler(&testMockRepo{}), caller)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blogs/not-a-uuid", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400", rec.Code)
		}
	})
}

func TestBlogsHandler_Create(t *testing.T) {
	caller := uuid.New()

	t.Run("author always comes from the token", func(t *testing.T) {
		repo := &testMockRepo{
			create: func(_ context.Context, b *blogs.Blog) (*blogs.Blog, error) {
				if b.AuthorID != caller {
					t.Errorf("AuthorID = %s, want caller %s", b.AuthorID, caller)
				}
				b.ID = uuid.New()
				return b, nil
			},
		}
		mux := testBlogsMux(testBlogsHandler(repo), caller)

		// The body tries to smuggle a different author; the field is not modeled.
		payload := `{"title":"T","description":"D","tags":["go"],"body":"text","state":"draft","author":"` + uuid.NewString() + `"}`
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/blogs", bytes.NewBufferString(payload)))

		if rec.Code != http.StatusCreated {
			t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
		}
		body := decodeBody(t, rec)
		if body["message"] != "Blog created successfully" {
			t.Errorf("message = %v", body["message"])
		}
		blog := body["blog"].(map[string]any)
		if blog["authorId"] != caller.String() {
			t.Errorf("authorId = %v, want %s", blog["authorId"], caller)
		}
		if blog["readCount"] != float64(0) {
			t.Errorf("readCount = %v, want 0", blog["readCount"])
		}
	})

	t.Run("missing state defaults to draft", func(t *testing.T) {
		repo := &testMockRepo{
			create: func(_ context.Context, b *blogs.Blog) (*blogs.Blog, error) {
				if b.State != blogs.Draft {
					t.Errorf("State = %q, want draft", b.State)
				}
				return b, nil
			},
		}
		mux := testBlogsMux(testBlogsHandler(repo), caller)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/blogs", bytes.NewBufferString(`{"title":"T"}`)))
		if rec.Code != http.StatusCreated {
			t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("unknown state rejected", func(t *testing.T) {
		mux := testBlogsMux(testBlogsHandler(&testMockRepo{}), caller)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/blogs", bytes.NewBufferString(`{"state":"archived"}`)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400", rec.Code)
		}
	})

	t.Run("invalid JSON rejected", func(t *testing.T) {
		mux := testBlogsMux(testBlogsHandler(&testMockRepo{}), caller)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/blogs", bytes.NewBufferString("{not json")))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400", rec.Code)
		}
	})
}

func TestBlogsHandler_Update(t *testing.T) {
	owner := uuid.New()
	blogID := uuid.New()
	stored := func() *blogs.Blog {
		return &blogs.Blog{ID: blogID, Title: "Old", AuthorID: owner, State: blogs.Draft}
	}

	t.Run("author can update", func(t *testing.T) {
		repo := &testMockRepo{
			getByID: func(context.Context, uuid.UUID) (*blogs.Blog, error) { return stored(), nil },
		}
		mux := testBlogsMux(testBlogsHandler(repo), owner)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/blogs/"+blogID.String(),
			bytes.NewBufferString(`{"title":"New","state":"published"}`)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
		}
		body := decodeBody(t, rec)
		blog := body["blog"].(map[string]any)
		if blog["title"] != "New" || blog["state"] != "published" {
			t.Errorf("blog = %v", blog)
		}
	})

	t.Run("non-author gets forbidden", func(t *testing.T) {
		repo := &testMockRepo{
			getByID: func(context.Context, uuid.UUID) (*blogs.Blog, error) { return stored(), nil },
		}
		mux := testBlogsMux(testBlogsHandler(repo), uuid.New())
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/blogs/"+blogID.String(),
			bytes.NewBufferString(`{"title":"Hijack","state":"draft"}`)))
		if rec.Code != http.StatusForbidden {
			t.Errorf("status %d, want 403", rec.Code)
		}
	})

	t.Run("missing blog", func(t *testing.T) {
		mux := testBlogsMux(testBlogsHandler(&testMockRepo{}), owner)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/blogs/"+uuid.NewString(),
			bytes.NewBufferString(`{"title":"X","state":"draft"}`)))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status %d, want 404", rec.Code)
		}
	})
}

func TestBlogsHandler_Delete(t *testing.T) {
	owner := uuid.New()
	blogID := uuid.New()

	t.Run("author can delete", func(t *testing.T) {
		repo := &testMockRepo{
			getByID: func(context.Context, uuid.UUID) (*blogs.Blog, error) {
				return &blogs.Blog{ID: blogID, AuthorID: owner}, nil
			},
		}
		mux := testBlogsMux(testBlogsHandler(repo), owner)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/blogs/"+blogID.String(), nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
		}
		if decodeBody(t, rec)["message"] != "Blog deleted successfully" {
			t.Errorf("body = %s", rec.Body.String())
		}
	})

	t.Run("non-author gets forbidden", func(t *testing.T) {
		repo := &testMockRepo{
			getByID: func(context.Context, uuid.UUID) (*blogs.Blog, error) {
				return &blogs.Blog{ID: blogID, AuthorID: owner}, nil
			},
		}
		mux := testBlogsMux(testBlogsHandler(repo), uuid.New())
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/blogs/"+blogID.String(), nil))
		if rec.Code != http.StatusForbidden {
			t.Errorf("status %d, want 403", rec.Code)
		}
	})

	t.Run("missing blog", func(t *testing.T) {
		mux := testBlogsMux(testBlogsHandler(&testMockRepo{}), owner)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/blogs/"+uuid.NewString(), nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status %d, want 404", rec.Code)
		}
	})
}

func TestBlogsHandler_ListMine(t *testing.T) {
	caller := uuid.New()
	repo := &testMockRepo{
		listByAuthor: func(_ context.Context, id uuid.UUID) ([]*blogs.Blog, error) {
			if id != caller {
				t.Errorf("author id = %s, want %s", id, caller)
			}
			return []*blogs.Blog{
				{ID: uuid.New(), State: blogs.Draft},
				{ID: uuid.New(), State: blogs.Published},
			}, nil
		},
	}
	mux := testBlogsMux(testBlogsHandler(repo), caller)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blogs/user", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("got %d blogs, want 2 (drafts included)", len(list))
	}
}

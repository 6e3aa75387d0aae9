package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"blogapi/internal/blogs"
	"blogapi/internal/middleware"

	"github.com/google/uuid"
)

type BlogsHandler struct {
	svc    *blogs.Service
	logger *slog.Logger
}

func NewBlogsHandler(svc *blogs.Service, logger *slog.Logger) *BlogsHandler {
	return &BlogsHandler{
		svc:    svc,
		logger: logger,
	}
}

// BlogRequest is the create/update body. An author field supplied by the
// caller is simply not modeled: authorship always comes from the token.
type BlogRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Body        string   `json:"body"`
	State       string   `json:"state"`
}

func stateFromRequest(s string) (blogs.State, bool) {
	if s == "" {
		return blogs.Draft, true
	}
	state := blogs.State(s)
	return state, state.Valid()
}

func (h *BlogsHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var filter blogs.Filter
		if v := q.Get("id"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				writeValidationError(w, map[string]string{"id": "must be a valid id"})
				return
			}
			filter.ID = &id
		}
		if v := q.Get("author"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				writeValidationError(w, map[string]string{"author": "must be a valid id"})
				return
			}
			filter.AuthorID = &id
		}
		filter.Title = q.Get("title")
		if v := q.Get("tags"); v != "" {
			for _, tag := range strings.Split(v, ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					filter.Tags = append(filter.Tags, tag)
				}
			}
		}

		sortBy := q.Get("sortBy")
		field, ok := blogs.SortFieldFromQuery(sortBy)
		if !ok {
			writeValidationError(w, map[string]string{"sortBy": "must be one of createdAt, updatedAt, title, readCount"})
			return
		}
		filter.SortBy = field
		if sortBy == "" {
			// No explicit sort: newest first.
			filter.SortDesc = true
		} else {
			filter.SortDesc = q.Get("sortOrder") == "desc"
		}

		page, _ := strconv.Atoi(q.Get("page"))
		limit, _ := strconv.Atoi(q.Get("limit"))

		result, err := h.svc.ListBlogs(r.Context(), filter, page, limit)
		if err != nil {
			h.logger.Error("list blogs failed", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func (h *BlogsHandler) ListMine() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
			return
		}

		list, err := h.svc.ListByAuthor(r.Context(), userID)
		if err != nil {
			h.logger.Error("list own blogs failed", "user_id", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
			return
		}

		writeJSON(w, http.StatusOK, list)
	}
}

func (h *BlogsHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid blog id", nil)
			return
		}

		blog, readingTime, err := h.svc.GetBlog(r.Context(), id)
		if err != nil {
			if errors.Is(err, blogs.ErrNotFound) {
				writeError(w, http.StatusNotFound, "NOT_FOUND", "blog not found", nil)
				return
			}
			h.logger.Error("get blog failed", "blog_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"blog":               blog,
			"readingTimeMinutes": readingTime,
		})
	}
}

func (h *BlogsHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
			return
		}

		var req BlogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
			return
		}
		state, ok := stateFromRequest(req.State)
		if !ok {
			writeValidationError(w, map[string]string{"state": "must be draft or published"})
			return
		}

		created, err := h.svc.CreateBlog(r.Context(), userID, blogs.Input{
			Title:       req.Title,
			Description: req.Description,
			Tags:        req.Tags,
			Body:        req.Body,
			State:       state,
		})
		if err != nil {
			h.logger.Error("create blog failed", "user_id", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "Blog created successfully",
			"blog":    created,
		})
	}
}

func (h *BlogsHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
			return
		}

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid blog id", nil)
			return
		}

		var req BlogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
			return
		}
		state, ok := stateFromRequest(req.State)
		if !ok {
			writeValidationError(w, map[string]string{"state": "must be draft or published"})
			return
		}

		updated, err := h.svc.UpdateBlog(r.Context(), id, userID, blogs.Input{
			Title:       req.Title,
			Description: req.Description,
			Tags:        req.Tags,
			Body:        req.Body,
			State:       state,
		})
		if err != nil {
			switch {
			case errors.Is(err, blogs.ErrNotFound):
				writeError(w, http.StatusNotFound, "NOT_FOUND", "blog not found", nil)
			case errors.Is(err, blogs.ErrForbidden):
				writeError(w, http.StatusForbidden, "FORBIDDEN", "you are not authorized to edit this blog", nil)
			default:
				h.logger.Error("update blog failed", "blog_id", id, "error", err)
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Blog updated successfully",
			"blog":    updated,
		})
	}
}

func (h *BlogsHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
			return
		}

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid blog id", nil)
			return
		}

		if err := h.svc.DeleteBlog(r.Context(), id, userID); err != nil {
			switch {
			case errors.Is(err, blogs.ErrNotFound):
				writeError(w, http.StatusNotFound, "NOT_FOUND", "blog not found", nil)
			case errors.Is(err, blogs.ErrForbidden):
				writeError(w, http.StatusForbidden, "FORBIDDEN", "you are not authorized to delete this blog", nil)
			default:
				h.logger.Error("delete blog failed", "blog_id", id, "error", err)
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Blog deleted successfully",
		})
	}
}

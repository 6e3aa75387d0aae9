package blogs

import (
	"context"
	"fmt"
	"log/slog"

	"blogapi/internal/events"
	"blogapi/internal/storage"

	"github.com/google/uuid"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

type Service struct {
	repo      Repository
	store     storage.Storage
	publisher events.Publisher
	bucket    string
	region    string
	cdnBase   string
	logger    *slog.Logger
}

func NewService(repo Repository, store storage.Storage, publisher events.Publisher, bucket, region, cdnBase string, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		store:     store,
		publisher: publisher,
		bucket:    bucket,
		region:    region,
		cdnBase:   cdnBase,
		logger:    logger,
	}
}

// CreateBlog persists a new post for authorID. The author is always the
// authenticated caller; read count starts at zero. Inline data-URL images in
// the body are offloaded to object storage first.
func (s *Service) CreateBlog(ctx context.Context, authorID uuid.UUID, in Input) (*Blog, error) {
	created, err := s.repo.Create(ctx, &Blog{
		Title:       in.Title,
		Description: in.Description,
		Body:        s.offloadInlineImages(ctx, in.Body),
		Tags:        in.Tags,
		AuthorID:    authorID,
		State:       in.State,
	})
	if err != nil {
		return nil, err
	}

	if created.State == Published {
		s.announcePublished(ctx, created)
	}
	return created, nil
}

// GetBlog returns the post for id along with its estimated reading time.
// Fetching is itself the observable read: the stored read count is bumped by
// exactly one and the returned record reflects the new value. Drafts are
// reachable here; only the listing hides them.
func (s *Service) GetBlog(ctx context.Context, id uuid.UUID) (*Blog, int, error) {
	b, err := s.repo.IncrementReadCount(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return b, EstimateReadingTime(b.Body), nil
}

// ListBlogs runs the public listing: published posts matching filter, sorted
// and windowed. Page and perPage normalize to 1 and 20; perPage is capped at
// 100.
func (s *Service) ListBlogs(ctx context.Context, filter Filter, page, perPage int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	params := ListParams{
		Filter: filter,
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	}

	list, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, params)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / perPage
	if int(total)%perPage > 0 {
		totalPages++
	}

	if list == nil {
		list = []*Blog{}
	}
	return &ListResult{
		Blogs:      list,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// ListByAuthor returns every post by authorID, drafts included, unpaginated.
func (s *Service) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*Blog, error) {
	list, err := s.repo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*Blog{}
	}
	return list, nil
}

// UpdateBlog replaces the five mutable fields wholesale. Only the author may
// update; everyone else gets ErrForbidden with the record untouched.
func (s *Service) UpdateBlog(ctx context.Context, id, callerID uuid.UUID, in Input) (*Blog, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.OwnedBy(callerID) {
		return nil, ErrForbidden
	}

	existing.Title = in.Title
	existing.Description = in.Description
	existing.Body = s.offloadInlineImages(ctx, in.Body)
	existing.Tags = in.Tags
	wasPublished := existing.State == Published
	existing.State = in.State

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}

	if !wasPublished && updated.State == Published {
		s.announcePublished(ctx, updated)
	}
	return updated, nil
}

func (s *Service) DeleteBlog(ctx context.Context, id, callerID uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !existing.OwnedBy(callerID) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// announcePublished emits the blog.published event. Publishing is best
// effort: a broker failure is logged, never surfaced to the caller.
func (s *Service) announcePublished(ctx context.Context, b *Blog) {
	e := events.NewBlogPublished(b.ID, b.AuthorID, b.Title)
	if err := s.publisher.PublishBlogPublished(ctx, e); err != nil {
		s.logger.Error("publish blog.published failed", "blog_id", b.ID, "error", err)
	}
}

func (s *Service) mediaPublicURL(key string) string {
	if s.cdnBase != "" {
		return s.cdnBase + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

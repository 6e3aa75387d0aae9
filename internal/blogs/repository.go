package blogs

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, b *Blog) (*Blog, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Blog, error)

	// IncrementReadCount bumps read_count by one in a single statement and
	// returns the post-increment record with the author populated.
	IncrementReadCount(ctx context.Context, id uuid.UUID) (*Blog, error)

	// List and Count see published posts only, whatever the params say.
	List(ctx context.Context, params ListParams) ([]*Blog, error)
	Count(ctx context.Context, params ListParams) (int64, error)

	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*Blog, error)
	Update(ctx context.Context, b *Blog) (*Blog, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

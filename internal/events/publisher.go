package events

import "context"

type Publisher interface {
	PublishBlogPublished(ctx context.Context, e BlogPublished) error
}

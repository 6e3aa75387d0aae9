package events

import "context"

type NoopPublisher struct{}

func (NoopPublisher) PublishBlogPublished(context.Context, BlogPublished) error {
	return nil
}

var _ Publisher = (*NoopPublisher)(nil)

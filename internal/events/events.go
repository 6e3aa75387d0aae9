package events

import (
	"time"

	"github.com/google/uuid"
)

const TypeBlogPublished = "blog.published"

type BlogPublishedPayload struct {
	BlogID   uuid.UUID `json:"blog_id"`
	AuthorID uuid.UUID `json:"author_id"`
	Title    string    `json:"title"`
}

type BlogPublished struct {
	Type      string               `json:"type"`
	Timestamp time.Time            `json:"timestamp"`
	Payload   BlogPublishedPayload `json:"payload"`
}

func NewBlogPublished(blogID, authorID uuid.UUID, title string) BlogPublished {
	return BlogPublished{
		Type:      TypeBlogPublished,
		Timestamp: time.Now().UTC(),
		Payload: BlogPublishedPayload{
			BlogID:   blogID,
			AuthorID: authorID,
			Title:    title,
		},
	}
}

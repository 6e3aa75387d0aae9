package storage

import (
	"context"
	"io"
)

// Storage holds blog media. Post rows live in Postgres; only offloaded
// images go here.
type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
}

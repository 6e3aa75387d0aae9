package storage

import (
	"context"
	"io"
)

// Noop stands in when no bucket is configured. Uploads fail with
// ErrNotConfigured so callers can fall back to keeping media inline.
type Noop struct{}

func (Noop) Upload(context.Context, string, io.Reader, string) error {
	return ErrNotConfigured
}

func (Noop) Exists(context.Context, string) (bool, error) {
	return false, ErrNotConfigured
}

var _ Storage = (*Noop)(nil)

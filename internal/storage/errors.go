package storage

import "errors"

var (
	ErrNotFound      = errors.New("object not found")
	ErrNotConfigured = errors.New("media storage not configured")
)

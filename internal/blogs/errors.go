package blogs

import "errors"

var (
	ErrNotFound  = errors.New("blog not found")
	ErrForbidden = errors.New("caller is not the blog's author")
)

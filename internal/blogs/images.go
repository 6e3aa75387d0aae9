package blogs

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"regexp"

	"blogapi/internal/storage"

	"github.com/google/uuid"
)

// Inline markdown images with an embedded data URL. Only raster types are
// offloaded; anything else stays inline.
var inlineImagePattern = regexp.MustCompile(`!\[([^\]]*)\]\(data:image/(png|jpe?g|gif|webp);base64,([A-Za-z0-9+/=]+)\)`)

// offloadInlineImages uploads base64 data-URL images embedded in body to
// object storage and rewrites each reference to its public URL. Images that
// fail to decode or upload are left inline so the post is never rejected for
// its media.
func (s *Service) offloadInlineImages(ctx context.Context, body string) string {
	if body == "" {
		return body
	}
	return inlineImagePattern.ReplaceAllStringFunc(body, func(match string) string {
		sub := inlineImagePattern.FindStringSubmatch(match)
		alt, subtype, encoded := sub[1], sub[2], sub[3]

		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			s.logger.Warn("inline image is not valid base64", "error", err)
			return match
		}

		ext := subtype
		if ext == "jpeg" {
			ext = "jpg"
		}
		key := "images/" + uuid.New().String() + "." + ext

		if err := s.store.Upload(ctx, key, bytes.NewReader(data), "image/"+subtype); err != nil {
			if errors.Is(err, storage.ErrNotConfigured) {
				s.logger.Debug("media storage not configured, keeping image inline")
			} else {
				s.logger.Warn("inline image upload failed", "key", key, "error", err)
			}
			return match
		}

		return "![" + alt + "](" + s.mediaPublicURL(key) + ")"
	})
}

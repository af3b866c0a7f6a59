// Package media decodes base64 data-URL images and hands them to object
// storage under generated keys.
package media

import (
	"context"
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/apperr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var dataURL = regexp.MustCompile(`^data:image/([a-zA-Z]+);base64,(.+)$`)

var contentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

type ObjectStore interface {
	Upload(ctx context.Context, key string, content []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type Decoded struct {
	Format      string
	ContentType string
	Data        []byte
}

// Decode parses a data:image/<fmt>;base64,<payload> URL.
func Decode(s string) (*Decoded, error) {
	m := dataURL.FindStringSubmatch(s)
	if m == nil {
		return nil, apperr.Invalid("images", "invalid image format")
	}
	format := strings.ToLower(m[1])
	ct, ok := contentTypes[format]
	if !ok {
		return nil, apperr.Invalid("images", "unsupported image format")
	}
	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return nil, apperr.Invalid("images", "invalid image encoding")
	}
	return &Decoded{Format: format, ContentType: ct, Data: data}, nil
}

type Uploader struct {
	store  ObjectStore
	logger *zap.Logger
}

// NewUploader returns an Uploader. A nil store disables uploads.
func NewUploader(store ObjectStore, logger *zap.Logger) *Uploader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uploader{store: store, logger: logger.Named("media")}
}

func (u *Uploader) Enabled() bool {
	return u != nil && u.store != nil
}

// UploadAll decodes every image before uploading any of them. When an
// upload fails the images already stored are removed again.
func (u *Uploader) UploadAll(ctx context.Context, folder string, images []string) ([]models.Image, error) {
	if len(images) == 0 {
		return []models.Image{}, nil
	}
	if !u.Enabled() {
		return nil, apperr.Invalid("images", "image uploads are not available")
	}

	decoded := make([]*Decoded, 0, len(images))
	for _, img := range images {
		d, err := Decode(img)
		if err != nil {
			return nil, err
		}
		decoded = append(decoded, d)
	}

	out := make([]models.Image, 0, len(decoded))
	for _, d := range decoded {
		key := folder + "/" + uuid.NewString() + "." + d.Format
		url, err := u.store.Upload(ctx, key, d.Data, d.ContentType)
		if err != nil {
			u.rollback(ctx, out)
			return nil, apperr.Internal("failed to upload image", err)
		}
		out = append(out, models.Image{URL: url, PublicID: key})
	}
	return out, nil
}

func (u *Uploader) Upload(ctx context.Context, folder, image string) (*models.Image, error) {
	images, err := u.UploadAll(ctx, folder, []string{image})
	if err != nil {
		return nil, err
	}
	return &images[0], nil
}

func (u *Uploader) rollback(ctx context.Context, images []models.Image) {
	for _, img := range images {
		if err := u.store.Delete(ctx, img.PublicID); err != nil {
			u.logger.Warn("failed to remove orphaned image", zap.String("key", img.PublicID), zap.Error(err))
		}
	}
}

// Package media stores uploaded catalog images.
package media

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"

	"basket-backend/pkg/errs"
	"github.com/pkg/errors"
)

const MaxFileSize = 10 * 1024 * 1024 // 10MB

const (
	FolderCategories = "categories"
	FolderBanners    = "banners"
	FolderProducts   = "products"
)

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

// Image is a stored file. URL is what clients load; ID is what the store
// needs to delete it.
type Image struct {
	URL string
	ID  string
}

type ImageStore interface {
	Save(ctx context.Context, folder string, file *multipart.FileHeader) (Image, error)
	Delete(ctx context.Context, image Image) error
}

func validate(file *multipart.FileHeader) error {
	if file == nil {
		return errs.ErrNoFile
	}
	if file.Size > MaxFileSize {
		return errors.Wrapf(errs.ErrFileTooLarge, "%.1fMB", float64(file.Size)/(1024*1024))
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	if !allowedExtensions[ext] {
		return errors.Wrapf(errs.ErrNotAnImage, "extension %q", ext)
	}
	return nil
}

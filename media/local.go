package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"basket-backend/pkg/errs"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// URLPrefix is the route the upload directory is served under.
const URLPrefix = "/uploads"

// LocalStore writes images below a directory served as static files.
type LocalStore struct {
	dir string
	now func() time.Time
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create upload dir")
	}
	return &LocalStore{dir: dir, now: time.Now}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, folder string, file *multipart.FileHeader) (Image, error) {
	if err := validate(file); err != nil {
		return Image{}, err
	}

	target := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return Image{}, errors.Wrap(err, "create upload folder")
	}

	name := fmt.Sprintf("%d-%s", s.now().UnixMilli(), cleanName(file.Filename))
	if err := saveFile(file, filepath.Join(target, name)); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "LocalStore.Save").Msg("")
		return Image{}, err
	}

	id := path.Join(folder, name)
	log.Ctx(ctx).Debug().Str("file", id).Int64("size", file.Size).Msg("image stored")
	return Image{URL: path.Join(URLPrefix, id), ID: id}, nil
}

// Delete removes the file of image. Images stored before IDs were recorded
// are located through their URL.
func (s *LocalStore) Delete(ctx context.Context, image Image) error {
	id := image.ID
	if id == "" {
		id = strings.TrimPrefix(image.URL, URLPrefix+"/")
	}

	rel := filepath.Clean(filepath.FromSlash(id))
	if rel == "." || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return errors.Wrapf(errs.ErrNotFound, "image %q", id)
	}

	err := os.Remove(filepath.Join(s.dir, rel))
	if os.IsNotExist(err) {
		return errors.Wrapf(errs.ErrNotFound, "image %q", id)
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "LocalStore.Delete").Msg("")
		return errors.Wrap(err, "remove image")
	}
	return nil
}

func saveFile(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return errors.Wrap(err, "open upload")
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, "create image file")
	}
	defer out.Close()

	if _, err = io.Copy(out, src); err != nil {
		return errors.Wrap(err, "write image file")
	}
	return nil
}

func cleanName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '/' {
			return '_'
		}
		return r
	}, name)
}

package media

import (
	"context"
	"mime/multipart"

	"basket-backend/pkg/errs"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const cloudinaryRoot = "basket"

// CloudinaryStore uploads images to Cloudinary.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cloudinaryURL string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, errors.Wrap(err, "init cloudinary")
	}
	return &CloudinaryStore{cld: cld}, nil
}

func (s *CloudinaryStore) Save(ctx context.Context, folder string, file *multipart.FileHeader) (Image, error) {
	if err := validate(file); err != nil {
		return Image{}, err
	}

	src, err := file.Open()
	if err != nil {
		return Image{}, errors.Wrap(err, "open upload")
	}
	defer src.Close()

	result, err := s.cld.Upload.Upload(ctx, src, uploader.UploadParams{Folder: cloudinaryRoot + "/" + folder})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "CloudinaryStore.Save").Msg("")
		return Image{}, errors.Wrap(err, "upload image")
	}
	if result.Error.Message != "" {
		return Image{}, errors.Errorf("upload image: %s", result.Error.Message)
	}
	return Image{URL: result.SecureURL, ID: result.PublicID}, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, image Image) error {
	if image.ID == "" {
		return errors.Wrap(errs.ErrNotFound, "image has no public id")
	}

	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: image.ID})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "CloudinaryStore.Delete").Msg("")
		return errors.Wrap(err, "destroy image")
	}
	if result.Result == "not found" {
		return errors.Wrapf(errs.ErrNotFound, "image %q", image.ID)
	}
	return nil
}

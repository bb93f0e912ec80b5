package uploader

import (
	"context"
	"errors"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"golang.org/x/sync/errgroup"
)

// Uploader converts raw image input into stable URLs on the object store.
type Uploader interface {
	// UploadEncoded uploads a Base64/data-URL encoded image.
	UploadEncoded(ctx context.Context, encoded string) (string, error)
	// UploadFile uploads raw image bytes from a reader.
	UploadFile(ctx context.Context, file io.Reader) (string, error)
}

// CloudinaryUploader stores images in a Cloudinary folder.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(url, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

func (u *CloudinaryUploader) UploadEncoded(ctx context.Context, encoded string) (string, error) {
	return u.upload(ctx, encoded)
}

func (u *CloudinaryUploader) UploadFile(ctx context.Context, file io.Reader) (string, error) {
	return u.upload(ctx, file)
}

func (u *CloudinaryUploader) upload(ctx context.Context, file interface{}) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: u.folder})
	if err != nil {
		return "", err
	}
	// Cloudinary reports some failures in the response body instead of err.
	if resp.Error.Message != "" {
		return "", errors.New(resp.Error.Message)
	}
	return resp.SecureURL, nil
}

// UploadAllEncoded uploads every encoded image concurrently and returns the
// URLs in input order. One failed upload fails the whole call; there is no
// partial result.
func UploadAllEncoded(ctx context.Context, up Uploader, images []string) ([]string, error) {
	urls := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	for i, image := range images {
		i, image := i, image
		g.Go(func() error {
			url, err := up.UploadEncoded(gctx, image)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

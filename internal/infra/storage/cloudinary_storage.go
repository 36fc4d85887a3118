package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const defaultCloudinaryFolder = "storefront/products"

// CloudinaryStorage 有設定 CLOUDINARY_URL 時取代本地儲存, product.Image 存 secure url
type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStorage(cloudURL string) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromURL(cloudURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryStorage{cld: cld, folder: defaultCloudinaryFolder}, nil
}

func (s *CloudinaryStorage) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if !AllowedFile(filename) {
		return "", nil
	}
	filename = SecureFilename(filename)
	if filename == "" {
		return "", nil
	}
	base, _ := splitExt(filename)

	result, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID: base,
		Folder:   s.folder,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return result.SecureURL, nil
}

var _ ImageStorage = (*CloudinaryStorage)(nil)

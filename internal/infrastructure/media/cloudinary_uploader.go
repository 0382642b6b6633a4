// Package media stores user images on Cloudinary.
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"promatch.backend/internal/config"
	"promatch.backend/pkg/httpx"
)

// anything larger was already rejected by upload validation
const maxUploadSize = 10 * 1024 * 1024

type uploadFunc func(ctx context.Context, file io.Reader, params uploader.UploadParams) (*uploader.UploadResult, error)

// CloudinaryUploader implements gateways.MediaUploader
type CloudinaryUploader struct {
	upload  uploadFunc
	folder  string
	timeout time.Duration
}

// NewCloudinaryClient builds the SDK client from CLOUDINARY_URL or the split credentials
func NewCloudinaryClient(cfg config.CloudinaryConfig) (*cld.Cloudinary, error) {
	if cfg.URL != "" {
		return cld.NewFromURL(cfg.URL)
	}
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not configured")
	}
	return cld.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
}

// NewCloudinaryUploader creates an uploader storing images under folder
func NewCloudinaryUploader(client *cld.Cloudinary, folder string, timeout time.Duration) *CloudinaryUploader {
	return &CloudinaryUploader{
		upload: func(ctx context.Context, file io.Reader, params uploader.UploadParams) (*uploader.UploadResult, error) {
			return client.Upload.Upload(ctx, file, params)
		},
		folder:  folder,
		timeout: timeout,
	}
}

func boolPtr(b bool) *bool {
	return &b
}

// Upload stores the image and returns its secure URL
func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	// buffered so the retry can re-read it
	content, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	params := uploader.UploadParams{
		Folder:         u.folder,
		PublicID:       strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)),
		ResourceType:   "image",
		UniqueFilename: boolPtr(true),
		Overwrite:      boolPtr(false),
	}

	var secureURL string
	err = httpx.Retry(ctx, u.timeout, func(ctx context.Context) error {
		res, err := u.upload(ctx, bytes.NewReader(content), params)
		if err != nil {
			return err
		}
		if res.Error.Message != "" {
			return fmt.Errorf("cloudinary: %s", res.Error.Message)
		}
		secureURL = res.SecureURL
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return secureURL, nil
}

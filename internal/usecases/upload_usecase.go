package usecases

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/domain/gateways"
)

// MaxAvatarSize is the largest accepted avatar upload
const MaxAvatarSize = 5 * 1024 * 1024

const sniffLen = 512

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// ValidateImage checks an upload before it leaves the process.
// head should hold the first 512 bytes of the file.
func ValidateImage(filename string, size int64, head []byte) error {
	if size <= 0 {
		return fmt.Errorf("%w: file is empty", domainerrors.ErrInvalidUpload)
	}
	if size > MaxAvatarSize {
		return fmt.Errorf("%w: file too large (max 5MB)", domainerrors.ErrInvalidUpload)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExtensions[ext] {
		return fmt.Errorf("%w: only jpg/jpeg/png/webp/gif allowed", domainerrors.ErrInvalidUpload)
	}

	if contentType := http.DetectContentType(head); !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("%w: content is %s, not an image", domainerrors.ErrInvalidUpload, contentType)
	}
	return nil
}

// UploadUsecase validates and stores avatars
type UploadUsecase struct {
	uploader gateways.MediaUploader
}

func NewUploadUsecase(uploader gateways.MediaUploader) *UploadUsecase {
	return &UploadUsecase{uploader: uploader}
}

// UploadAvatar rejects anything that is not a small image before calling the media store
func (u *UploadUsecase) UploadAvatar(ctx context.Context, filename string, size int64, file io.Reader) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	head = head[:n]

	if err := ValidateImage(filename, size, head); err != nil {
		return "", err
	}

	url, err := u.uploader.Upload(ctx, io.MultiReader(bytes.NewReader(head), file), filename)
	if err != nil {
		return "", domainerrors.External(err)
	}
	return url, nil
}

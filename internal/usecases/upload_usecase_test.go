package usecases_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/usecases"
)

// smallest valid GIF
var gifBytes = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\xff\xff\xff\x00\x00\x00!\xf9\x04\x01\x00\x00\x00\x00,\x00\x00\x00\x00\x01\x00\x01\x00\x00\x02\x02D\x01\x00;")

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		head     []byte
		wantErr  bool
	}{
		{"valid gif", "me.gif", int64(len(gifBytes)), gifBytes, false},
		{"uppercase extension", "ME.GIF", int64(len(gifBytes)), gifBytes, false},
		{"empty", "me.gif", 0, nil, true},
		{"too large", "me.gif", usecases.MaxAvatarSize + 1, gifBytes, true},
		{"exactly max", "me.gif", usecases.MaxAvatarSize, gifBytes, false},
		{"bad extension", "me.exe", 100, gifBytes, true},
		{"text disguised as png", "me.png", 100, []byte("hello world, plain text"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := usecases.ValidateImage(tt.filename, tt.size, tt.head)
			if tt.wantErr {
				assert.ErrorIs(t, err, domainerrors.ErrInvalidUpload)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUploadUsecase_UploadAvatar(t *testing.T) {
	uploader := new(MockMediaUploader)
	uc := usecases.NewUploadUsecase(uploader)

	uploader.On("Upload", mock.Anything, gifBytes, "me.gif").Return("https://cdn/me.gif", nil).Once()
	url, err := uc.UploadAvatar(context.Background(), "me.gif", int64(len(gifBytes)), bytes.NewReader(gifBytes))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/me.gif", url)

	// body larger than the sniff window is passed through whole
	big := append(append([]byte{}, gifBytes...), bytes.Repeat([]byte{0}, 2048)...)
	uploader.On("Upload", mock.Anything, big, "big.gif").Return("https://cdn/big.gif", nil).Once()
	_, err = uc.UploadAvatar(context.Background(), "big.gif", int64(len(big)), bytes.NewReader(big))
	require.NoError(t, err)
}

func TestUploadUsecase_RejectsBeforeUpload(t *testing.T) {
	uploader := new(MockMediaUploader)
	uc := usecases.NewUploadUsecase(uploader)

	_, err := uc.UploadAvatar(context.Background(), "notes.txt", 5, bytes.NewReader([]byte("hello")))
	assert.Equal(t, domainerrors.CodeInvalidUpload, domainerrors.FromError(err).Code)
	uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadUsecase_UploaderFailure(t *testing.T) {
	uploader := new(MockMediaUploader)
	uc := usecases.NewUploadUsecase(uploader)
	uploader.On("Upload", mock.Anything, mock.Anything, "me.gif").Return("", errors.New("cloudinary down")).Once()

	_, err := uc.UploadAvatar(context.Background(), "me.gif", int64(len(gifBytes)), bytes.NewReader(gifBytes))
	assert.ErrorIs(t, err, domainerrors.ErrExternalService)
}

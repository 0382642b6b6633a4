package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/interfaces/http/response"
)

// AvatarField is the multipart field holding the image
const AvatarField = "avatar"

// UploadService is the media surface used by UploadHandler
type UploadService interface {
	UploadAvatar(ctx context.Context, filename string, size int64, file io.Reader) (string, error)
}

// UploadHandler handles avatar uploads
type UploadHandler struct {
	uploads UploadService
}

func NewUploadHandler(uploads UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Avatar stores an image and returns its public URL
// POST /api/v1/uploads/avatar
func (h *UploadHandler) Avatar(c *gin.Context) {
	header, err := c.FormFile(AvatarField)
	if err != nil {
		response.Error(c, domainerrors.MissingFields(AvatarField))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, domainerrors.Validation("unreadable upload"))
		return
	}
	defer file.Close()

	url, err := h.uploads.UploadAvatar(c.Request.Context(), header.Filename, header.Size, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"url": url})
}

package response

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/pkg/logger"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response. Unknown errors become 500 INTERNAL_ERROR and are only logged.
func Error(c *gin.Context, err error) {
	appErr := domainerrors.FromError(err)
	if appErr == nil {
		appErr = domainerrors.InternalError(nil)
	}

	if appErr.Status >= 500 {
		logger.Error(c.Request.Context(), "Request failed",
			zap.String("code", appErr.Code), zap.String("path", c.Request.URL.Path), zap.Error(err))
	}

	body := gin.H{
		"kind":    appErr.Kind,
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	c.JSON(appErr.Status, body)
}

// Abort writes the error and stops the handler chain
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/interfaces/http/middleware"
	"promatch.backend/internal/interfaces/http/response"
)

func init() {
	// report json names in binding errors
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bindJSON decodes the body into dst. On failure it writes the error response and returns false.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, bindingError(err))
		return false
	}
	return true
}

func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domainerrors.Validation("invalid request body")
	}

	var missing []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return domainerrors.MissingFields(missing...)
	}
	fe := verrs[0]
	return domainerrors.Validation(fe.Field() + " is invalid").WithFields(fe.Field())
}

// uuidParam parses a path parameter. On failure it writes a 400 and returns false.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, domainerrors.Validation("invalid "+name).WithFields(name))
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the authenticated user id set by AuthMiddleware
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return uuid.Nil, false
	}
	return id, true
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/interfaces/http/response"
	"promatch.backend/pkg/jwt"
	"promatch.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// AuthCookie holds the access token for browser clients
	AuthCookie = "jwt"
	// UserIDKey is the context key for user ID
	UserIDKey = "userId"
	// UserEmailKey is the context key for user email
	UserEmailKey = "userEmail"
)

// AuthMiddleware accepts an access token from the Authorization header or the jwt cookie
func AuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractToken(c)
		if err != nil {
			logger.Debug(c.Request.Context(), "Auth rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			response.Abort(c, domainerrors.Unauthorized(err.Error()))
			return
		}

		claims, err := jwtService.ValidateToken(tokenString, jwt.TokenTypeAccess)
		if err != nil {
			logger.Debug(c.Request.Context(), "Auth rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				msg = "Token has expired"
			}
			response.Abort(c, domainerrors.Unauthorized(msg))
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)

		ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, claims.UserID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func extractToken(c *gin.Context) (string, error) {
	if authHeader := c.GetHeader(AuthorizationHeader); authHeader != "" {
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			return "", errors.New("invalid authorization format, use: Bearer <token>")
		}
		return strings.TrimPrefix(authHeader, BearerPrefix), nil
	}
	if cookie, err := c.Cookie(AuthCookie); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", errors.New("authentication required")
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetUserEmail gets the user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}

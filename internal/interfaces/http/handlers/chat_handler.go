package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"promatch.backend/internal/domain/entities"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/interfaces/http/response"
)

// SignatureHeader carries the chat provider's webhook HMAC
const SignatureHeader = "X-Signature"

const maxWebhookBody = 1 << 20

// ChatService is the messaging surface used by ChatHandler
type ChatService interface {
	Token(userID uuid.UUID) (*entities.ChatToken, error)
	UnreadCounts(ctx context.Context, userID uuid.UUID) (entities.UnreadCounts, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

// ChatHandler issues chat credentials and receives chat webhooks
type ChatHandler struct {
	chat ChatService
}

func NewChatHandler(chat ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Token returns the SDK token for the authenticated user
// GET /api/v1/chat/token
func (h *ChatHandler) Token(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	token, err := h.chat.Token(userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, token)
}

// Unread returns unread counters keyed by counterpart
// GET /api/v1/chat/unread
func (h *ChatHandler) Unread(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	counts, err := h.chat.UnreadCounts(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, counts)
}

// Webhook verifies and consumes a chat provider callback. The signature covers the raw body.
// POST /api/v1/chat/webhook
func (h *ChatHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		response.Error(c, domainerrors.Validation("unreadable body"))
		return
	}

	if err := h.chat.HandleWebhook(c.Request.Context(), body, c.GetHeader(SignatureHeader)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"received": true})
}

package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"promatch.backend/internal/domain/entities"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/domain/gateways"
	"promatch.backend/pkg/logger"
	"promatch.backend/pkg/redis"
)

const unreadCacheKeyPrefix = "chat:unread:"

// ChatUsecase issues chat credentials and serves unread counters
type ChatUsecase struct {
	chat     gateways.ChatService
	cacheTTL time.Duration
}

func NewChatUsecase(chat gateways.ChatService, cacheTTL time.Duration) *ChatUsecase {
	return &ChatUsecase{chat: chat, cacheTTL: cacheTTL}
}

// Token issues the client token used by the chat and video SDKs
func (u *ChatUsecase) Token(userID uuid.UUID) (*entities.ChatToken, error) {
	token, err := u.chat.IssueAccessToken(userID)
	if err != nil {
		return nil, err
	}
	return &entities.ChatToken{Token: token, APIKey: u.chat.APIKey(), UserID: userID}, nil
}

// UnreadCounts returns unread messages keyed by counterpart, cached briefly in Redis
func (u *ChatUsecase) UnreadCounts(ctx context.Context, userID uuid.UUID) (entities.UnreadCounts, error) {
	key := unreadCacheKeyPrefix + userID.String()
	useCache := u.cacheTTL > 0 && redis.Available()

	if useCache {
		if cached, err := redis.Get(ctx, key); err == nil {
			var counts entities.UnreadCounts
			if err := json.Unmarshal([]byte(cached), &counts); err == nil {
				return counts, nil
			}
		} else if !redis.IsNil(err) {
			logger.Warn(ctx, "Unread cache read failed", zap.Error(err))
		}
	}

	counts, err := u.chat.UnreadCounts(ctx, userID)
	if err != nil {
		return nil, domainerrors.External(err)
	}
	if counts == nil {
		counts = entities.UnreadCounts{}
	}

	if useCache {
		if b, err := json.Marshal(counts); err == nil {
			if err := redis.Set(ctx, key, b, u.cacheTTL); err != nil {
				logger.Warn(ctx, "Unread cache write failed", zap.Error(err))
			}
		}
	}
	return counts, nil
}

// HandleWebhook authenticates a chat provider callback and logs the events the backend tracks
func (u *ChatUsecase) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if signature == "" || !u.chat.VerifyWebhook(body, signature) {
		return domainerrors.ErrInvalidSignature
	}

	var event entities.ChatEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: malformed webhook body", domainerrors.ErrInvalidInput)
	}

	switch event.Type {
	case "message.new", "message.read":
		logger.Info(ctx, "Chat event", zap.String("type", event.Type),
			zap.String("channel_id", event.ChannelID), zap.String("from", event.User.ID))
		if redis.Available() {
			for _, id := range event.StaleUnreadUsers() {
				if uid, err := uuid.Parse(id); err == nil {
					_ = redis.Del(ctx, unreadCacheKeyPrefix+uid.String())
				}
			}
		}
	default:
		logger.Debug(ctx, "Ignoring chat event", zap.String("type", event.Type))
	}
	return nil
}

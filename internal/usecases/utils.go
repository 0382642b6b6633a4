package usecases

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"promatch.backend/internal/domain/entities"
	"promatch.backend/internal/domain/gateways"
	"promatch.backend/pkg/logger"
)

// publishEvent emits a domain event. Broker failures never fail the request.
func publishEvent(ctx context.Context, events gateways.EventPublisher, routingKey string, payload any) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, routingKey, payload); err != nil {
		logger.Warn(ctx, "Failed to publish event", zap.String("routing_key", routingKey), zap.Error(err))
	}
}

// mirrorIdentity copies the user's display fields into the chat provider, best effort
func mirrorIdentity(ctx context.Context, chat gateways.ChatService, user *entities.User) {
	if chat == nil || user == nil {
		return
	}
	identity := entities.ChatIdentity{ID: user.ID, Name: user.FullName, Avatar: user.Avatar}
	if err := chat.UpsertIdentity(ctx, identity); err != nil {
		logger.Warn(ctx, "Chat identity mirror failed", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func sameIDSet(a, b []uuid.UUID) bool {
	a, b = uniqueIDs(a), uniqueIDs(b)
	if len(a) != len(b) {
		return false
	}
	set := make(map[uuid.UUID]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

// UserEvent is the payload of user.* events
type UserEvent struct {
	UserID uuid.UUID         `json:"userId"`
	Role   entities.RoleName `json:"role,omitempty"`
}

// ConnectionEvent is the payload of connection.created
type ConnectionEvent struct {
	StudentID uuid.UUID `json:"studentId"`
	TeacherID uuid.UUID `json:"teacherId"`
}

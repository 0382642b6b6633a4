package entities

import (
	"time"

	"github.com/google/uuid"
)

// VirtualClass is a recorded video session between two or more users
type VirtualClass struct {
	ID           uuid.UUID   `json:"id"`
	ChannelID    string      `json:"channelId"`
	Participants []uuid.UUID `json:"participants"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// RecordSessionInput is the body of POST /activity/sessions
type RecordSessionInput struct {
	ChannelID    string      `json:"channelId" binding:"required"`
	Participants []uuid.UUID `json:"participants" binding:"required"`
}

// SessionResponse resolves a recorded session's participants for display
type SessionResponse struct {
	ID           uuid.UUID     `json:"id"`
	ChannelID    string        `json:"channelId"`
	Participants []UserSummary `json:"participants"`
	CreatedAt    time.Time     `json:"createdAt"`
}

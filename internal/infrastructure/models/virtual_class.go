package models

import (
	"time"

	"github.com/google/uuid"
)

type VirtualClass struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChannelID string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"index"`
}

type VirtualClassParticipant struct {
	VirtualClassID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Position       int       `gorm:"not null"`
}

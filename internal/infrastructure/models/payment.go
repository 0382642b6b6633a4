package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

type Payment struct {
	ID                uuid.UUID   `gorm:"type:uuid;primaryKey"`
	SenderID          *uuid.UUID  `gorm:"type:uuid;index"`
	ReceiverID        *uuid.UUID  `gorm:"type:uuid;index"`
	Amount            float64     `gorm:"not null"`
	Status            string      `gorm:"type:varchar(20);not null;index"`
	ExternalPaymentID null.String `gorm:"type:varchar(100);uniqueIndex"`
	CreatedAt         time.Time   `gorm:"index"`
}

type PaymentAccount struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID   `gorm:"type:uuid;uniqueIndex;not null"`
	AccessToken  string      `gorm:"type:text"`
	RefreshToken string      `gorm:"type:text"`
	ExpiresAt    null.Time   `gorm:"index"`
	SellerID     null.String `gorm:"type:varchar(100)"`
	IsConnected  bool        `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

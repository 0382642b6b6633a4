package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName     string     `gorm:"type:varchar(150);not null"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	RoleID       *uuid.UUID `gorm:"type:uuid;index"`
	LocationID   *uuid.UUID `gorm:"type:uuid;index"`
	Avatar       string     `gorm:"type:text"`
	Bio          string     `gorm:"type:text"`
	Price        float64    `gorm:"not null;default:0"`
	IsOnboarded  bool       `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserLanguage struct {
	UserID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	LanguageID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (UserLanguage) TableName() string { return "user_languages" }

type UserSubject struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	SubjectID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (UserSubject) TableName() string { return "user_subjects" }

// UserConnection is one direction of a connection edge
type UserConnection struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConnectionID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt    time.Time
}

func (UserConnection) TableName() string { return "user_connections" }

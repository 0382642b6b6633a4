package models

import (
	"time"

	"github.com/google/uuid"
)

// Reference is the shared row shape of roles, locations, languages and subjects.
// The table is chosen per query.
type Reference struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	CreatedAt time.Time
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// Pallet groups stock boxes for warehouse handling.
type Pallet struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code      string    `gorm:"uniqueIndex;not null"`
	Location  *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Boxes []Box `gorm:"foreignKey:PalletID"`
}

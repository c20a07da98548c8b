package model

import (
	"time"

	"github.com/google/uuid"
)

// CaptureZone is the master catalog of FAO capture zones (e.g. "FAO 27 IXa").
type CaptureZone struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code      string    `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

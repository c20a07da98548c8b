package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is the master catalog of finished or intermediate articles.
// Production outputs reference a product; deletion is restricted while any
// output or box references it.
type Product struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code      string    `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"index;not null"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// Species is the master catalog of fish species (FAO code + commercial name).
// Productions reference a species; deletion is restricted while referenced.
type Species struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	FAOCode   *string   `gorm:"type:varchar(10);column:fao_code"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's pluralization ("species" is already plural).
func (Species) TableName() string { return "species" }

package model

import (
	"time"

	"github.com/google/uuid"
)

// Process is the master catalog of processing operation types
// (gutting, filleting, freezing, glazing, packing, …).
// Every ProductionRecord references exactly one process.
type Process struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default pluralization (process → processes is fine,
// but kept explicit to match the rest of the schema).
func (Process) TableName() string { return "processes" }

package model

import (
	"time"

	"github.com/google/uuid"
)

// Production is the root aggregate: one fishing lot/batch being processed
// through one or more steps. Created "open" (ClosedAt nil); closed when all
// work on the lot is finished.
type Production struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SpeciesID     *uuid.UUID `gorm:"type:uuid;index"`
	CaptureZoneID *uuid.UUID `gorm:"type:uuid;index"`
	LotLabel      string     `gorm:"index;not null"`
	Notes         *string
	OpenedAt      time.Time `gorm:"not null"`
	ClosedAt      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Species     *Species     `gorm:"foreignKey:SpeciesID;constraint:OnDelete:RESTRICT"`
	CaptureZone *CaptureZone `gorm:"foreignKey:CaptureZoneID;constraint:OnDelete:RESTRICT"`
	Records     []ProductionRecord `gorm:"foreignKey:ProductionID"`
}

// IsClosed reports whether the lot has been closed.
func (p *Production) IsClosed() bool { return p.ClosedAt != nil }

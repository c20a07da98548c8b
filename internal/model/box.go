package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Box is a raw-material stock unit owned by the inventory subsystem.
// The production core only reads and references boxes, never mutates them.
// A box cannot be deleted while a ProductionInput references it (FK restrict).
type Box struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PalletID  *uuid.UUID      `gorm:"type:uuid;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	LotCode   string          `gorm:"index;not null"`
	WeightKg  decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	CreatedAt time.Time

	Pallet  *Pallet  `gorm:"foreignKey:PalletID;constraint:OnDelete:SET NULL"`
	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

// TableName overrides GORM's default pluralization.
func (Box) TableName() string { return "boxes" }

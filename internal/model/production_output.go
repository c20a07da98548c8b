package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductionOutput is a yield of a processing step: a product, lot, box count
// and weight. Outputs cascade with their record; the product FK is RESTRICT
// (a master product cannot be deleted while an output references it).
type ProductionOutput struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductionRecordID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	LotCode            *string         `gorm:"index"`
	Boxes              int             `gorm:"not null;default:0"`
	WeightKg           decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Record  *ProductionRecord `gorm:"foreignKey:ProductionRecordID;constraint:OnDelete:CASCADE"`
	Product *Product          `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`

	Consumptions []ProductionOutputConsumption `gorm:"foreignKey:ProductionOutputID"`
	Sources      []ProductionOutputSource      `gorm:"foreignKey:ProductionOutputID"`
}

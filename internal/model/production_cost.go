package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductionCost attaches a cost either to one record (node-level) or to a
// whole production (root-level), as a fixed total or a per-kg rate.
//
// Validation-time invariants (see CostService):
//   - exactly one of ProductionRecordID / ProductionID is set
//   - exactly one of TotalCost / CostPerKg is set
//
// Allocation is a pure computed view — never persisted onto outputs.
type ProductionCost struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductionRecordID *uuid.UUID `gorm:"type:uuid;index"`
	ProductionID       *uuid.UUID `gorm:"type:uuid;index"`
	CostCatalogID      *uuid.UUID `gorm:"type:uuid;index"`
	CostType           string     `gorm:"type:varchar(20);not null"`
	Name               string     `gorm:"not null"`
	Description        *string
	TotalCost          *decimal.Decimal `gorm:"type:decimal(12,4)"`
	CostPerKg          *decimal.Decimal `gorm:"type:decimal(12,4);column:cost_per_kg"`
	DistributionUnit   *string          `gorm:"type:varchar(10)"`
	CostDate           time.Time        `gorm:"not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Record     *ProductionRecord `gorm:"foreignKey:ProductionRecordID;constraint:OnDelete:CASCADE"`
	Production *Production       `gorm:"foreignKey:ProductionID;constraint:OnDelete:CASCADE"`
	Catalog    *CostCatalog      `gorm:"foreignKey:CostCatalogID;constraint:OnDelete:SET NULL"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Source types for ProductionOutputSource.
const (
	SourceStockBox     = "stock_box"
	SourceParentOutput = "parent_output"
)

// ProductionOutputSource is the provenance ledger entry for an output: which
// stock box (via ProductionInput) or which parent-output consumption
// contributed to it, and in what weight/proportion.
//
// Exactly one of ProductionInputID / ProductionOutputConsumptionID is set,
// matching SourceType. Weight is the canonical representation; the percentage
// is derived (weight / output.weight × 100) and recomputed on every write.
type ProductionOutputSource struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductionOutputID uuid.UUID `gorm:"type:uuid;not null;index"`
	SourceType         string    `gorm:"type:varchar(20);not null"`

	ProductionInputID             *uuid.UUID `gorm:"type:uuid;index"`
	ProductionOutputConsumptionID *uuid.UUID `gorm:"type:uuid;index"`

	ContributedWeightKg *decimal.Decimal `gorm:"type:decimal(12,3)"`
	ContributedBoxes    int              `gorm:"not null;default:0"`
	ContributionPct     *decimal.Decimal `gorm:"type:decimal(8,4);column:contribution_pct"`
	CreatedAt           time.Time

	Output      *ProductionOutput            `gorm:"foreignKey:ProductionOutputID;constraint:OnDelete:CASCADE"`
	Input       *ProductionInput             `gorm:"foreignKey:ProductionInputID;constraint:OnDelete:RESTRICT"`
	Consumption *ProductionOutputConsumption `gorm:"foreignKey:ProductionOutputConsumptionID;constraint:OnDelete:RESTRICT"`
}

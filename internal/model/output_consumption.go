package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductionOutputConsumption is the tree edge: it records how much of a
// parent record's output is consumed as input by a child record.
// A child consumes a given output at most once (composite unique) —
// partial consumption is fine, re-registering requires an update.
// There is no stored "remaining" column: remaining weight is always computed
// by summing sibling consumptions under a row lock on the output.
type ProductionOutputConsumption struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductionRecordID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_consumption_record_output"`
	ProductionOutputID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_consumption_record_output"`
	ConsumedWeightKg   decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	ConsumedBoxes      int             `gorm:"not null;default:0"`
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Record *ProductionRecord `gorm:"foreignKey:ProductionRecordID;constraint:OnDelete:CASCADE"`
	Output *ProductionOutput `gorm:"foreignKey:ProductionOutputID;constraint:OnDelete:RESTRICT"`
}

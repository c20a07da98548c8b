package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductionRecord is one processing step: a node in the forest under a
// Production. Root steps (ParentRecordID nil) consume stock boxes via
// ProductionInput; non-root steps consume parent outputs via
// ProductionOutputConsumption.
//
// Deletion policy (asymmetric on purpose — it encodes traceability priorities):
//   - deleting the owning Production cascades to its records
//   - deleting a parent record sets children's parent to NULL: orphans survive
//     as new roots, children are NEVER cascade-deleted
//   - the record's own outputs cascade with it (see TreeService.DeleteRecord,
//     which blocks deletion when that would destroy consumed history)
type ProductionRecord struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductionID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ParentRecordID *uuid.UUID `gorm:"type:uuid;index"`
	ProcessID      uuid.UUID  `gorm:"type:uuid;not null"`
	StartedAt      *time.Time
	FinishedAt     *time.Time
	Notes          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Production *Production        `gorm:"foreignKey:ProductionID;constraint:OnDelete:CASCADE"`
	Parent     *ProductionRecord  `gorm:"foreignKey:ParentRecordID;constraint:OnDelete:SET NULL"`
	Process    *Process           `gorm:"foreignKey:ProcessID;constraint:OnDelete:RESTRICT"`
	Children   []ProductionRecord `gorm:"foreignKey:ParentRecordID"`
	Inputs     []ProductionInput  `gorm:"foreignKey:ProductionRecordID"`
	Outputs    []ProductionOutput `gorm:"foreignKey:ProductionRecordID"`
}

// IsRoot reports whether this record is a root step of its production.
func (r *ProductionRecord) IsRoot() bool { return r.ParentRecordID == nil }

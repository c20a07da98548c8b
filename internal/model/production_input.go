package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductionInput links a stock box into a root ProductionRecord.
// A box enters a given record at most once (composite unique) and — by the
// single-use policy — enters the whole forest at most once (unique box_id).
// The box FK is RESTRICT: stock traceability must never be silently lost.
type ProductionInput struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductionRecordID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_input_record_box"`
	BoxID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_input_record_box;uniqueIndex:idx_input_box"`
	CreatedAt          time.Time

	Record *ProductionRecord `gorm:"foreignKey:ProductionRecordID;constraint:OnDelete:RESTRICT"`
	Box    *Box              `gorm:"foreignKey:BoxID;constraint:OnDelete:RESTRICT"`
}

package dto

import "github.com/shopspring/decimal"

// ─── Inputs ─────────────────────────────────────────────────────────────────

type AddInputRequest struct {
	BoxID string `json:"box_id" validate:"required,uuid"`
}

type InputResponse struct {
	ID        string          `json:"id"`
	RecordID  string          `json:"production_record_id"`
	BoxID     string          `json:"box_id"`
	LotCode   string          `json:"lot_code"`
	WeightKg  decimal.Decimal `json:"weight_kg"`
	CreatedAt string          `json:"created_at"`
}

// ─── Outputs ────────────────────────────────────────────────────────────────

// SourceSpec describes one provenance entry, either inline on output creation
// or via POST /v1/production-outputs/:id/sources.
// Exactly one of production_input_id / production_output_consumption_id must
// be set, matching source_type. At least one of contributed_weight_kg /
// contribution_pct must be present.
type SourceSpec struct {
	SourceType                    string           `json:"source_type" validate:"required,oneof=stock_box parent_output"`
	ProductionInputID             *string          `json:"production_input_id"              validate:"omitempty,uuid"`
	ProductionOutputConsumptionID *string          `json:"production_output_consumption_id" validate:"omitempty,uuid"`
	ContributedWeightKg           *decimal.Decimal `json:"contributed_weight_kg"`
	ContributedBoxes              int              `json:"contributed_boxes" validate:"min=0"`
	ContributionPct               *decimal.Decimal `json:"contribution_pct"`
}

type AddOutputRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	LotCode   *string         `json:"lot_code"`
	Boxes     int             `json:"boxes"     validate:"min=0"`
	WeightKg  decimal.Decimal `json:"weight_kg" validate:"min=0"`
	// Sources are optional; when present they are created in the same
	// transaction as the output.
	Sources []SourceSpec `json:"sources" validate:"omitempty,dive"`
}

type OutputResponse struct {
	ID        string          `json:"id"`
	RecordID  string          `json:"production_record_id"`
	ProductID string          `json:"product_id"`
	Product   string          `json:"product"`
	LotCode   *string         `json:"lot_code"`
	Boxes     int             `json:"boxes"`
	WeightKg  decimal.Decimal `json:"weight_kg"`
	CreatedAt string          `json:"created_at"`
}

// ─── Consumptions ───────────────────────────────────────────────────────────

type RegisterConsumptionRequest struct {
	ProductionRecordID string          `json:"production_record_id" validate:"required,uuid"`
	ProductionOutputID string          `json:"production_output_id" validate:"required,uuid"`
	ConsumedWeightKg   decimal.Decimal `json:"consumed_weight_kg"   validate:"required"`
	ConsumedBoxes      int             `json:"consumed_boxes"       validate:"min=0"`
	Notes              *string         `json:"notes"`
}

type UpdateConsumptionRequest struct {
	ConsumedWeightKg decimal.Decimal `json:"consumed_weight_kg" validate:"required"`
	ConsumedBoxes    int             `json:"consumed_boxes"     validate:"min=0"`
	Notes            *string         `json:"notes"`
}

type ConsumptionResponse struct {
	ID                 string          `json:"id"`
	ProductionRecordID string          `json:"production_record_id"`
	ProductionOutputID string          `json:"production_output_id"`
	ConsumedWeightKg   decimal.Decimal `json:"consumed_weight_kg"`
	ConsumedBoxes      int             `json:"consumed_boxes"`
	// RemainingWeightKg is the output weight still unconsumed after this row.
	RemainingWeightKg decimal.Decimal `json:"remaining_weight_kg"`
	Notes             *string         `json:"notes"`
	CreatedAt         string          `json:"created_at"`
}

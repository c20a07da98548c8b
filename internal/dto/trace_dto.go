package dto

import "github.com/shopspring/decimal"

type SourceResponse struct {
	ID                            string           `json:"id"`
	ProductionOutputID            string           `json:"production_output_id"`
	SourceType                    string           `json:"source_type"`
	ProductionInputID             *string          `json:"production_input_id"`
	ProductionOutputConsumptionID *string          `json:"production_output_consumption_id"`
	ContributedWeightKg           *decimal.Decimal `json:"contributed_weight_kg"`
	ContributedBoxes              int              `json:"contributed_boxes"`
	ContributionPct               *decimal.Decimal `json:"contribution_pct"`
}

// TraceEntry maps one originating stock box to the weight it contributed to
// the traced output.
type TraceEntry struct {
	BoxID    string          `json:"box_id"`
	LotCode  string          `json:"lot_code"`
	WeightKg decimal.Decimal `json:"weight_kg"`
}

type TraceResponse struct {
	OutputID      string          `json:"output_id"`
	Entries       []TraceEntry    `json:"entries"`
	TotalWeightKg decimal.Decimal `json:"total_weight_kg"`
}

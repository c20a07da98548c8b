package dto

// ─── Filter / List ──────────────────────────────────────────────────────────

// ProductionFilter is bound from the query string of GET /v1/productions.
type ProductionFilter struct {
	Status    string `form:"status,default=open"` // open | closed | all
	SpeciesID string `form:"species_id"`
	Lot       string `form:"lot"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProductionListResponse struct {
	Data  []ProductionResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// ─── Requests ───────────────────────────────────────────────────────────────

type CreateProductionRequest struct {
	SpeciesID     *string `json:"species_id"      validate:"omitempty,uuid"`
	CaptureZoneID *string `json:"capture_zone_id" validate:"omitempty,uuid"`
	LotLabel      string  `json:"lot_label"       validate:"required,min=1"`
	Notes         *string `json:"notes"`
}

// ─── Responses ──────────────────────────────────────────────────────────────

type ProductionResponse struct {
	ID          string  `json:"id"`
	SpeciesID   *string `json:"species_id"`
	Species     *string `json:"species"`
	CaptureZone *string `json:"capture_zone"`
	LotLabel    string  `json:"lot_label"`
	Notes       *string `json:"notes"`
	OpenedAt    string  `json:"opened_at"`
	ClosedAt    *string `json:"closed_at"`
}

package dto

import "time"

type CreateRecordRequest struct {
	ProductionID   string     `json:"production_id"    validate:"required,uuid"`
	ParentRecordID *string    `json:"parent_record_id" validate:"omitempty,uuid"`
	ProcessID      string     `json:"process_id"       validate:"required,uuid"`
	StartedAt      *time.Time `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at"`
	Notes          *string    `json:"notes"`
}

type RecordResponse struct {
	ID             string  `json:"id"`
	ProductionID   string  `json:"production_id"`
	ParentRecordID *string `json:"parent_record_id"`
	ProcessID      string  `json:"process_id"`
	Process        string  `json:"process"`
	StartedAt      *string `json:"started_at"`
	FinishedAt     *string `json:"finished_at"`
	Notes          *string `json:"notes"`
	CreatedAt      string  `json:"created_at"`
}

// DescendantsResponse lists a record's subtree in breadth-first order,
// the root itself first.
type DescendantsResponse struct {
	RootID  string           `json:"root_id"`
	Records []RecordResponse `json:"records"`
}

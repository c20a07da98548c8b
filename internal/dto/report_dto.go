package dto

type RequestReportRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ReportResponse struct {
	ID           string  `json:"id"`
	ProductionID string  `json:"production_id"`
	Email        string  `json:"email"`
	Status       string  `json:"status"`
	PDFPath      *string `json:"pdf_path"`
	RetryCount   int     `json:"retry_count"`
	LastError    *string `json:"last_error"`
	CreatedAt    string  `json:"created_at"`
}

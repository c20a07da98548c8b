package model

import (
	"time"

	"github.com/google/uuid"
)

// Report states.
const (
	ReportPending = "pending"
	ReportSent    = "sent"
	ReportFailed  = "failed"
)

// AllocationReport tracks an async cost-allocation report request for a
// production: the worker computes the allocation view, renders the PDF and
// mails it. Failed deliveries are retried with backoff by the retry ticker.
type AllocationReport struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductionID uuid.UUID `gorm:"type:uuid;not null;index"`
	Email        string    `gorm:"not null"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending'"`
	// PDFPath is relative to PDF_STORAGE_PATH
	PDFPath     *string `gorm:"column:pdf_path"`
	RetryCount  int     `gorm:"not null;default:0"`
	NextRetryAt *time.Time
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Production *Production `gorm:"foreignKey:ProductionID;constraint:OnDelete:CASCADE"`
}

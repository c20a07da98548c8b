package worker

// report_worker.go
// Processes allocation report jobs from QueueReports: computes the
// production's cost allocation, renders the PDF and mails it through the
// circuit breaker. Failed deliveries stay pending with exponential backoff;
// the retry cron re-enqueues them until MaxReportRetries, then the job lands
// in the DLQ and the report is marked failed.

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/dto"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/infra"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/repository"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/tenant"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// MaxReportRetries is the delivery attempt ceiling before a report is marked
// failed and its job moved to the DLQ.
const MaxReportRetries = 5

// ReportJobPayload is the job envelope sent to QueueReports. Tenant restores
// the database routing lost when the job leaves the request context.
type ReportJobPayload struct {
	ReportID string `json:"report_id"`
	Tenant   string `json:"tenant"`
}

// AllocationSource computes the per-output allocation view for a production.
// Satisfied by service.CostService.
type AllocationSource interface {
	AllocateProduction(ctx context.Context, productionID uuid.UUID) (*dto.ProductionAllocationResponse, error)
}

// ReportWorker processes allocation report jobs.
type ReportWorker struct {
	reports        repository.ReportRepository
	productions    repository.ProductionRepository
	allocations    AllocationSource
	mailer         *infra.Mailer
	cb             *infra.CircuitBreaker
	rdb            *redis.Client
	pdfStoragePath string
}

func NewReportWorker(
	reports repository.ReportRepository,
	productions repository.ProductionRepository,
	allocations AllocationSource,
	mailer *infra.Mailer,
	cb *infra.CircuitBreaker,
	rdb *redis.Client,
	pdfStoragePath string,
) *ReportWorker {
	return &ReportWorker{
		reports:        reports,
		productions:    productions,
		allocations:    allocations,
		mailer:         mailer,
		cb:             cb,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single report job:
//  1. Parse the payload and restore the tenant context
//  2. Fetch the report and its production
//  3. Compute the allocation view and render the PDF
//  4. Send the email through the circuit breaker
//  5. Update the report: sent, or pending with a scheduled retry
func (w *ReportWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReportJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload")
		return
	}
	reportID, err := uuid.Parse(payload.ReportID)
	if err != nil {
		log.Error().Str("report_id", payload.ReportID).Msg("report_worker: invalid report_id")
		return
	}
	if payload.Tenant != "" {
		ctx = tenant.WithKey(ctx, payload.Tenant)
	}

	report, err := w.reports.FindByID(ctx, reportID)
	if err != nil {
		log.Error().Err(err).Str("report_id", payload.ReportID).Msg("report_worker: report not found")
		return
	}
	if report.Status == model.ReportSent {
		log.Debug().Str("report_id", payload.ReportID).Msg("report_worker: already sent, skipping")
		return
	}

	production, err := w.productions.FindByID(ctx, report.ProductionID)
	if err != nil {
		w.fail(ctx, report, raw, fmt.Sprintf("production not found: %v", err))
		return
	}

	alloc, err := w.allocations.AllocateProduction(ctx, report.ProductionID)
	if err != nil {
		w.fail(ctx, report, raw, fmt.Sprintf("allocation failed: %v", err))
		return
	}

	pdfName, err := infra.GenerateAllocationPDF(production, alloc, report.ID.String(), w.pdfStoragePath)
	if err != nil {
		w.fail(ctx, report, raw, fmt.Sprintf("pdf generation failed: %v", err))
		return
	}
	report.PDFPath = &pdfName

	subject := fmt.Sprintf("Cost allocation report — lot %s", production.LotLabel)
	body := fmt.Sprintf("Attached is the cost allocation report for production lot %s.\nTotal cost: %s",
		production.LotLabel, alloc.TotalCost.StringFixed(2))

	sendErr := w.cb.Execute(func() error {
		return w.mailer.SendReport(report.Email, subject, body, filepath.Join(w.pdfStoragePath, pdfName))
	})
	if sendErr != nil {
		w.fail(ctx, report, raw, fmt.Sprintf("email delivery failed: %v", sendErr))
		return
	}

	report.Status = model.ReportSent
	report.NextRetryAt = nil
	report.LastError = nil
	if err := w.reports.Update(ctx, report); err != nil {
		log.Error().Err(err).Str("report_id", payload.ReportID).Msg("report_worker: failed to persist sent status")
		return
	}
	log.Info().
		Str("report_id", payload.ReportID).
		Str("email", report.Email).
		Msg("report_worker: report sent")
}

// fail increments the retry counter and schedules the next attempt, or gives
// up after MaxReportRetries and moves the job to the DLQ.
func (w *ReportWorker) fail(ctx context.Context, report *model.AllocationReport, raw json.RawMessage, reason string) {
	report.RetryCount++
	report.LastError = &reason

	if report.RetryCount >= MaxReportRetries {
		report.Status = model.ReportFailed
		report.NextRetryAt = nil
		SendToDLQ(ctx, w.rdb, QueueReports, "report", raw, reason, report.RetryCount)
		log.Error().
			Str("report_id", report.ID.String()).
			Int("retries", report.RetryCount).
			Str("reason", reason).
			Msg("report_worker: max retries exceeded")
	} else {
		next := time.Now().Add(retryBackoff(report.RetryCount))
		report.NextRetryAt = &next
		log.Warn().
			Str("report_id", report.ID.String()).
			Int("retry_count", report.RetryCount).
			Time("next_retry_at", next).
			Str("reason", reason).
			Msg("report_worker: delivery failed, retry scheduled")
	}

	if err := w.reports.Update(ctx, report); err != nil {
		log.Error().Err(err).Str("report_id", report.ID.String()).Msg("report_worker: failed to persist retry state")
	}
}

// retryBackoff returns the wait before the given attempt: 1m, 2m, 4m, 8m …
func retryBackoff(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	return time.Duration(1<<uint(retryCount-1)) * time.Minute
}

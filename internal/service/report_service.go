package service

import (
	"context"
	"time"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/dto"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/repository"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/tenant"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReportService accepts allocation report requests and hands them to the
// async pipeline: a pending row plus a queued job. The worker does the heavy
// lifting (allocation, PDF, email).
type ReportService interface {
	RequestReport(ctx context.Context, productionID uuid.UUID, req dto.RequestReportRequest) (*dto.ReportResponse, error)
	GetReport(ctx context.Context, id uuid.UUID) (*dto.ReportResponse, error)
}

type reportService struct {
	reports     repository.ReportRepository
	productions repository.ProductionRepository
	dispatcher  *worker.Dispatcher
}

func NewReportService(
	reports repository.ReportRepository,
	productions repository.ProductionRepository,
	dispatcher *worker.Dispatcher,
) ReportService {
	return &reportService{reports: reports, productions: productions, dispatcher: dispatcher}
}

func (s *reportService) RequestReport(ctx context.Context, productionID uuid.UUID, req dto.RequestReportRequest) (*dto.ReportResponse, error) {
	if _, err := s.productions.FindByID(ctx, productionID); err != nil {
		return nil, newNotFound("production %s not found", productionID)
	}

	report := &model.AllocationReport{
		ProductionID: productionID,
		Email:        req.Email,
		Status:       model.ReportPending,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	payload := worker.ReportJobPayload{
		ReportID: report.ID.String(),
		Tenant:   tenant.KeyFromContext(ctx),
	}
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueReport(ctx, payload); err != nil {
			// The retry cron picks the report up once next_retry_at is due.
			next := time.Now().Add(time.Minute)
			report.NextRetryAt = &next
			if updErr := s.reports.Update(ctx, report); updErr != nil {
				log.Error().Err(updErr).Str("report_id", report.ID.String()).Msg("report: failed to schedule retry")
			}
			log.Warn().Err(err).Str("report_id", report.ID.String()).Msg("report: enqueue failed, deferred to retry cron")
		}
	}
	return reportToResponse(report), nil
}

func (s *reportService) GetReport(ctx context.Context, id uuid.UUID) (*dto.ReportResponse, error) {
	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, newNotFound("report %s not found", id)
	}
	return reportToResponse(report), nil
}

func reportToResponse(report *model.AllocationReport) *dto.ReportResponse {
	return &dto.ReportResponse{
		ID:           report.ID.String(),
		ProductionID: report.ProductionID.String(),
		Email:        report.Email,
		Status:       report.Status,
		PDFPath:      report.PDFPath,
		RetryCount:   report.RetryCount,
		LastError:    report.LastError,
		CreatedAt:    report.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

package repository

import (
	"context"
	"time"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportRepository is the data access contract for allocation report jobs.
type ReportRepository interface {
	Create(ctx context.Context, rep *model.AllocationReport) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AllocationReport, error)
	Update(ctx context.Context, rep *model.AllocationReport) error
	// ListPendingRetries returns pending reports whose next_retry_at is due,
	// for the retry ticker.
	ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.AllocationReport, error)

	DB(ctx context.Context) (*gorm.DB, error)
}

type reportRepo struct{ dbs *tenant.Registry }

func NewReportRepository(dbs *tenant.Registry) ReportRepository {
	return &reportRepo{dbs: dbs}
}

func (r *reportRepo) Create(ctx context.Context, rep *model.AllocationReport) error {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return err
	}
	return db.Create(rep).Error
}

func (r *reportRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.AllocationReport, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var rep model.AllocationReport
	err = db.First(&rep, id).Error
	return &rep, err
}

func (r *reportRepo) Update(ctx context.Context, rep *model.AllocationReport) error {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return err
	}
	return db.Save(rep).Error
}

func (r *reportRepo) ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.AllocationReport, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var reports []model.AllocationReport
	err = db.Where("status = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?", model.ReportPending, now).
		Order("next_retry_at ASC").Limit(limit).Find(&reports).Error
	return reports, err
}

func (r *reportRepo) DB(ctx context.Context) (*gorm.DB, error) { return r.dbs.DB(ctx) }

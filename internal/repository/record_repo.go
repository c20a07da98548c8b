package repository

import (
	"context"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecordRepository is the data access contract for production records
// (the nodes of the processing forest).
type RecordRepository interface {
	Create(ctx context.Context, rec *model.ProductionRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductionRecord, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]model.ProductionRecord, error)
	ListRoots(ctx context.Context, productionID uuid.UUID) ([]model.ProductionRecord, error)
	ListByProduction(ctx context.Context, productionID uuid.UUID) ([]model.ProductionRecord, error)

	// CountInputs counts raw-material inputs attached to the record.
	CountInputs(ctx context.Context, recordID uuid.UUID) (int64, error)
	// CountDownstreamConsumptions counts consumption rows that reference any
	// output of the record — history that deletion must not destroy.
	CountDownstreamConsumptions(ctx context.Context, recordID uuid.UUID) (int64, error)

	// Used inside transactions — callers must pass the tx instance.
	ReparentChildrenTx(tx *gorm.DB, parentID uuid.UUID) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	DB(ctx context.Context) (*gorm.DB, error)
}

type recordRepo struct{ dbs *tenant.Registry }

func NewRecordRepository(dbs *tenant.Registry) RecordRepository {
	return &recordRepo{dbs: dbs}
}

func (r *recordRepo) Create(ctx context.Context, rec *model.ProductionRecord) error {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return err
	}
	return db.Create(rec).Error
}

func (r *recordRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductionRecord, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var rec model.ProductionRecord
	err = db.Preload("Process").First(&rec, id).Error
	return &rec, err
}

func (r *recordRepo) ListChildren(ctx context.Context, parentID uuid.UUID) ([]model.ProductionRecord, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var records []model.ProductionRecord
	err = db.Where("parent_record_id = ?", parentID).Order("created_at ASC").Find(&records).Error
	return records, err
}

func (r *recordRepo) ListRoots(ctx context.Context, productionID uuid.UUID) ([]model.ProductionRecord, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var records []model.ProductionRecord
	err = db.Where("production_id = ? AND parent_record_id IS NULL", productionID).
		Order("created_at ASC").Find(&records).Error
	return records, err
}

func (r *recordRepo) ListByProduction(ctx context.Context, productionID uuid.UUID) ([]model.ProductionRecord, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var records []model.ProductionRecord
	err = db.Where("production_id = ?", productionID).Order("created_at ASC").Find(&records).Error
	return records, err
}

func (r *recordRepo) CountInputs(ctx context.Context, recordID uuid.UUID) (int64, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	err = db.Model(&model.ProductionInput{}).
		Where("production_record_id = ?", recordID).Count(&count).Error
	return count, err
}

func (r *recordRepo) CountDownstreamConsumptions(ctx context.Context, recordID uuid.UUID) (int64, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	err = db.Model(&model.ProductionOutputConsumption{}).
		Where("production_output_id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Model(&model.ProductionOutput{}).
				Select("id").Where("production_record_id = ?", recordID)).
		Count(&count).Error
	return count, err
}

func (r *recordRepo) ReparentChildrenTx(tx *gorm.DB, parentID uuid.UUID) error {
	return tx.Model(&model.ProductionRecord{}).
		Where("parent_record_id = ?", parentID).
		Update("parent_record_id", nil).Error
}

func (r *recordRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.ProductionRecord{}, id).Error
}

func (r *recordRepo) DB(ctx context.Context) (*gorm.DB, error) { return r.dbs.DB(ctx) }

package repository

import (
	"context"
	"errors"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/tenant"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OutputRepository is the data access contract for outputs, their consumption
// edges and their provenance sources.
type OutputRepository interface {
	CreateTx(tx *gorm.DB, out *model.ProductionOutput) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductionOutput, error)
	ListByRecord(ctx context.Context, recordID uuid.UUID) ([]model.ProductionOutput, error)
	ListByProduction(ctx context.Context, productionID uuid.UUID) ([]model.ProductionOutput, error)

	// FindForUpdateTx locks the output row (SELECT … FOR UPDATE) so that two
	// concurrent consumptions cannot double-spend the remaining weight.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.ProductionOutput, error)
	// SumConsumedTx sums consumed_weight_kg over the output's consumption rows,
	// optionally excluding one row (for updates). Must run inside the same tx
	// that holds the output lock.
	SumConsumedTx(tx *gorm.DB, outputID uuid.UUID, exclude *uuid.UUID) (decimal.Decimal, error)
	SumConsumed(ctx context.Context, outputID uuid.UUID) (decimal.Decimal, error)

	CreateConsumptionTx(tx *gorm.DB, c *model.ProductionOutputConsumption) error
	SaveConsumptionTx(tx *gorm.DB, c *model.ProductionOutputConsumption) error
	FindConsumptionByID(ctx context.Context, id uuid.UUID) (*model.ProductionOutputConsumption, error)
	ConsumptionPairExists(ctx context.Context, recordID, outputID uuid.UUID) (bool, error)
	ListConsumptionsByRecord(ctx context.Context, recordID uuid.UUID) ([]model.ProductionOutputConsumption, error)

	CreateSourceTx(tx *gorm.DB, s *model.ProductionOutputSource) error
	ListSourcesByOutput(ctx context.Context, outputID uuid.UUID) ([]model.ProductionOutputSource, error)

	DB(ctx context.Context) (*gorm.DB, error)
}

type outputRepo struct{ dbs *tenant.Registry }

func NewOutputRepository(dbs *tenant.Registry) OutputRepository {
	return &outputRepo{dbs: dbs}
}

func (r *outputRepo) CreateTx(tx *gorm.DB, out *model.ProductionOutput) error {
	return tx.Create(out).Error
}

func (r *outputRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductionOutput, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var out model.ProductionOutput
	err = db.Preload("Product").First(&out, id).Error
	return &out, err
}

func (r *outputRepo) ListByRecord(ctx context.Context, recordID uuid.UUID) ([]model.ProductionOutput, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var outputs []model.ProductionOutput
	err = db.Preload("Product").Where("production_record_id = ?", recordID).
		Order("created_at ASC").Find(&outputs).Error
	return outputs, err
}

func (r *outputRepo) ListByProduction(ctx context.Context, productionID uuid.UUID) ([]model.ProductionOutput, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var outputs []model.ProductionOutput
	err = db.Preload("Product").
		Joins("JOIN production_records ON production_records.id = production_outputs.production_record_id").
		Where("production_records.production_id = ?", productionID).
		Order("production_outputs.created_at ASC").
		Find(&outputs).Error
	return outputs, err
}

func (r *outputRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.ProductionOutput, error) {
	var out model.ProductionOutput
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&out, id).Error
	return &out, err
}

func (r *outputRepo) SumConsumedTx(tx *gorm.DB, outputID uuid.UUID, exclude *uuid.UUID) (decimal.Decimal, error) {
	q := tx.Model(&model.ProductionOutputConsumption{}).
		Where("production_output_id = ?", outputID)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}
	var sum decimal.NullDecimal
	if err := q.Select("SUM(consumed_weight_kg)").Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

func (r *outputRepo) SumConsumed(ctx context.Context, outputID uuid.UUID) (decimal.Decimal, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return r.SumConsumedTx(db, outputID, nil)
}

func (r *outputRepo) CreateConsumptionTx(tx *gorm.DB, c *model.ProductionOutputConsumption) error {
	return tx.Create(c).Error
}

func (r *outputRepo) SaveConsumptionTx(tx *gorm.DB, c *model.ProductionOutputConsumption) error {
	return tx.Save(c).Error
}

func (r *outputRepo) FindConsumptionByID(ctx context.Context, id uuid.UUID) (*model.ProductionOutputConsumption, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var c model.ProductionOutputConsumption
	err = db.First(&c, id).Error
	return &c, err
}

func (r *outputRepo) ConsumptionPairExists(ctx context.Context, recordID, outputID uuid.UUID) (bool, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return false, err
	}
	err = db.Where("production_record_id = ? AND production_output_id = ?", recordID, outputID).
		First(&model.ProductionOutputConsumption{}).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *outputRepo) ListConsumptionsByRecord(ctx context.Context, recordID uuid.UUID) ([]model.ProductionOutputConsumption, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var consumptions []model.ProductionOutputConsumption
	err = db.Where("production_record_id = ?", recordID).
		Order("created_at ASC").Find(&consumptions).Error
	return consumptions, err
}

func (r *outputRepo) CreateSourceTx(tx *gorm.DB, s *model.ProductionOutputSource) error {
	return tx.Create(s).Error
}

func (r *outputRepo) ListSourcesByOutput(ctx context.Context, outputID uuid.UUID) ([]model.ProductionOutputSource, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var sources []model.ProductionOutputSource
	err = db.Where("production_output_id = ?", outputID).
		Order("created_at ASC").Find(&sources).Error
	return sources, err
}

func (r *outputRepo) DB(ctx context.Context) (*gorm.DB, error) { return r.dbs.DB(ctx) }

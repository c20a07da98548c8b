package repository

import (
	"context"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CostRepository is the data access contract for the cost catalog and for
// costs attached to records or productions.
type CostRepository interface {
	CreateCatalog(ctx context.Context, c *model.CostCatalog) error
	FindCatalogByID(ctx context.Context, id uuid.UUID) (*model.CostCatalog, error)
	ListCatalog(ctx context.Context) ([]model.CostCatalog, error)
	UpdateCatalog(ctx context.Context, c *model.CostCatalog) error

	CreateCost(ctx context.Context, c *model.ProductionCost) error
	FindCostByID(ctx context.Context, id uuid.UUID) (*model.ProductionCost, error)
	// ListCostsForProduction returns production-level costs plus the costs of
	// every record in the production's forest.
	ListCostsForProduction(ctx context.Context, productionID uuid.UUID) ([]model.ProductionCost, error)
	ListCostsByRecord(ctx context.Context, recordID uuid.UUID) ([]model.ProductionCost, error)
	DeleteCost(ctx context.Context, id uuid.UUID) error

	DB(ctx context.Context) (*gorm.DB, error)
}

type costRepo struct{ dbs *tenant.Registry }

func NewCostRepository(dbs *tenant.Registry) CostRepository {
	return &costRepo{dbs: dbs}
}

func (r *costRepo) CreateCatalog(ctx context.Context, c *model.CostCatalog) error {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return err
	}
	return db.Create(c).Error
}

func (r *costRepo) FindCatalogByID(ctx context.Context, id uuid.UUID) (*model.CostCatalog, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var c model.CostCatalog
	err = db.First(&c, id).Error
	return &c, err
}

func (r *costRepo) ListCatalog(ctx context.Context) ([]model.CostCatalog, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var entries []model.CostCatalog
	err = db.Where("is_active = true").Order("name ASC").Find(&entries).Error
	return entries, err
}

func (r *costRepo) UpdateCatalog(ctx context.Context, c *model.CostCatalog) error {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return err
	}
	return db.Save(c).Error
}

func (r *costRepo) CreateCost(ctx context.Context, c *model.ProductionCost) error {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return err
	}
	return db.Create(c).Error
}

func (r *costRepo) FindCostByID(ctx context.Context, id uuid.UUID) (*model.ProductionCost, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var c model.ProductionCost
	err = db.First(&c, id).Error
	return &c, err
}

func (r *costRepo) ListCostsForProduction(ctx context.Context, productionID uuid.UUID) ([]model.ProductionCost, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var costs []model.ProductionCost
	err = db.Where("production_id = ?", productionID).
		Or("production_record_id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Model(&model.ProductionRecord{}).
				Select("id").Where("production_id = ?", productionID)).
		Order("cost_date ASC").Find(&costs).Error
	return costs, err
}

func (r *costRepo) ListCostsByRecord(ctx context.Context, recordID uuid.UUID) ([]model.ProductionCost, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var costs []model.ProductionCost
	err = db.Where("production_record_id = ?", recordID).Order("cost_date ASC").Find(&costs).Error
	return costs, err
}

func (r *costRepo) DeleteCost(ctx context.Context, id uuid.UUID) error {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return err
	}
	return db.Delete(&model.ProductionCost{}, id).Error
}

func (r *costRepo) DB(ctx context.Context) (*gorm.DB, error) { return r.dbs.DB(ctx) }

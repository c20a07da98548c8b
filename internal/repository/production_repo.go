package repository

import (
	"context"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/dto"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductionRepository defines the data access contract for production lots.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type ProductionRepository interface {
	Create(ctx context.Context, p *model.Production) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Production, error)
	List(ctx context.Context, filter dto.ProductionFilter) ([]model.Production, int64, error)
	Update(ctx context.Context, p *model.Production) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DB resolves the tenant database so services can open transactions.
	DB(ctx context.Context) (*gorm.DB, error)
}

type productionRepo struct{ dbs *tenant.Registry }

func NewProductionRepository(dbs *tenant.Registry) ProductionRepository {
	return &productionRepo{dbs: dbs}
}

func (r *productionRepo) Create(ctx context.Context, p *model.Production) error {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return err
	}
	return db.Create(p).Error
}

func (r *productionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Production, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var p model.Production
	err = db.Preload("Species").Preload("CaptureZone").First(&p, id).Error
	return &p, err
}

func (r *productionRepo) List(ctx context.Context, filter dto.ProductionFilter) ([]model.Production, int64, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, 0, err
	}

	q := db.Model(&model.Production{})

	switch filter.Status {
	case "closed":
		q = q.Where("closed_at IS NOT NULL")
	case "all":
		// no filter
	default:
		q = q.Where("closed_at IS NULL")
	}
	if filter.SpeciesID != "" {
		q = q.Where("species_id = ?", filter.SpeciesID)
	}
	if filter.Lot != "" {
		q = q.Where("lot_label ILIKE ?", "%"+filter.Lot+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var productions []model.Production
	offset := (filter.Page - 1) * filter.Limit
	err = q.Preload("Species").Preload("CaptureZone").
		Order("opened_at DESC").Limit(filter.Limit).Offset(offset).Find(&productions).Error
	return productions, total, err
}

func (r *productionRepo) Update(ctx context.Context, p *model.Production) error {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return err
	}
	return db.Save(p).Error
}

func (r *productionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return err
	}
	return db.Delete(&model.Production{}, id).Error
}

func (r *productionRepo) DB(ctx context.Context) (*gorm.DB, error) { return r.dbs.DB(ctx) }

package repository

import (
	"context"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/dto"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BoxRepository is the data access contract for the inventory reference data
// (pallets and stock boxes) that the production core consumes.
type BoxRepository interface {
	CreateBox(ctx context.Context, b *model.Box) error
	FindBoxByID(ctx context.Context, id uuid.UUID) (*model.Box, error)
	ListBoxes(ctx context.Context, filter dto.BoxFilter) ([]model.Box, int64, error)

	CreatePallet(ctx context.Context, p *model.Pallet) error
	ListPallets(ctx context.Context) ([]model.Pallet, error)

	DB(ctx context.Context) (*gorm.DB, error)
}

type boxRepo struct{ dbs *tenant.Registry }

func NewBoxRepository(dbs *tenant.Registry) BoxRepository {
	return &boxRepo{dbs: dbs}
}

func (r *boxRepo) CreateBox(ctx context.Context, b *model.Box) error {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return err
	}
	return db.Create(b).Error
}

func (r *boxRepo) FindBoxByID(ctx context.Context, id uuid.UUID) (*model.Box, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var b model.Box
	err = db.Preload("Product").First(&b, id).Error
	return &b, err
}

func (r *boxRepo) ListBoxes(ctx context.Context, filter dto.BoxFilter) ([]model.Box, int64, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, 0, err
	}

	q := db.Model(&model.Box{})
	if filter.LotCode != "" {
		q = q.Where("lot_code = ?", filter.LotCode)
	}
	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var boxes []model.Box
	offset := (filter.Page - 1) * filter.Limit
	err = q.Preload("Product").Order("created_at DESC").
		Limit(filter.Limit).Offset(offset).Find(&boxes).Error
	return boxes, total, err
}

func (r *boxRepo) CreatePallet(ctx context.Context, p *model.Pallet) error {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return err
	}
	return db.Create(p).Error
}

func (r *boxRepo) ListPallets(ctx context.Context) ([]model.Pallet, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var pallets []model.Pallet
	err = db.Preload("Boxes").Order("code ASC").Find(&pallets).Error
	return pallets, err
}

func (r *boxRepo) DB(ctx context.Context) (*gorm.DB, error) { return r.dbs.DB(ctx) }

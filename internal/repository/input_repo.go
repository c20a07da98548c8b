package repository

import (
	"context"
	"errors"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InputRepository is the data access contract for raw-material intake edges.
type InputRepository interface {
	CreateTx(tx *gorm.DB, in *model.ProductionInput) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductionInput, error)
	ListByRecord(ctx context.Context, recordID uuid.UUID) ([]model.ProductionInput, error)

	// PairExists reports whether the (record, box) pair is already registered.
	PairExists(ctx context.Context, recordID, boxID uuid.UUID) (bool, error)
	// BoxInUse reports whether the box is an input anywhere in the forest
	// (single-use policy).
	BoxInUse(ctx context.Context, boxID uuid.UUID) (bool, error)

	DB(ctx context.Context) (*gorm.DB, error)
}

type inputRepo struct{ dbs *tenant.Registry }

func NewInputRepository(dbs *tenant.Registry) InputRepository {
	return &inputRepo{dbs: dbs}
}

func (r *inputRepo) CreateTx(tx *gorm.DB, in *model.ProductionInput) error {
	return tx.Create(in).Error
}

func (r *inputRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductionInput, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var in model.ProductionInput
	err = db.Preload("Box").First(&in, id).Error
	return &in, err
}

func (r *inputRepo) ListByRecord(ctx context.Context, recordID uuid.UUID) ([]model.ProductionInput, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var inputs []model.ProductionInput
	err = db.Preload("Box").Where("production_record_id = ?", recordID).
		Order("created_at ASC").Find(&inputs).Error
	return inputs, err
}

func (r *inputRepo) PairExists(ctx context.Context, recordID, boxID uuid.UUID) (bool, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return false, err
	}
	err = db.Where("production_record_id = ? AND box_id = ?", recordID, boxID).
		First(&model.ProductionInput{}).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *inputRepo) BoxInUse(ctx context.Context, boxID uuid.UUID) (bool, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return false, err
	}
	err = db.Where("box_id = ?", boxID).First(&model.ProductionInput{}).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *inputRepo) DB(ctx context.Context) (*gorm.DB, error) { return r.dbs.DB(ctx) }

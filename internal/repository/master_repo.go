package repository

import (
	"context"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MasterRepository is the data access contract for the master catalogs the
// production core references: species, capture zones, processes, products.
type MasterRepository interface {
	CreateSpecies(ctx context.Context, s *model.Species) error
	FindSpeciesByID(ctx context.Context, id uuid.UUID) (*model.Species, error)
	ListSpecies(ctx context.Context) ([]model.Species, error)

	CreateCaptureZone(ctx context.Context, z *model.CaptureZone) error
	FindCaptureZoneByID(ctx context.Context, id uuid.UUID) (*model.CaptureZone, error)
	ListCaptureZones(ctx context.Context) ([]model.CaptureZone, error)

	CreateProcess(ctx context.Context, p *model.Process) error
	FindProcessByID(ctx context.Context, id uuid.UUID) (*model.Process, error)
	ListProcesses(ctx context.Context) ([]model.Process, error)

	CreateProduct(ctx context.Context, p *model.Product) error
	FindProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)

	DB(ctx context.Context) (*gorm.DB, error)
}

type masterRepo struct{ dbs *tenant.Registry }

func NewMasterRepository(dbs *tenant.Registry) MasterRepository {
	return &masterRepo{dbs: dbs}
}

func (r *masterRepo) CreateSpecies(ctx context.Context, s *model.Species) error {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return err
	}
	return db.Create(s).Error
}

func (r *masterRepo) FindSpeciesByID(ctx context.Context, id uuid.UUID) (*model.Species, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var s model.Species
	err = db.First(&s, id).Error
	return &s, err
}

func (r *masterRepo) ListSpecies(ctx context.Context) ([]model.Species, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var species []model.Species
	err = db.Where("active = true").Order("name ASC").Find(&species).Error
	return species, err
}

func (r *masterRepo) CreateCaptureZone(ctx context.Context, z *model.CaptureZone) error {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return err
	}
	return db.Create(z).Error
}

func (r *masterRepo) FindCaptureZoneByID(ctx context.Context, id uuid.UUID) (*model.CaptureZone, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var z model.CaptureZone
	err = db.First(&z, id).Error
	return &z, err
}

func (r *masterRepo) ListCaptureZones(ctx context.Context) ([]model.CaptureZone, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var zones []model.CaptureZone
	err = db.Where("active = true").Order("code ASC").Find(&zones).Error
	return zones, err
}

func (r *masterRepo) CreateProcess(ctx context.Context, p *model.Process) error {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return err
	}
	return db.Create(p).Error
}

func (r *masterRepo) FindProcessByID(ctx context.Context, id uuid.UUID) (*model.Process, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var p model.Process
	err = db.First(&p, id).Error
	return &p, err
}

func (r *masterRepo) ListProcesses(ctx context.Context) ([]model.Process, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var processes []model.Process
	err = db.Where("active = true").Order("name ASC").Find(&processes).Error
	return processes, err
}

func (r *masterRepo) CreateProduct(ctx context.Context, p *model.Product) error {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return err
	}
	return db.Create(p).Error
}

func (r *masterRepo) FindProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var p model.Product
	err = db.First(&p, id).Error
	return &p, err
}

func (r *masterRepo) ListProducts(ctx context.Context) ([]model.Product, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var products []model.Product
	err = db.Where("active = true").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *masterRepo) DB(ctx context.Context) (*gorm.DB, error) { return r.dbs.DB(ctx) }

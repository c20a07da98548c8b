package repository

import (
	"context"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository is the data access contract for system users.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Deactivate(ctx context.Context, id uuid.UUID) error

	DB(ctx context.Context) (*gorm.DB, error)
}

type userRepo struct{ dbs *tenant.Registry }

func NewUserRepository(dbs *tenant.Registry) UserRepository {
	return &userRepo{dbs: dbs}
}

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return err
	}
	return db.Create(u).Error
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var u model.User
	err = db.First(&u, id).Error
	return &u, err
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var u model.User
	err = db.Where("username = ? AND active = true", username).First(&u).Error
	return &u, err
}

func (r *userRepo) List(ctx context.Context) ([]model.User, error) {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var users []model.User
	err = db.Order("username ASC").Find(&users).Error
	return users, err
}

func (r *userRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	db, err := r.dbs.DB(ctx)
	if err != nil {
		return err
	}
	return db.Model(&model.User{}).Where("id = ?", id).Update("active", false).Error
}

func (r *userRepo) DB(ctx context.Context) (*gorm.DB, error) { return r.dbs.DB(ctx) }

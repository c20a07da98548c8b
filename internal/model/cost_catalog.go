package model

import (
	"time"

	"github.com/google/uuid"
)

// Cost types shared by CostCatalog and ProductionCost.
const (
	CostTypeProduction  = "production"
	CostTypeLabor       = "labor"
	CostTypeOperational = "operational"
	CostTypePackaging   = "packaging"
)

// Distribution units.
const (
	CostUnitTotal = "total"
	CostUnitPerKg = "per_kg"
)

// CostCatalog is a named, reusable cost entry (e.g. "Ice", "Night shift",
// "Vacuum bags") with a default distribution unit.
type CostCatalog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"uniqueIndex;not null"`
	CostType    string    `gorm:"type:varchar(20);not null"`
	DefaultUnit string    `gorm:"type:varchar(10);not null;default:'total'"`
	IsActive    bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides GORM's default pluralization (cost_catalogs → cost_catalog).
func (CostCatalog) TableName() string { return "cost_catalog" }

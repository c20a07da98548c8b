package infra

import (
	"fmt"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs AutoMigrate.
// Migration order follows FK dependencies: masters first, then the production
// tree, then edges and costs. The ON DELETE behaviors (CASCADE / RESTRICT /
// SET NULL) are declared as constraint tags on the models — they are the only
// DB-enforced invariants, so AutoMigrate must create them exactly.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return db, nil
}

// OpenTenants opens one connection per tenant DSN.
func OpenTenants(dsns map[string]string) (map[string]*gorm.DB, error) {
	conns := make(map[string]*gorm.DB, len(dsns))
	for key, dsn := range dsns {
		db, err := NewDatabase(dsn)
		if err != nil {
			return nil, fmt.Errorf("tenant %q: %w", key, err)
		}
		conns[key] = db
	}
	return conns, nil
}

// RunMigrations applies the schema. Also used by integration tests.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Species{},
		&model.CaptureZone{},
		&model.Process{},
		&model.Product{},
		&model.Pallet{},
		&model.Box{},
		&model.User{},
		&model.Production{},
		&model.ProductionRecord{},
		&model.ProductionInput{},
		&model.ProductionOutput{},
		&model.ProductionOutputConsumption{},
		&model.ProductionOutputSource{},
		&model.CostCatalog{},
		&model.ProductionCost{},
		&model.AllocationReport{},
	)
}

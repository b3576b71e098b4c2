package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/slot-booking/internal/config"
	"github.com/BruksfildServices01/slot-booking/internal/models"
)

// constraints back the no-overlap rule for non-canceled slots of a tenant.
var constraints = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_interval
		ON bookings (tenant_id, start_at, end_at)
		WHERE status <> 'canceled'`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap') THEN
			ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
				EXCLUDE USING gist (tenant_id WITH =, tstzrange(start_at, end_at, '[)') WITH &&)
				WHERE (status <> 'canceled');
		END IF;
	END $$`,
}

func NewDB(cfg *config.Config, logger *zap.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get sql.DB", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Slot{},
		&models.Order{},
		&models.AuditLog{},
	); err != nil {
		logger.Fatal("failed to migrate", zap.Error(err))
	}

	for _, stmt := range constraints {
		if err := db.Exec(stmt).Error; err != nil {
			logger.Fatal("failed to apply constraint", zap.Error(err))
		}
	}

	return db
}

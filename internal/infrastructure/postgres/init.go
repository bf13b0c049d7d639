package postgres

import (
	"log"

	"github.com/LavaJover/shvark-vip-service/internal/config"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/migrate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func MustInitDB(cfg *config.VipConfig) *gorm.DB {
	dsn := cfg.PaymentDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	// Schema, including the partial unique index on pending payments,
	// is owned by the SQL migrations.
	if err := migrate.RunMigrations(db, cfg.PaymentDB.MigrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v\n", err)
	}

	return db
}

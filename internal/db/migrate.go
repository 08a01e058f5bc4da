package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nityamhjn05/feedback-systems/internal/models"
)

// Migrate brings the schema in line with the model structs, including the
// unique indexes the engine relies on for idempotent upserts. The gorm handle
// is only held for the duration of the migration; the request path runs on the
// pgx pool.
func Migrate(databaseURL string) error {
	gormDB, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("open gorm db: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("get gorm sql db: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	if err := gormDB.AutoMigrate(
		&models.Employee{},
		&models.Form{},
		&models.Assignment{},
		&models.Response{},
		&models.PasswordReset{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return nil
}

package db

import (
	"fmt"

	"carclub/paddock/internal/logging"
	models "carclub/paddock/internal/models/gorm"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// GormConfig is shared by every GORM connection. TranslateError turns
// unique-index violations into gorm.ErrDuplicatedKey on every dialect.
func GormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// InitPostgresORM opens the transactional store and migrates the schema.
func InitPostgresORM(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), GormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logging.Info("Connected to Postgres via GORM")
	return db, nil
}

// Migrate creates or updates every table the core owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

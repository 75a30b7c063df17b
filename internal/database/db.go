package database

import (
	"github.com/gatherhq/gatherspace/internal/config"
	"github.com/gatherhq/gatherspace/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the postgres connection. The handle is returned rather than
// stored globally; every component receives it at construction.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		// Map dialect duplicate/foreign-key failures onto gorm's error
		// taxonomy so handlers can branch on them.
		TranslateError: true,
	})
}

// Migrate creates or updates the schema for all entity kinds.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

package utils

import (
	"fmt"
	"tcmprep/backend/config"
	"tcmprep/backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB connects to Postgres and migrates the schema
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate runs the schema migration, shared with tests
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.LoginHistory{},
		&models.Question{},
		&models.WrongQuestion{},
		&models.ReviewEntry{},
	)
}

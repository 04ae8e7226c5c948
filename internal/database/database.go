package database

import (
	"context"
	"fmt"

	"character-merge-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// DefaultAgeRanges is the lookup table the merge operation classifies against.
var DefaultAgeRanges = []models.AgeRange{
	{ID: "ajsdnkasd323", RangeName: "Bebé", MinAge: 0, MaxAge: 1},
	{ID: "kamdasd", RangeName: "Niño/a", MinAge: 2, MaxAge: 12},
	{ID: "lmas8du193en", RangeName: "Adolescente", MinAge: 13, MaxAge: 17},
	{ID: "mkamskdm92", RangeName: "Adulto", MinAge: 18, MaxAge: 64},
	{ID: "ñlaskdasd55238", RangeName: "Anciano", MinAge: 65, MaxAge: 999},
}

// InitDB opens the SQLite database file (created if missing) and runs migrations.
// Using glebarez/sqlite which is a pure Go implementation (no CGO required)
func InitDB(path string, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Character{},
		&models.AgeRange{},
		&models.MergedRecord{},
		&models.CacheEntry{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// SeedAgeRanges inserts the default age ranges, leaving existing rows untouched.
// It returns the number of rows inserted.
func SeedAgeRanges(ctx context.Context, db *gorm.DB) (int64, error) {
	ranges := make([]models.AgeRange, len(DefaultAgeRanges))
	copy(ranges, DefaultAgeRanges)

	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&ranges)
	if result.Error != nil {
		return 0, fmt.Errorf("seed age ranges: %w", result.Error)
	}
	return result.RowsAffected, nil
}

package repository

import (
	"context"
	"errors"

	"character-merge-api/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Characters persists stored characters keyed by name.
type Characters struct {
	db *gorm.DB
}

func NewCharacters(db *gorm.DB) *Characters {
	return &Characters{db: db}
}

// FindByName returns the character with the exact name or ErrNotFound.
func (r *Characters) FindByName(ctx context.Context, name string) (models.Character, error) {
	var c models.Character
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&c).Error; err != nil {
		return models.Character{}, translate(err)
	}
	return c, nil
}

// Save creates or replaces the character.
func (r *Characters) Save(ctx context.Context, c *models.Character) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// AgeRanges reads the age range lookup table.
type AgeRanges struct {
	db *gorm.DB
}

func NewAgeRanges(db *gorm.DB) *AgeRanges {
	return &AgeRanges{db: db}
}

// All returns every age range in table order.
func (r *AgeRanges) All(ctx context.Context) ([]models.AgeRange, error) {
	var ranges []models.AgeRange
	if err := r.db.WithContext(ctx).Find(&ranges).Error; err != nil {
		return nil, err
	}
	return ranges, nil
}

// MergedRecords persists merge results.
type MergedRecords struct {
	db *gorm.DB
}

func NewMergedRecords(db *gorm.DB) *MergedRecords {
	return &MergedRecords{db: db}
}

// FindByName returns the merged record for a character name or ErrNotFound.
func (r *MergedRecords) FindByName(ctx context.Context, name string) (models.MergedRecord, error) {
	var rec models.MergedRecord
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&rec).Error; err != nil {
		return models.MergedRecord{}, translate(err)
	}
	return rec, nil
}

// Save creates or replaces the merged record by ID.
func (r *MergedRecords) Save(ctx context.Context, rec *models.MergedRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

// AllMergedRecords scans the whole table. No ORDER BY is applied, so the
// result follows whatever order the database returns.
func (r *MergedRecords) AllMergedRecords(ctx context.Context) ([]models.MergedRecord, error) {
	var recs []models.MergedRecord
	if err := r.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

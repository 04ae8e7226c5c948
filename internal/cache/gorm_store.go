package cache

import (
	"context"
	"errors"

	"character-merge-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps cache entries in the cache_entries table of a relational database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an already migrated database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	var row models.CacheEntry
	err := s.db.WithContext(ctx).Where("cache_key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, storeErr("get", key, err)
	}
	return fromRow(row), true, nil
}

func (s *GormStore) Put(ctx context.Context, e Entry) error {
	row := models.CacheEntry{CacheKey: e.Key, Data: e.Payload, TTL: e.ExpiresAt}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cache_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "ttl"}),
		}).
		Create(&row).Error
	if err != nil {
		return storeErr("put", e.Key, err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Where("cache_key = ?", key).Delete(&models.CacheEntry{}).Error
	if err != nil {
		return storeErr("delete", key, err)
	}
	return nil
}

func (s *GormStore) ScanAll(ctx context.Context) ([]Entry, error) {
	var rows []models.CacheEntry
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, storeErr("scan", "", err)
	}
	out := make([]Entry, len(rows))
	for i, row := range rows {
		out[i] = fromRow(row)
	}
	return out, nil
}

func fromRow(row models.CacheEntry) Entry {
	return Entry{Key: row.CacheKey, Payload: row.Data, ExpiresAt: row.TTL}
}

var _ Store = (*GormStore)(nil)

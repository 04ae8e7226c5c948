package models

// CacheEntry is the persisted row behind the relational cache store.
// TTL holds the expiry as seconds since epoch.
type CacheEntry struct {
	CacheKey string `gorm:"column:cache_key;primaryKey"`
	Data     []byte `gorm:"column:data"`
	TTL      int64  `gorm:"column:ttl;index"`
}

// TableName specifies the table name for CacheEntry Model
func (CacheEntry) TableName() string {
	return "cache_entries"
}

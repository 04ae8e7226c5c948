package database

import (
	"context"
	"path/filepath"
	"testing"

	"character-merge-api/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestInitDB_SeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := InitDB(filepath.Join(t.TempDir(), "test.db"), logger.Silent)
	require.NoError(t, err)

	inserted, err := SeedAgeRanges(ctx, db)
	require.NoError(t, err)
	require.Equal(t, int64(len(DefaultAgeRanges)), inserted)

	inserted, err = SeedAgeRanges(ctx, db)
	require.NoError(t, err)
	require.Zero(t, inserted)

	var count int64
	require.NoError(t, db.Model(&models.AgeRange{}).Count(&count).Error)
	require.Equal(t, int64(len(DefaultAgeRanges)), count)
}

func TestDefaultAgeRanges_CoverContiguousAges(t *testing.T) {
	for i := 1; i < len(DefaultAgeRanges); i++ {
		require.Equal(t, DefaultAgeRanges[i-1].MaxAge+1, DefaultAgeRanges[i].MinAge)
	}
}

package merge

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"character-merge-api/internal/database"
	"character-merge-api/internal/models"
	"character-merge-api/internal/repository"
	"character-merge-api/internal/testutil"
	"character-merge-api/internal/validation"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) InvalidateAll(context.Context) int {
	c.calls++
	return 3
}

type recordingPublisher struct{ data []map[string]any }

func (p *recordingPublisher) Publish(_ string, data map[string]any) {
	p.data = append(p.data, data)
}

func newTestService(t *testing.T, seed bool) (*Service, *gorm.DB, *countingInvalidator, *recordingPublisher) {
	t.Helper()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	if seed {
		_, err = database.SeedAgeRanges(context.Background(), db)
		require.NoError(t, err)
	}
	inv := &countingInvalidator{}
	pub := &recordingPublisher{}
	svc := NewService(
		repository.NewCharacters(db),
		repository.NewAgeRanges(db),
		repository.NewMergedRecords(db),
		inv, pub, nil,
	)
	return svc, db, inv, pub
}

func storeCharacter(t *testing.T, db *gorm.DB, name string, age int) {
	t.Helper()
	c := models.Character{Name: name, ID: "id-" + name, Age: age, Attribute: "fuerza"}
	require.NoError(t, repository.NewCharacters(db).Save(context.Background(), &c))
}

func TestFindRange_Boundaries(t *testing.T) {
	cases := map[int]string{
		0: "Bebé", 1: "Bebé", 2: "Niño/a", 12: "Niño/a", 13: "Adolescente",
		17: "Adolescente", 18: "Adulto", 64: "Adulto", 65: "Anciano", 999: "Anciano",
	}
	for age, want := range cases {
		r, ok := FindRange(age, database.DefaultAgeRanges)
		require.True(t, ok, "age %d", age)
		require.Equal(t, want, r.RangeName, "age %d", age)
	}

	_, ok := FindRange(1000, database.DefaultAgeRanges)
	require.False(t, ok)
}

func TestValidateName(t *testing.T) {
	name, err := ValidateName("  Goku ")
	require.NoError(t, err)
	require.Equal(t, "Goku", name)

	for _, bad := range []string{"", "   ", strings.Repeat("a", MaxNameLength+1)} {
		_, err := ValidateName(bad)
		var ve *validation.Error
		require.True(t, errors.As(err, &ve), "%q", bad)
	}
}

func TestMerge_CreateThenUpdate(t *testing.T) {
	ctx := context.Background()
	svc, db, inv, pub := newTestService(t, true)
	storeCharacter(t, db, "Goku", 30)

	res, err := svc.Merge(ctx, "Goku")
	require.NoError(t, err)
	require.True(t, res.Created)
	require.Equal(t, "Adulto", res.Record.RangeName)
	require.Equal(t, 30, res.Record.Age)
	require.Equal(t, "fuerza", res.Record.Attribute)

	storeCharacter(t, db, "Goku", 70)
	svc.now = func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }

	res2, err := svc.Merge(ctx, " Goku ")
	require.NoError(t, err)
	require.False(t, res2.Created)
	require.Equal(t, res.Record.ID, res2.Record.ID)
	require.Equal(t, "Anciano", res2.Record.RangeName)
	require.Equal(t, 2030, res2.Record.MergedAt.Year())

	all, err := repository.NewMergedRecords(db).AllMergedRecords(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.Equal(t, 2, inv.calls)
	require.Len(t, pub.data, 2)
	require.Equal(t, 3, pub.data[1]["invalidated"])
	require.Equal(t, false, pub.data[1]["created"])
}

func TestMerge_Errors(t *testing.T) {
	ctx := context.Background()

	svc, _, inv, _ := newTestService(t, true)
	_, err := svc.Merge(ctx, "Nobody")
	require.ErrorIs(t, err, ErrCharacterNotFound)

	_, err = svc.Merge(ctx, "")
	var ve *validation.Error
	require.True(t, errors.As(err, &ve))

	svc, db, _, _ := newTestService(t, false)
	storeCharacter(t, db, "Goku", 30)
	_, err = svc.Merge(ctx, "Goku")
	require.ErrorIs(t, err, ErrNoAgeRanges)

	svc, db, _, _ = newTestService(t, true)
	storeCharacter(t, db, "Highlander", 5000)
	_, err = svc.Merge(ctx, "Highlander")
	require.ErrorIs(t, err, ErrNoMatchingRange)

	require.Zero(t, inv.calls)
}

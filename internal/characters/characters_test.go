package characters

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"character-merge-api/internal/models"
	"character-merge-api/internal/repository"
	"character-merge-api/internal/testutil"
	"character-merge-api/internal/validation"

	"github.com/stretchr/testify/require"
)

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) InvalidateAll(context.Context) int {
	c.calls++
	return 0
}

type recordingPublisher struct{ events []string }

func (p *recordingPublisher) Publish(eventType string, _ map[string]any) {
	p.events = append(p.events, eventType)
}

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestValidate_OK(t *testing.T) {
	in, err := Validate(decode(t, `{"nombre":"  Goku ","edad":30,"atributo":"fuerza"}`))
	require.NoError(t, err)
	require.Equal(t, Input{Name: "Goku", Age: 30, Attribute: "fuerza"}, in)
}

func TestValidate_ReportsEveryField(t *testing.T) {
	_, err := Validate(decode(t, `{"nombre":"","edad":"old","atributo":"   "}`))

	var ve *validation.Error
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Details, 3)
}

func TestValidate_Rules(t *testing.T) {
	long := strings.Repeat("x", MaxFieldLength+1)
	cases := map[string]string{
		"not an object":   `[1,2]`,
		"missing edad":    `{"nombre":"a","atributo":"b"}`,
		"zero edad":       `{"nombre":"a","edad":0,"atributo":"b"}`,
		"negative edad":   `{"nombre":"a","edad":-4,"atributo":"b"}`,
		"fractional edad": `{"nombre":"a","edad":2.5,"atributo":"b"}`,
		"long nombre":     `{"nombre":"` + long + `","edad":3,"atributo":"b"}`,
		"long atributo":   `{"nombre":"a","edad":3,"atributo":"` + long + `"}`,
		"numeric nombre":  `{"nombre":5,"edad":3,"atributo":"b"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Validate(decode(t, body))
			var ve *validation.Error
			require.True(t, errors.As(err, &ve))
		})
	}
}

func TestStore_CreateThenUpdate(t *testing.T) {
	ctx := context.Background()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	inv := &countingInvalidator{}
	pub := &recordingPublisher{}
	svc := NewService(repository.NewCharacters(db), inv, pub, nil)
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return created }

	c, updated, err := svc.Store(ctx, Input{Name: "Goku", Age: 30, Attribute: "fuerza"})
	require.NoError(t, err)
	require.False(t, updated)
	require.NotEmpty(t, c.ID)

	svc.now = func() time.Time { return created.Add(time.Hour) }
	c2, updated, err := svc.Store(ctx, Input{Name: "Goku", Age: 31, Attribute: "velocidad"})
	require.NoError(t, err)
	require.True(t, updated)
	require.Equal(t, c.ID, c2.ID)
	require.True(t, c2.CreatedAt.Equal(created))

	stored, err := repository.NewCharacters(db).FindByName(ctx, "Goku")
	require.NoError(t, err)
	require.Equal(t, 31, stored.Age)
	require.Equal(t, "velocidad", stored.Attribute)

	require.Equal(t, 2, inv.calls)
	require.Equal(t, []string{"character_stored", "character_stored"}, pub.events)
}

type failingRepo struct{ findErr, saveErr error }

func (r failingRepo) FindByName(context.Context, string) (models.Character, error) {
	return models.Character{}, r.findErr
}

func (r failingRepo) Save(context.Context, *models.Character) error { return r.saveErr }

func TestStore_FailedWriteDoesNotInvalidate(t *testing.T) {
	inv := &countingInvalidator{}
	svc := NewService(failingRepo{findErr: repository.ErrNotFound, saveErr: errors.New("disk full")}, inv, nil, nil)

	_, _, err := svc.Store(context.Background(), Input{Name: "Goku", Age: 1, Attribute: "x"})
	require.Error(t, err)
	require.Zero(t, inv.calls)

	svc = NewService(failingRepo{findErr: errors.New("locked")}, inv, nil, nil)
	_, _, err = svc.Store(context.Background(), Input{Name: "Goku", Age: 1, Attribute: "x"})
	require.Error(t, err)
	require.Zero(t, inv.calls)
}

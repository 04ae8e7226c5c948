// Package merge combines a stored character with its age range into a merged
// record, the data behind the history listing.
package merge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"character-merge-api/internal/models"
	"character-merge-api/internal/repository"
	"character-merge-api/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxNameLength caps the name parameter.
const MaxNameLength = 50

var (
	ErrCharacterNotFound = errors.New("character not found")
	ErrNoAgeRanges       = errors.New("no age ranges configured")
	ErrNoMatchingRange   = errors.New("no age range matches the character's age")
)

type CharacterFinder interface {
	FindByName(ctx context.Context, name string) (models.Character, error)
}

type AgeRangeLister interface {
	All(ctx context.Context) ([]models.AgeRange, error)
}

type RecordStore interface {
	FindByName(ctx context.Context, name string) (models.MergedRecord, error)
	Save(ctx context.Context, rec *models.MergedRecord) error
}

// Invalidator drops every cached listing page.
type Invalidator interface {
	InvalidateAll(ctx context.Context) int
}

// Publisher pushes realtime events to connected clients.
type Publisher interface {
	Publish(eventType string, data map[string]any)
}

// Result is the outcome of a merge.
type Result struct {
	Record  models.MergedRecord
	Created bool
}

type Service struct {
	characters  CharacterFinder
	ranges      AgeRangeLister
	records     RecordStore
	invalidator Invalidator
	publisher   Publisher
	now         func() time.Time
	log         *zap.Logger
}

func NewService(characters CharacterFinder, ranges AgeRangeLister, records RecordStore, inv Invalidator, pub Publisher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		characters:  characters,
		ranges:      ranges,
		records:     records,
		invalidator: inv,
		publisher:   pub,
		now:         time.Now,
		log:         log.Named("merge"),
	}
}

// ValidateName trims the name and checks it is present and short enough.
func ValidateName(name string) (string, error) {
	var details []string
	trimmed := strings.TrimSpace(name)
	switch {
	case name == "":
		details = append(details, `"nombre" is required`)
	case trimmed == "":
		details = append(details, `"nombre" must not be blank`)
	case len([]rune(name)) > MaxNameLength:
		details = append(details, fmt.Sprintf(`"nombre" must not exceed %d characters`, MaxNameLength))
	}
	if err := validation.New("invalid parameter", details); err != nil {
		return "", err
	}
	return trimmed, nil
}

// FindRange returns the first range containing age.
func FindRange(age int, ranges []models.AgeRange) (models.AgeRange, bool) {
	for _, r := range ranges {
		if r.Contains(age) {
			return r, true
		}
	}
	return models.AgeRange{}, false
}

// Merge classifies the named character and upserts its merged record. An
// existing record for the name keeps its ID. The listing cache is invalidated
// before Merge returns.
func (s *Service) Merge(ctx context.Context, name string) (Result, error) {
	name, err := ValidateName(name)
	if err != nil {
		return Result{}, err
	}

	character, err := s.characters.FindByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return Result{}, fmt.Errorf("%w: %q", ErrCharacterNotFound, name)
	}
	if err != nil {
		return Result{}, fmt.Errorf("look up character: %w", err)
	}

	ranges, err := s.ranges.All(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load age ranges: %w", err)
	}
	if len(ranges) == 0 {
		return Result{}, ErrNoAgeRanges
	}

	ageRange, ok := FindRange(character.Age, ranges)
	if !ok {
		return Result{}, fmt.Errorf("%w: %d", ErrNoMatchingRange, character.Age)
	}

	existing, err := s.records.FindByName(ctx, character.Name)
	created := errors.Is(err, repository.ErrNotFound)
	if err != nil && !created {
		return Result{}, fmt.Errorf("look up merged record: %w", err)
	}

	rec := models.MergedRecord{
		ID:        uuid.NewString(),
		Name:      character.Name,
		Age:       character.Age,
		Attribute: character.Attribute,
		RangeName: ageRange.RangeName,
		MergedAt:  s.now().UTC(),
	}
	if !created {
		rec.ID = existing.ID
	}

	if err := s.records.Save(ctx, &rec); err != nil {
		return Result{}, fmt.Errorf("save merged record: %w", err)
	}

	removed := s.invalidator.InvalidateAll(ctx)
	s.log.Info("record merged",
		zap.String("nombre", rec.Name),
		zap.String("nombre_rango", rec.RangeName),
		zap.Bool("created", created),
		zap.Int("cache_invalidated", removed),
	)
	if s.publisher != nil {
		s.publisher.Publish("record_merged", map[string]any{
			"id":           rec.ID,
			"nombre":       rec.Name,
			"nombre_rango": rec.RangeName,
			"created":      created,
			"invalidated":  removed,
		})
	}

	return Result{Record: rec, Created: created}, nil
}

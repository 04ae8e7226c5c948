// Package characters validates and stores character records.
package characters

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"character-merge-api/internal/models"
	"character-merge-api/internal/repository"
	"character-merge-api/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxFieldLength caps the name and attribute fields.
const MaxFieldLength = 50

// Input is a validated character payload.
type Input struct {
	Name      string
	Age       int
	Attribute string
}

// Repository persists characters.
type Repository interface {
	FindByName(ctx context.Context, name string) (models.Character, error)
	Save(ctx context.Context, c *models.Character) error
}

// Invalidator drops every cached listing page.
type Invalidator interface {
	InvalidateAll(ctx context.Context) int
}

// Publisher pushes realtime events to connected clients.
type Publisher interface {
	Publish(eventType string, data map[string]any)
}

// Service stores characters, creating or updating by name.
type Service struct {
	repo        Repository
	invalidator Invalidator
	publisher   Publisher
	now         func() time.Time
	log         *zap.Logger
}

func NewService(repo Repository, inv Invalidator, pub Publisher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:        repo,
		invalidator: inv,
		publisher:   pub,
		now:         time.Now,
		log:         log.Named("characters"),
	}
}

// Validate checks a decoded JSON body and returns the normalized input.
// Every failed rule is reported in the *validation.Error details.
func Validate(body any) (Input, error) {
	data, ok := body.(map[string]any)
	if !ok {
		return Input{}, validation.New("invalid input data", []string{"the body must be a JSON object"})
	}

	var details []string
	var in Input

	in.Name, details = requireText(data, "nombre", details)

	switch v := data["edad"].(type) {
	case nil:
		details = append(details, `"edad" is required`)
	case float64:
		switch {
		case v <= 0:
			details = append(details, `"edad" must be greater than 0`)
		case v != math.Trunc(v) || v > math.MaxInt32:
			details = append(details, `"edad" must be a whole number`)
		default:
			in.Age = int(v)
		}
	default:
		details = append(details, `"edad" must be a number`)
	}

	in.Attribute, details = requireText(data, "atributo", details)

	if err := validation.New("invalid input data", details); err != nil {
		return Input{}, err
	}
	return in, nil
}

func requireText(data map[string]any, field string, details []string) (string, []string) {
	s, ok := data[field].(string)
	switch {
	case !ok || s == "":
		return "", append(details, fmt.Sprintf("%q is required and must be a string", field))
	case len([]rune(s)) > MaxFieldLength:
		return "", append(details, fmt.Sprintf("%q must not exceed %d characters", field, MaxFieldLength))
	case strings.TrimSpace(s) == "":
		return "", append(details, fmt.Sprintf("%q must not be blank", field))
	}
	return strings.TrimSpace(s), details
}

// Store creates the character or replaces the one with the same name, keeping
// its ID and creation time. The boolean reports an update. The listing cache
// is invalidated after the write.
func (s *Service) Store(ctx context.Context, in Input) (models.Character, bool, error) {
	existing, err := s.repo.FindByName(ctx, in.Name)
	updated := err == nil
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return models.Character{}, false, fmt.Errorf("look up character: %w", err)
	}

	now := s.now().UTC()
	c := models.Character{
		Name:      in.Name,
		ID:        uuid.NewString(),
		Age:       in.Age,
		Attribute: in.Attribute,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if updated {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
	}

	if err := s.repo.Save(ctx, &c); err != nil {
		return models.Character{}, false, fmt.Errorf("save character: %w", err)
	}

	removed := s.invalidator.InvalidateAll(ctx)
	s.log.Info("character stored",
		zap.String("nombre", c.Name),
		zap.Bool("updated", updated),
		zap.Int("cache_invalidated", removed),
	)
	if s.publisher != nil {
		s.publisher.Publish("character_stored", map[string]any{
			"nombre":      c.Name,
			"updated":     updated,
			"invalidated": removed,
		})
	}
	return c, updated, nil
}

// Package history serves the paginated listing of merge results and the
// cached variant the HTTP layer uses.
package history

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"character-merge-api/internal/cache"
	"character-merge-api/internal/models"
	"character-merge-api/internal/validation"
)

// Endpoint names the listing in cache keys.
const Endpoint = "historial"

// Pagination defaults applied when a parameter is absent.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ErrBulkSourceUnavailable is returned when the merged records cannot be read.
// There is no fallback data, so it is fatal to the request.
var ErrBulkSourceUnavailable = errors.New("merged record source unavailable")

// PageResult is one page of merged records. It is also the cached payload.
type PageResult struct {
	Items      []models.MergedRecord `json:"datosFusionados"`
	Page       int                   `json:"page"`
	Total      int                   `json:"total"`
	TotalPages int                   `json:"totalPages"`
}

// MergedRecordSource returns every merged record in storage order.
type MergedRecordSource interface {
	AllMergedRecords(ctx context.Context) ([]models.MergedRecord, error)
}

// Service computes pages from the full merged record collection.
type Service struct {
	source MergedRecordSource
	cache  *cache.ReadThrough[PageResult]
}

// NewService builds the listing service. A nil cache disables caching.
func NewService(source MergedRecordSource, c *cache.ReadThrough[PageResult]) *Service {
	return &Service{source: source, cache: c}
}

// ParsePagination parses raw query values, applying the defaults for empty
// strings. Non-integer or non-positive values yield a *validation.Error.
func ParsePagination(pageStr, limitStr string) (int, int, error) {
	page, limit := DefaultPage, DefaultLimit
	var details []string

	if pageStr != "" {
		n, err := strconv.Atoi(pageStr)
		if err != nil {
			details = append(details, `"page" must be an integer`)
		} else {
			page = n
		}
	}
	if limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil {
			details = append(details, `"limit" must be an integer`)
		} else {
			limit = n
		}
	}
	if err := validation.New(invalidPagination, details); err != nil {
		return 0, 0, err
	}
	if err := validatePagination(page, limit); err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

const invalidPagination = `invalid pagination parameters: "page" and "limit" must be positive integers`

func validatePagination(page, limit int) error {
	var details []string
	if page <= 0 {
		details = append(details, `"page" must be positive`)
	}
	if limit <= 0 {
		details = append(details, `"limit" must be positive`)
	}
	return validation.New(invalidPagination, details)
}

// List computes the requested page without consulting the cache. Items follow
// the source's enumeration order, which is not guaranteed stable between calls.
// A page past the end is empty, not an error.
func (s *Service) List(ctx context.Context, page, limit int) (PageResult, error) {
	if err := validatePagination(page, limit); err != nil {
		return PageResult{}, err
	}

	all, err := s.source.AllMergedRecords(ctx)
	if err != nil {
		return PageResult{}, fmt.Errorf("%w: %w", ErrBulkSourceUnavailable, err)
	}

	total := len(all)
	start := (page - 1) * limit
	end := min(start+limit, total)

	items := []models.MergedRecord{}
	if start < total {
		items = append(items, all[start:end]...)
	}

	return PageResult{
		Items:      items,
		Page:       page,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// CacheKey is the cache key for a page request.
func CacheKey(page, limit int) string {
	return cache.MakeKey(Endpoint, map[string]any{"page": page, "limit": limit})
}

// Cached returns the page through the read-through cache. The boolean reports
// whether it was served from cache.
func (s *Service) Cached(ctx context.Context, page, limit int) (PageResult, bool, error) {
	if err := validatePagination(page, limit); err != nil {
		return PageResult{}, false, err
	}
	if s.cache == nil {
		res, err := s.List(ctx, page, limit)
		return res, false, err
	}
	return s.cache.Get(ctx, CacheKey(page, limit), func(ctx context.Context) (PageResult, error) {
		return s.List(ctx, page, limit)
	})
}

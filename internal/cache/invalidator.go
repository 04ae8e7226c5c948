package cache

import (
	"context"
	"sync/atomic"

	"character-merge-api/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultInvalidateConcurrency bounds in-flight deletes when none is configured.
const DefaultInvalidateConcurrency = 16

// Invalidator empties a Store. It is the only invalidation path: cached pages
// depend on the whole dataset, so any mutation drops every entry.
type Invalidator struct {
	store       Store
	concurrency int
	log         *zap.Logger
	metrics     *metrics.Cache
}

// NewInvalidator creates an Invalidator. A nil logger disables logging.
func NewInvalidator(store Store, concurrency int, log *zap.Logger, m *metrics.Cache) *Invalidator {
	if concurrency < 1 {
		concurrency = DefaultInvalidateConcurrency
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Invalidator{
		store:       store,
		concurrency: concurrency,
		log:         log.Named("cache"),
		metrics:     m,
	}
}

// InvalidateAll deletes every entry present at scan time and returns how many
// were removed. Failures are logged, never returned. Entries written after the
// scan survive until their TTL.
func (i *Invalidator) InvalidateAll(ctx context.Context) int {
	entries, err := i.store.ScanAll(ctx)
	if err != nil {
		i.metrics.StoreError("scan")
		i.log.Error("cache scan failed, nothing invalidated", zap.Error(err))
		return 0
	}
	if len(entries) == 0 {
		i.metrics.Invalidated(0)
		return 0
	}

	var removed, failed atomic.Int64

	// Goroutines never return an error so one failed delete does not
	// cancel the others.
	var g errgroup.Group
	g.SetLimit(i.concurrency)
	for _, e := range entries {
		g.Go(func() error {
			if err := i.store.Delete(ctx, e.Key); err != nil {
				failed.Add(1)
				i.metrics.StoreError("delete")
				i.log.Warn("cache delete failed", zap.String("key", e.Key), zap.Error(err))
				return nil
			}
			removed.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	n := int(removed.Load())
	i.metrics.Invalidated(n)
	i.log.Info("cache invalidated",
		zap.Int("removed", n),
		zap.Int64("failed", failed.Load()),
	)
	return n
}

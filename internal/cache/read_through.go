package cache

import (
	"context"
	"time"

	"character-merge-api/internal/metrics"

	"go.uber.org/zap"
)

// DefaultTTL is used when Options.TTL is not set.
const DefaultTTL = 30 * time.Minute

// Options controls construction of a ReadThrough cache.
type Options struct {
	// TTL is how long a populated entry stays live. Truncated to whole seconds.
	TTL time.Duration

	// Now is the clock; defaults to time.Now. Tests stub it to move time.
	Now func() time.Time

	Logger  *zap.Logger
	Metrics *metrics.Cache
}

// ReadThrough serves values of type T from a Store and computes them on a miss.
//
// There is no per-key locking: concurrent misses on the same key each compute
// and the last Put wins. Every store failure degrades to a miss, so the cache
// can slow a read down but never fail it.
type ReadThrough[T any] struct {
	store   Store
	codec   Codec[T]
	ttl     int64
	now     func() time.Time
	log     *zap.Logger
	metrics *metrics.Cache
}

// NewReadThrough constructs a read-through cache on top of store.
func NewReadThrough[T any](store Store, codec Codec[T], opts Options) *ReadThrough[T] {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &ReadThrough[T]{
		store:   store,
		codec:   codec,
		ttl:     int64(ttl / time.Second),
		now:     now,
		log:     log.Named("cache"),
		metrics: opts.Metrics,
	}
}

// Get returns the cached value for key, or the result of compute when the
// entry is absent, expired or unreadable. The boolean reports a cache hit.
// Only an error from compute is returned.
func (c *ReadThrough[T]) Get(ctx context.Context, key string, compute func(context.Context) (T, error)) (T, bool, error) {
	if v, ok := c.lookup(ctx, key); ok {
		c.metrics.Hit()
		c.log.Debug("cache hit", zap.String("key", key))
		return v, true, nil
	}
	c.metrics.Miss()

	v, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}

	c.populate(ctx, key, v)
	return v, false, nil
}

func (c *ReadThrough[T]) lookup(ctx context.Context, key string) (T, bool) {
	var zero T

	e, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.metrics.StoreError("get")
		c.log.Warn("cache read failed, treating as miss", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	if !ok {
		c.log.Debug("cache miss", zap.String("key", key))
		return zero, false
	}

	if e.ExpiresAt <= c.now().Unix() {
		c.metrics.Expire()
		c.log.Debug("cache expired", zap.String("key", key), zap.Int64("expires_at", e.ExpiresAt))
		if err := c.store.Delete(ctx, key); err != nil {
			c.metrics.StoreError("delete")
			c.log.Warn("evicting expired entry failed", zap.String("key", key), zap.Error(err))
		}
		return zero, false
	}

	v, err := c.codec.Decode(e.Payload)
	if err != nil {
		c.metrics.StoreError("decode")
		c.log.Warn("cached payload undecodable, treating as miss", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return v, true
}

func (c *ReadThrough[T]) populate(ctx context.Context, key string, v T) {
	payload, err := c.codec.Encode(v)
	if err != nil {
		c.metrics.StoreError("encode")
		c.log.Warn("encoding value for cache failed", zap.String("key", key), zap.Error(err))
		return
	}

	e := Entry{Key: key, Payload: payload, ExpiresAt: c.now().Unix() + c.ttl}
	if err := c.store.Put(ctx, e); err != nil {
		c.metrics.StoreError("put")
		c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		return
	}
	c.log.Debug("cache populated", zap.String("key", key), zap.Int64("expires_at", e.ExpiresAt))
}

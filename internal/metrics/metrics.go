package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Cache holds the Prometheus metrics for the history read-through cache.
// A nil *Cache is valid and records nothing.
type Cache struct {
	Hits               prometheus.Counter
	Misses             prometheus.Counter
	Expired            prometheus.Counter
	StoreErrors        *prometheus.CounterVec
	Invalidations      prometheus.Counter
	InvalidatedEntries prometheus.Counter
}

// NewCache creates and registers all cache metrics with the provided registry.
func NewCache(reg prometheus.Registerer) *Cache {
	hits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "history_cache_hits_total",
		Help: "Reads served from a live cache entry",
	})

	misses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "history_cache_misses_total",
		Help: "Reads that had to recompute the value",
	})

	expired := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "history_cache_expired_total",
		Help: "Entries found past their TTL and evicted on read",
	})

	storeErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "history_cache_store_errors_total",
		Help: "Cache store operations that failed and were degraded",
	}, []string{"op"})

	invalidations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "history_cache_invalidations_total",
		Help: "Bulk invalidation runs",
	})

	invalidated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "history_cache_invalidated_entries_total",
		Help: "Entries removed by bulk invalidation",
	})

	reg.MustRegister(hits, misses, expired, storeErrors, invalidations, invalidated)

	return &Cache{
		Hits:               hits,
		Misses:             misses,
		Expired:            expired,
		StoreErrors:        storeErrors,
		Invalidations:      invalidations,
		InvalidatedEntries: invalidated,
	}
}

func (m *Cache) Hit() {
	if m != nil {
		m.Hits.Inc()
	}
}

func (m *Cache) Miss() {
	if m != nil {
		m.Misses.Inc()
	}
}

func (m *Cache) Expire() {
	if m != nil {
		m.Expired.Inc()
	}
}

func (m *Cache) StoreError(op string) {
	if m != nil {
		m.StoreErrors.WithLabelValues(op).Inc()
	}
}

func (m *Cache) Invalidated(removed int) {
	if m != nil {
		m.Invalidations.Inc()
		m.InvalidatedEntries.Add(float64(removed))
	}
}

package cache

import (
	"context"
	"sync"
)

// MemoryStore is a map-backed Store for tests and single-process runs.
// Entries never expire on their own; expiry is left to the reader.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Entry
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]Entry),
	}
}

// Get implements Store.Get.
func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.items[key]
	if !ok {
		return Entry{}, false, nil
	}
	return cloneEntry(e), true, nil
}

// Put implements Store.Put.
func (s *MemoryStore) Put(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[e.Key] = cloneEntry(e)
	return nil
}

// Delete implements Store.Delete.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// ScanAll implements Store.ScanAll.
func (s *MemoryStore) ScanAll(_ context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, cloneEntry(e))
	}
	return out, nil
}

// Len returns the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// callers must not be able to mutate stored payloads through shared slices
func cloneEntry(e Entry) Entry {
	if e.Payload != nil {
		e.Payload = append([]byte(nil), e.Payload...)
	}
	return e
}

// Ensure MemoryStore implements Store at compile time.
var _ Store = (*MemoryStore)(nil)

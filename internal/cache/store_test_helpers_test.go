package cache

import (
	"context"
	"errors"
	"sync/atomic"
)

var errBoom = errors.New("boom")

// flakyStore wraps a MemoryStore and fails the operations switched on.
type flakyStore struct {
	*MemoryStore
	failGet, failPut, failDelete, failScan atomic.Bool
	gets, puts, deletes                    atomic.Int64
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: NewMemoryStore()}
}

func (s *flakyStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	s.gets.Add(1)
	if s.failGet.Load() {
		return Entry{}, false, storeErr("get", key, errBoom)
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *flakyStore) Put(ctx context.Context, e Entry) error {
	s.puts.Add(1)
	if s.failPut.Load() {
		return storeErr("put", e.Key, errBoom)
	}
	return s.MemoryStore.Put(ctx, e)
}

func (s *flakyStore) Delete(ctx context.Context, key string) error {
	s.deletes.Add(1)
	if s.failDelete.Load() {
		return storeErr("delete", key, errBoom)
	}
	return s.MemoryStore.Delete(ctx, key)
}

func (s *flakyStore) ScanAll(ctx context.Context) ([]Entry, error) {
	if s.failScan.Load() {
		return nil, storeErr("scan", "", errBoom)
	}
	return s.MemoryStore.ScanAll(ctx)
}

/*
cache.go - Short-TTL list caching with write invalidation

PURPOSE:
  List results (shifts, tracking records) may be re-read several times
  while building one attendance or payroll view. These decorators cache
  list calls keyed by filter for a short TTL. Any create/update through
  the same decorator invalidates the whole cache for that entity type —
  otherwise the reconciler could compute against stale inputs.

  Writes that bypass the decorator are not observed; wire all access for
  an entity type through one decorator instance.
*/
package roster

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultCacheTTL bounds staleness for cached list reads.
const DefaultCacheTTL = 30 * time.Second

type cacheEntry struct {
	value   any
	expires time.Time
}

type listCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

func newListCache(ttl time.Duration) *listCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &listCache{ttl: ttl, entries: make(map[string]cacheEntry)}
}

func (c *listCache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expires) {
		return nil, false
	}
	return e.value, true
}

func (c *listCache) put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expires: time.Now().Add(c.ttl)}
}

func (c *listCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// =============================================================================
// CACHED SHIFT STORE
// =============================================================================

type CachedShiftStore struct {
	ShiftStore
	cache *listCache
}

func NewCachedShiftStore(inner ShiftStore, ttl time.Duration) *CachedShiftStore {
	return &CachedShiftStore{ShiftStore: inner, cache: newListCache(ttl)}
}

func (s *CachedShiftStore) ListShifts(ctx context.Context, f ShiftFilter) ([]Shift, error) {
	key := fmt.Sprintf("%s|%s|%s|%v", f.StaffID, f.From, f.To, f.Statuses)
	if v, ok := s.cache.get(key); ok {
		return v.([]Shift), nil
	}
	shifts, err := s.ShiftStore.ListShifts(ctx, f)
	if err != nil {
		return nil, err
	}
	s.cache.put(key, shifts)
	return shifts, nil
}

func (s *CachedShiftStore) CreateShift(ctx context.Context, shift *Shift) error {
	s.cache.invalidate()
	return s.ShiftStore.CreateShift(ctx, shift)
}

func (s *CachedShiftStore) UpdateShift(ctx context.Context, shift *Shift) error {
	s.cache.invalidate()
	return s.ShiftStore.UpdateShift(ctx, shift)
}

// =============================================================================
// CACHED TRACKING STORE
// =============================================================================

type CachedTrackingStore struct {
	TrackingStore
	cache *listCache
}

func NewCachedTrackingStore(inner TrackingStore, ttl time.Duration) *CachedTrackingStore {
	return &CachedTrackingStore{TrackingStore: inner, cache: newListCache(ttl)}
}

func (s *CachedTrackingStore) ListTracking(ctx context.Context, f TrackingFilter) ([]TimeTrackingRecord, error) {
	key := fmt.Sprintf("%s|%s|%s", f.StaffID, f.From, f.To)
	if v, ok := s.cache.get(key); ok {
		return v.([]TimeTrackingRecord), nil
	}
	records, err := s.TrackingStore.ListTracking(ctx, f)
	if err != nil {
		return nil, err
	}
	s.cache.put(key, records)
	return records, nil
}

func (s *CachedTrackingStore) CreateTracking(ctx context.Context, r *TimeTrackingRecord) error {
	s.cache.invalidate()
	return s.TrackingStore.CreateTracking(ctx, r)
}

func (s *CachedTrackingStore) UpdateTracking(ctx context.Context, r *TimeTrackingRecord) error {
	s.cache.invalidate()
	return s.TrackingStore.UpdateTracking(ctx, r)
}

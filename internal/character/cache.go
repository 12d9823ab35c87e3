// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/taibuivan/rickdex/internal/platform/clock"
	"github.com/taibuivan/rickdex/internal/platform/codec"
)

// Cache stores upstream payloads for a fixed TTL.
//
// Get decodes a fresh entry into dst and reports whether one was found.
// Implementations treat expired entries as absent.
type Cache interface {
	Get(context context.Context, key string, dst any) (bool, error)
	Set(context context.Context, key string, value any) error
}

type memoryEntry struct {
	data     []byte
	storedAt time.Time
}

// MemoryCache is a process-local [Cache].
//
// Expired entries are removed lazily when looked up. When maxEntries is
// positive, inserting a new key into a full cache evicts the entry that was
// stored longest ago. Values are held encoded so callers never share memory
// with a cached payload.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	clock      clock.Clock
}

// NewMemoryCache builds a MemoryCache. maxEntries <= 0 means unbounded.
func NewMemoryCache(ttl time.Duration, maxEntries int, clk clock.Clock) *MemoryCache {
	if clk == nil {
		clk = clock.Real()
	}
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		clock:      clk,
	}
}

// Get implements [Cache].
func (cache *MemoryCache) Get(_ context.Context, key string, dst any) (bool, error) {
	cache.mu.Lock()
	entry, found := cache.entries[key]
	if found && cache.clock.Now().Sub(entry.storedAt) >= cache.ttl {
		delete(cache.entries, key)
		found = false
	}
	cache.mu.Unlock()

	if !found {
		return false, nil
	}

	if err := codec.Unmarshal(entry.data, dst); err != nil {
		return false, fmt.Errorf("memory cache: decode %s: %w", key, err)
	}
	return true, nil
}

// Set implements [Cache].
func (cache *MemoryCache) Set(_ context.Context, key string, value any) error {
	data, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("memory cache: encode %s: %w", key, err)
	}

	cache.mu.Lock()
	defer cache.mu.Unlock()

	if _, exists := cache.entries[key]; !exists && cache.maxEntries > 0 && len(cache.entries) >= cache.maxEntries {
		cache.evictOldestLocked()
	}

	cache.entries[key] = memoryEntry{data: data, storedAt: cache.clock.Now()}
	return nil
}

// Len returns the number of stored entries, including expired ones not yet evicted.
func (cache *MemoryCache) Len() int {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	return len(cache.entries)
}

func (cache *MemoryCache) evictOldestLocked() {
	var (
		oldestKey string
		oldestAt  time.Time
		first     = true
	)
	for key, entry := range cache.entries {
		if first || entry.storedAt.Before(oldestAt) {
			oldestKey, oldestAt, first = key, entry.storedAt, false
		}
	}
	if !first {
		delete(cache.entries, oldestKey)
	}
}

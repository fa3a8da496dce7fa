package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryItem struct {
	value    []byte
	expireAt time.Time
	access   time.Time
}

func (m *memoryItem) expired() bool {
	return time.Now().After(m.expireAt)
}

// MemoryStore implements Store in-process with LRU eviction and a
// periodic expiry sweep. The default backend when Redis is disabled.
type MemoryStore struct {
	data          map[string]*memoryItem
	mutex         sync.Mutex
	maxSize       int
	cleanupTicker *time.Ticker
}

// NewMemoryStore creates an in-memory report cache.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	cfg := &MemoryConfig{
		MaxSize:         1000,
		CleanupInterval: 5 * time.Minute,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	ms := &MemoryStore{
		data:          make(map[string]*memoryItem),
		maxSize:       cfg.MaxSize,
		cleanupTicker: time.NewTicker(cfg.CleanupInterval),
	}

	go ms.cleanupExpired()
	return ms
}

func (ms *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	if len(ms.data) >= ms.maxSize {
		ms.evictLRU()
	}

	expireAt := time.Now().Add(ttl)
	if ttl <= 0 {
		expireAt = time.Now().Add(24 * time.Hour)
	}

	ms.data[key] = &memoryItem{
		value:    value,
		expireAt: expireAt,
		access:   time.Now(),
	}
}

func (ms *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	item, exists := ms.data[key]
	if !exists || item.expired() {
		if exists {
			delete(ms.data, key)
		}
		return nil, false
	}

	item.access = time.Now()
	return item.value, true
}

func (ms *MemoryStore) Invalidate(_ context.Context, prefix string) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	for key := range ms.data {
		if strings.HasPrefix(key, prefix) {
			delete(ms.data, key)
		}
	}
}

func (ms *MemoryStore) evictLRU() {
	if len(ms.data) == 0 {
		return
	}

	var oldestKey string
	oldestTime := time.Now()

	for key, item := range ms.data {
		if item.access.Before(oldestTime) {
			oldestTime = item.access
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(ms.data, oldestKey)
	}
}

func (ms *MemoryStore) cleanupExpired() {
	for range ms.cleanupTicker.C {
		ms.mutex.Lock()
		now := time.Now()
		for key, item := range ms.data {
			if now.After(item.expireAt) {
				delete(ms.data, key)
			}
		}
		ms.mutex.Unlock()
	}
}

// Close stops the cleanup ticker.
func (ms *MemoryStore) Close() error {
	if ms.cleanupTicker != nil {
		ms.cleanupTicker.Stop()
	}
	return nil
}

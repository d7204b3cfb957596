package store

import (
	"context"
	"sync"
	"time"

	"botilleria/pkg/platform/sentinel"
)

// InMemoryKV is the default store when Redis is not configured, and the one
// unit tests inject. Entries respect their ttl so expiry-at-read behavior can
// be exercised with a fake clock.
type InMemoryKV struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	// now is swappable for tests.
	now func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no storage-level expiry
}

func NewInMemoryKV() *InMemoryKV {
	return &InMemoryKV{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// NewInMemoryKVWithClock injects a clock for expiry tests.
func NewInMemoryKVWithClock(now func() time.Time) *InMemoryKV {
	kv := NewInMemoryKV()
	kv.now = now
	return kv
}

func (s *InMemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		// Lazy cleanup, mirroring Redis TTL semantics.
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, sentinel.ErrNotFound
	}
	return append([]byte{}, entry.value...), nil
}

func (s *InMemoryKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: append([]byte{}, value...)}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

func (s *InMemoryKV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

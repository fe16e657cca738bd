package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is the process-lifetime in-memory store. Safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries map[string]Entry
	now     func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// Get returns the entry for key, or nil if missing or older than TTL.
func (m *Memory) Get(_ context.Context, key string) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok || m.now().Sub(entry.CreatedAt) > TTL {
		return nil, nil
	}
	return &entry, nil
}

// Set stores the entry, purging expired entries and evicting oldest-first
// once the store exceeds MaxEntries.
func (m *Memory) Set(_ context.Context, key string, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = m.now()
	}
	m.entries[key] = entry

	now := m.now()
	for k, e := range m.entries {
		if now.Sub(e.CreatedAt) > TTL {
			delete(m.entries, k)
		}
	}
	for len(m.entries) > MaxEntries {
		oldestKey := ""
		var oldest time.Time
		for k, e := range m.entries {
			if oldestKey == "" || e.CreatedAt.Before(oldest) {
				oldestKey = k
				oldest = e.CreatedAt
			}
		}
		delete(m.entries, oldestKey)
	}
	return nil
}

// Evict removes the entry for key if present.
func (m *Memory) Evict(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Len reports the current number of entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

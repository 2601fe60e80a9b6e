// Package cache provides the process-wide response cache.
package cache

import (
	"sync"

	"secex-api/internal/domain"
)

// Memory is an in-process key to bytes store. Entries are written once
// per key and never evicted; concurrent first writers for the same key
// both compute the same value, so losing the race is harmless.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

var _ domain.ResponseCache = (*Memory)(nil)

// Get returns the cached value for key, if present.
func (c *Memory) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set stores value under key. An existing entry is left untouched so the
// first successful response for a path stays authoritative.
func (c *Memory) Set(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		return
	}
	c.entries[key] = value
}

// Len returns the number of cached entries.
func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

package numerator

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Generator for tests and the in-memory store.
// Counters live per sequence key, so reset periods behave the same as
// the database-backed service.
type Memory struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMemory creates an in-memory number generator.
func NewMemory() *Memory {
	return &Memory{counters: make(map[string]int64)}
}

// Next implements Generator.
func (m *Memory) Next(ctx context.Context, cfg Config, period time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := cfg.Key(period)
	m.counters[key]++
	return cfg.Format(period, m.counters[key]), nil
}

var _ Generator = (*Memory)(nil)

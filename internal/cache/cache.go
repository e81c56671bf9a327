// Package cache holds time-boxed snapshots of aggregated search results,
// keyed by normalized (query, location) pairs.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/empleoradar/backend/internal/domain"
)

const (
	// DefaultTTL is how long a snapshot stays servable.
	DefaultTTL = 15 * time.Minute
	// DefaultCapacity bounds the number of resident entries.
	DefaultCapacity = 50
)

// ResultCache is the contract the aggregator consults before fanning out.
type ResultCache interface {
	Get(ctx context.Context, query, location string) ([]domain.JobRecord, bool)
	Put(ctx context.Context, query, location string, jobs []domain.JobRecord)
}

// Key normalizes a (query, location) pair. Both parts are lower-cased so
// case variants collide intentionally.
func Key(query, location string) string {
	return strings.ToLower(query) + "-" + strings.ToLower(location)
}

type entry struct {
	storedAt time.Time
	jobs     []domain.JobRecord
}

// Memory is the in-process ResultCache. Expiry is checked lazily on reads;
// Put evicts the oldest-inserted entry once the capacity is exceeded,
// regardless of that entry's own age.
type Memory struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	entries  map[string]entry
	order    []string // insertion order, oldest first

	now func() time.Time
}

// NewMemory creates a memory cache. Non-positive ttl or capacity fall back
// to the defaults.
func NewMemory(ttl time.Duration, capacity int) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Memory{
		ttl:      ttl,
		capacity: capacity,
		entries:  make(map[string]entry),
		now:      time.Now,
	}
}

// Get returns the cached snapshot for the pair, if present and unexpired.
// Expired entries are treated as absent without being removed.
func (c *Memory) Get(_ context.Context, query, location string) ([]domain.JobRecord, bool) {
	key := Key(query, location)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.storedAt) >= c.ttl {
		return nil, false
	}
	return e.jobs, true
}

// Put stores a snapshot under the pair's key and opportunistically evicts
// the oldest-inserted entry when over capacity.
func (c *Memory) Put(_ context.Context, query, location string, jobs []domain.JobRecord) {
	key := Key(query, location)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = entry{storedAt: c.now(), jobs: jobs}

	if len(c.entries) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Len reports the number of resident entries, expired or not.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

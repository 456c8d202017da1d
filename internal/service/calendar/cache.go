package calendar

import (
	"context"
	"slices"
	"sync"
	"time"

	"barberboss/backend/internal/domain"
)

// MaxCacheTTL bounds how stale cached settings may be.
const MaxCacheTTL = 60 * time.Second

type Cache interface {
	// Load reports ok=false on a miss or an expired entry.
	Load(ctx context.Context) (s domain.Settings, ok bool, err error)
	Store(ctx context.Context, s domain.Settings) error
	Invalidate(ctx context.Context) error
}

func clampTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 || ttl > MaxCacheTTL {
		return MaxCacheTTL
	}
	return ttl
}

// MemoryCache keeps one copy of the settings in process.
type MemoryCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	value    domain.Settings
	storedAt time.Time
	valid    bool
}

func NewMemoryCache(ttl time.Duration, now func() time.Time) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{ttl: clampTTL(ttl), now: now}
}

func (c *MemoryCache) Load(ctx context.Context) (domain.Settings, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.valid || c.now().Sub(c.storedAt) >= c.ttl {
		c.valid = false
		return domain.Settings{}, false, nil
	}
	s := c.value
	s.WorkingDays = slices.Clone(c.value.WorkingDays)
	return s, true, nil
}

func (c *MemoryCache) Store(ctx context.Context, s domain.Settings) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = s
	c.value.WorkingDays = slices.Clone(s.WorkingDays)
	c.storedAt = c.now()
	c.valid = true
	return nil
}

func (c *MemoryCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.valid = false
	return nil
}

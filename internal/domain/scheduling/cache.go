package scheduling

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// SlotCache holds recent available-slot listings per doctor and date. A nil
// *SlotCache is a valid, disabled cache. Listings may be stale for up to the
// TTL; booking still goes through the claim.
//
// Every Invalidate bumps a generation. Put takes the generation read before
// the listing was fetched and drops the listing when an invalidation has
// happened since, so a read racing a booking cannot re-cache the pre-booking
// listing.
type SlotCache struct {
	mu  sync.Mutex
	gen uint64
	lru *expirable.LRU[string, []Slot]
}

// NewSlotCache returns nil when size or ttl is not positive.
func NewSlotCache(size int, ttl time.Duration) *SlotCache {
	if size <= 0 || ttl <= 0 {
		return nil
	}
	return &SlotCache{lru: expirable.NewLRU[string, []Slot](size, nil, ttl)}
}

func cacheKey(doctorID uuid.UUID, date time.Time) string {
	return doctorID.String() + "|" + DateOf(date).Format("2006-01-02")
}

func (c *SlotCache) Get(doctorID uuid.UUID, date time.Time) ([]*Slot, bool) {
	if c == nil {
		return nil, false
	}
	cached, ok := c.lru.Get(cacheKey(doctorID, date))
	if !ok {
		return nil, false
	}
	out := make([]*Slot, len(cached))
	for i := range cached {
		s := cached[i]
		out[i] = &s
	}
	return out, true
}

// Generation returns the current invalidation generation.
func (c *SlotCache) Generation() uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Put stores copies of slots fetched at generation gen. It reports false and
// stores nothing when an invalidation happened after gen was read.
func (c *SlotCache) Put(doctorID uuid.UUID, date time.Time, slots []*Slot, gen uint64) bool {
	if c == nil {
		return false
	}
	copied := make([]Slot, len(slots))
	for i, s := range slots {
		copied[i] = *s
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.lru.Add(cacheKey(doctorID, date), copied)
	return true
}

func (c *SlotCache) Invalidate(doctorID uuid.UUID, dates ...time.Time) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	for _, d := range dates {
		c.lru.Remove(cacheKey(doctorID, d))
	}
}

func (c *SlotCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

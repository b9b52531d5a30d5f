package funktion

import "fmt"

// DefaultCacheCapacity is the derivative-cache entry limit used when
// no explicit capacity is configured.
const DefaultCacheCapacity = 10

// valueCacheCapacity bounds the per-function value cache; once full,
// the oldest quarter of the entries is dropped.
const valueCacheCapacity = 100

// CacheConsistencyError reports a violated cache invariant, such as a
// negative derivative order or corrupt bookkeeping.
type CacheConsistencyError struct {
	// Order is the derivative order of the offending request.
	Order int
	// Reason describes the violated invariant.
	Reason string
}

func (e *CacheConsistencyError) Error() string {
	return fmt.Sprintf("derivative cache inconsistency at order %d: %s", e.Order, e.Reason)
}

// DerivativeCache memoizes derivative requests for one owning
// Function, keyed by derivative order. Eviction is insertion-order
// FIFO: once the capacity is exceeded the oldest-inserted entry is
// removed, regardless of how recently it was read. Not safe for
// concurrent use.
type DerivativeCache struct {
	capacity int
	entries  map[int]*Function
	inserted []int // insertion order, oldest first
	hits     int
	misses   int
}

// NewDerivativeCache creates a cache holding at most capacity entries.
// Non-positive capacities fall back to the default.
func NewDerivativeCache(capacity int) *DerivativeCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &DerivativeCache{
		capacity: capacity,
		entries:  make(map[int]*Function),
	}
}

// GetOrCompute returns the cached derivative for order, or invokes
// compute, stores the result and evicts the oldest entry when the
// capacity is exceeded. A hit returns the identical object that was
// stored.
func (c *DerivativeCache) GetOrCompute(order int, compute func() (*Function, error)) (*Function, error) {
	if order < 0 {
		return nil, &CacheConsistencyError{Order: order, Reason: "negative derivative order"}
	}
	if f, ok := c.entries[order]; ok {
		c.hits++
		return f, nil
	}
	c.misses++

	f, err := compute()
	if err != nil {
		return nil, err
	}
	c.entries[order] = f
	c.inserted = append(c.inserted, order)
	for len(c.inserted) > c.capacity {
		oldest := c.inserted[0]
		c.inserted = c.inserted[1:]
		delete(c.entries, oldest)
	}
	if len(c.entries) != len(c.inserted) {
		return nil, &CacheConsistencyError{Order: order, Reason: "entry map and insertion log disagree"}
	}
	return f, nil
}

// Contains reports whether an entry for order is currently cached.
func (c *DerivativeCache) Contains(order int) bool {
	_, ok := c.entries[order]
	return ok
}

// Len returns the current entry count.
func (c *DerivativeCache) Len() int { return len(c.entries) }

// Capacity returns the configured entry limit.
func (c *DerivativeCache) Capacity() int { return c.capacity }

// Hits returns the number of requests served from the cache.
func (c *DerivativeCache) Hits() int { return c.hits }

// Misses returns the number of requests that had to compute.
func (c *DerivativeCache) Misses() int { return c.misses }

// HitRate returns hits/(hits+misses), or zero before any request.
func (c *DerivativeCache) HitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

// valueCache is a bounded memo for point evaluations. When full it
// drops the oldest quarter of its entries in one sweep.
type valueCache struct {
	capacity int
	entries  map[float64]float64
	inserted []float64
}

func newValueCache(capacity int) *valueCache {
	return &valueCache{
		capacity: capacity,
		entries:  make(map[float64]float64),
	}
}

func (c *valueCache) get(x float64) (float64, bool) {
	y, ok := c.entries[x]
	return y, ok
}

func (c *valueCache) put(x, y float64) {
	if _, ok := c.entries[x]; ok {
		c.entries[x] = y
		return
	}
	if len(c.entries) >= c.capacity {
		drop := c.capacity / 4
		if drop < 1 {
			drop = 1
		}
		for _, old := range c.inserted[:drop] {
			delete(c.entries, old)
		}
		c.inserted = c.inserted[drop:]
	}
	c.entries[x] = y
	c.inserted = append(c.inserted, x)
}

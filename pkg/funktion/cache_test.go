package funktion

import (
	"errors"
	"testing"
)

// stubFn returns a fresh compute callback handing out distinct objects,
// counting invocations.
func stubFn(calls *int) func() (*Function, error) {
	return func() (*Function, error) {
		*calls++
		return &Function{}, nil
	}
}

func TestDerivativeCache_HitReturnsSameObject(t *testing.T) {
	c := NewDerivativeCache(4)
	calls := 0

	first, err := c.GetOrCompute(1, stubFn(&calls))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := c.GetOrCompute(1, stubFn(&calls))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Error("expected a hit to return the identical object")
	}
	if calls != 1 {
		t.Errorf("expected one compute invocation, got %d", calls)
	}
	if c.Hits() != 1 || c.Misses() != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d/%d", c.Hits(), c.Misses())
	}
}

func TestDerivativeCache_FIFOEviction(t *testing.T) {
	c := NewDerivativeCache(3)
	calls := 0

	for order := 1; order <= 3; order++ {
		if _, err := c.GetOrCompute(order, stubFn(&calls)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if c.Len() != 3 {
		t.Fatalf("expected the cache to be full, got %d entries", c.Len())
	}

	// A fourth insert pushes out the oldest entry.
	if _, err := c.GetOrCompute(4, stubFn(&calls)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Contains(1) {
		t.Error("expected order 1 to be evicted first")
	}
	for _, order := range []int{2, 3, 4} {
		if !c.Contains(order) {
			t.Errorf("expected order %d to survive the eviction", order)
		}
	}

	// Reading order 2 does not protect it: eviction follows insertion
	// order, not recency.
	if _, err := c.GetOrCompute(2, stubFn(&calls)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.GetOrCompute(5, stubFn(&calls)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Contains(2) {
		t.Error("expected order 2 to be evicted despite the recent read")
	}
}

func TestDerivativeCache_NegativeOrder(t *testing.T) {
	c := NewDerivativeCache(2)
	calls := 0

	_, err := c.GetOrCompute(-1, stubFn(&calls))
	if err == nil {
		t.Fatal("expected an error for a negative order")
	}
	var cerr *CacheConsistencyError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected a cache consistency error, got %T", err)
	}
	if cerr.Order != -1 {
		t.Errorf("expected the error to carry order -1, got %d", cerr.Order)
	}
	if calls != 0 {
		t.Error("expected the compute callback not to run for a rejected order")
	}
}

func TestDerivativeCache_DefaultCapacity(t *testing.T) {
	if got := NewDerivativeCache(0).Capacity(); got != DefaultCacheCapacity {
		t.Errorf("expected default capacity %d, got %d", DefaultCacheCapacity, got)
	}
	if got := NewDerivativeCache(-3).Capacity(); got != DefaultCacheCapacity {
		t.Errorf("expected default capacity %d, got %d", DefaultCacheCapacity, got)
	}
}

func TestDerivativeCache_HitRate(t *testing.T) {
	c := NewDerivativeCache(2)
	if c.HitRate() != 0 {
		t.Error("expected hit rate 0 before any request")
	}
	calls := 0
	c.GetOrCompute(1, stubFn(&calls))
	c.GetOrCompute(1, stubFn(&calls))
	c.GetOrCompute(1, stubFn(&calls))
	c.GetOrCompute(2, stubFn(&calls))

	if got := c.HitRate(); got != 0.5 {
		t.Errorf("expected hit rate 0.5, got %g", got)
	}
}

func TestValueCache_EvictsOldestQuarter(t *testing.T) {
	c := newValueCache(8)
	for i := 0; i < 8; i++ {
		c.put(float64(i), float64(i*i))
	}
	c.put(100, 1)

	// The two oldest entries make room; the rest survive.
	for _, gone := range []float64{0, 1} {
		if _, ok := c.get(gone); ok {
			t.Errorf("expected x=%g to be evicted", gone)
		}
	}
	for _, kept := range []float64{2, 7, 100} {
		if _, ok := c.get(kept); !ok {
			t.Errorf("expected x=%g to survive", kept)
		}
	}
}

package divgroup

import (
	"sync"
	"sync/atomic"
)

// cachedValue is a benign-race, publish-once lazy cache slot. The first
// reader that observes a nil pointer computes the value and publishes it;
// concurrent computations are allowed to race since every compute path is
// referentially transparent and produces an equal result (spec §5).
//
// This replaces the teacher's unsafe.Pointer-plus-hand-rolled-atomic-load
// pattern (pchchv-goip/grouping_base.go) with the generic stdlib equivalent
// introduced in Go 1.19.
type cachedValue[T any] struct {
	p atomic.Pointer[T]
}

// get returns the cached value, computing and publishing it via compute if
// the slot is still unset.
func (c *cachedValue[T]) get(compute func() T) T {
	if v := c.p.Load(); v != nil {
		return *v
	}
	v := compute()
	c.p.Store(&v)
	return v
}

// lockedCache computes a value once under a mutex, held only while the slot
// is unset; once published, reads are lock-free (spec §5: "SectionCache
// access takes a lock on the owning section only when the cache slot is
// still unset").
type lockedCache[T any] struct {
	mu sync.Mutex
	p  atomic.Pointer[T]
}

func (c *lockedCache[T]) get(compute func() T) T {
	if v := c.p.Load(); v != nil {
		return *v
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if v := c.p.Load(); v != nil {
		return *v
	}
	v := compute()
	c.p.Store(&v)
	return v
}

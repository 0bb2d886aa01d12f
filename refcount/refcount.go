// Package refcount implements a reference-counted allocation tracker: a
// per-pointer-base count of how many named identifiers currently bind to
// it, updated on pointer assignment and explicit free.
package refcount

import "github.com/jgrier/brili/heap"

// Freer frees the allocation named by a heap Key. *heap.Heap[V] for any
// V satisfies this.
type Freer interface {
	Free(heap.Key) error
}

// Counter tracks, for each heap Base that has been the target of an
// OnAssign call, how many named bindings currently point to it.
type Counter struct {
	counts map[heap.Base]int
	heap   Freer
}

// New returns a Counter that frees through h when a count reaches zero.
func New(h Freer) *Counter {
	return &Counter{counts: make(map[heap.Base]int), heap: h}
}

// OnAssign implements assignment semantics: if old is non-nil, the
// destination previously held a pointer into *old, whose count is
// decremented (freeing and dropping the entry at zero); the new
// pointer's base is then incremented, initializing it to 1 if unseen.
func (c *Counter) OnAssign(old *heap.Base, newBase heap.Base) error {
	if old != nil {
		if err := c.decrement(*old); err != nil {
			return err
		}
	}
	c.counts[newBase]++
	return nil
}

func (c *Counter) decrement(base heap.Base) error {
	n, ok := c.counts[base]
	if !ok {
		return nil
	}
	n--
	if n <= 0 {
		delete(c.counts, base)
		return c.heap.Free(heap.Key{Base: base})
	}
	c.counts[base] = n
	return nil
}

// OnFree drops base's entry entirely: the user explicitly freed it, so
// the counter stops tracking it regardless of its count.
func (c *Counter) OnFree(base heap.Base) {
	delete(c.counts, base)
}

// Sweep frees every allocation still tracked and clears the map, for
// the end-of-program bulk sweep.
func (c *Counter) Sweep() error {
	bases := make([]heap.Base, 0, len(c.counts))
	for b := range c.counts {
		bases = append(bases, b)
	}
	c.counts = make(map[heap.Base]int)
	for _, b := range bases {
		if err := c.heap.Free(heap.Key{Base: b}); err != nil {
			return err
		}
	}
	return nil
}

// Tracked reports whether base currently has a tracked count, and what
// it is. Exported for tests.
func (c *Counter) Tracked(base heap.Base) (int, bool) {
	n, ok := c.counts[base]
	return n, ok
}

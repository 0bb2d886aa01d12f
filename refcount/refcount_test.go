package refcount

import (
	"testing"

	"github.com/jgrier/brili/heap"
)

// fakeFreer records freed keys instead of touching a real heap, so tests
// can assert exactly which bases the counter decided to free.
type fakeFreer struct {
	freed []heap.Base
}

func (f *fakeFreer) Free(k heap.Key) error {
	f.freed = append(f.freed, k.Base)
	return nil
}

func TestOnAssignFreesAtZero(t *testing.T) {
	f := &fakeFreer{}
	c := New(f)

	if err := c.OnAssign(nil, 1); err != nil {
		t.Fatalf("OnAssign: %s", err)
	}
	if n, ok := c.Tracked(1); !ok || n != 1 {
		t.Fatalf("Tracked(1)=(%d,%v), want (1,true)", n, ok)
	}

	old := heap.Base(1)
	if err := c.OnAssign(&old, 2); err != nil {
		t.Fatalf("OnAssign: %s", err)
	}
	if len(f.freed) != 1 || f.freed[0] != 1 {
		t.Errorf("freed=%v, want [1]", f.freed)
	}
	if _, ok := c.Tracked(1); ok {
		t.Errorf("base 1 still tracked after its count reached zero")
	}
}

func TestOnAssignSharedBaseNotFreedEarly(t *testing.T) {
	f := &fakeFreer{}
	c := New(f)

	c.OnAssign(nil, 5) // x = alloc
	c.OnAssign(nil, 5) // y = id x  (shares base 5)

	old := heap.Base(5)
	c.OnAssign(&old, 9) // x reassigned away from 5
	if len(f.freed) != 0 {
		t.Fatalf("freed=%v, want none (y still holds base 5)", f.freed)
	}

	c.OnAssign(&old, 9) // y reassigned away from 5 too
	if len(f.freed) != 1 || f.freed[0] != 5 {
		t.Errorf("freed=%v, want [5]", f.freed)
	}
}

func TestOnFreeDropsTrackingRegardlessOfCount(t *testing.T) {
	f := &fakeFreer{}
	c := New(f)
	c.OnAssign(nil, 1)
	c.OnAssign(nil, 1)
	c.OnFree(1)
	if _, ok := c.Tracked(1); ok {
		t.Errorf("base still tracked after explicit OnFree")
	}
	// A later decrement to zero must not double-free through the heap.
	old := heap.Base(1)
	c.OnAssign(&old, 2)
	if len(f.freed) != 0 {
		t.Errorf("freed=%v, want none", f.freed)
	}
}

func TestSweepFreesEverythingTracked(t *testing.T) {
	f := &fakeFreer{}
	c := New(f)
	c.OnAssign(nil, 1)
	c.OnAssign(nil, 2)
	if err := c.Sweep(); err != nil {
		t.Fatalf("Sweep: %s", err)
	}
	if len(f.freed) != 2 {
		t.Errorf("freed=%v, want 2 entries", f.freed)
	}
	if _, ok := c.Tracked(1); ok {
		t.Errorf("base 1 still tracked after Sweep")
	}
}

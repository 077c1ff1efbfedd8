package rcpool

import (
	"weak"

	"go.uber.org/zap"

	"github.com/estokes/poolshark"
)

// Shared is a reference-counted holder for a T, the Go shape of Arc: many
// Shared[T] values may Clone from one allocation, and only the terminal
// Release (the one that takes the strong count to zero) resets the
// payload and offers the whole allocation back to its origin pool.
//
// There is no separate weak count here: once the strong count hits zero
// the allocation either goes back to the pool or is simply garbage, and
// Go's GC — not a manual count — governs when unreferenced memory is
// actually reclaimed. WeakShared adds a weak count on top of this same
// allocation where that distinction matters.
type Shared[T poolshark.Poolable] struct {
	a *allocation[T]
}

// Get returns a pointer to the wrapped value, valid for as long as this
// Shared (or any clone of it) has not been released.
func (s Shared[T]) Get() *T {
	return &s.a.value
}

// BindPool rebinds the allocation's embedded weak pool pointer. Shared
// satisfies poolshark.RawPoolable this way: its pool back-pointer lives
// inside the allocation itself rather than in a separate wrapper, which
// is exactly the case that contract exists for.
func (s Shared[T]) BindPool(w weak.Pointer[sharedPool[T]]) {
	s.a.pool = w
}

// Reset and Capacity forward to the wrapped value so that Shared itself
// satisfies poolshark.Poolable — and so poolshark.RawPoolable, alongside
// BindPool above. These are distinct from Release: Release is the
// reference-counted, pool-returning operation callers actually use;
// Reset/Capacity exist only so Shared can stand in wherever the
// lower-level RawPoolable contract is required.
func (s Shared[T]) Reset() {
	s.a.value.Reset()
}

func (s Shared[T]) Capacity() int {
	return s.a.value.Capacity()
}

// assertRawPoolable is never called; its body exists only so the compiler
// checks, for every T satisfying poolshark.Poolable, that Shared[T] and
// WeakShared[T] both actually implement poolshark.RawPoolable[sharedPool[T]].
func assertRawPoolable[T poolshark.Poolable]() {
	var _ poolshark.RawPoolable[sharedPool[T]] = Shared[T]{}
	var _ poolshark.RawPoolable[sharedPool[T]] = WeakShared[T]{}
}

// Clone increments the strong count and returns a new handle to the same
// allocation.
func (s Shared[T]) Clone() Shared[T] {
	s.a.strong.Add(1)
	return Shared[T]{a: s.a}
}

// Release decrements the strong count. On the terminal decrement it
// resets the payload and, unless a live weak reference is guarding this
// allocation against reuse, offers it back to the origin pool; if no pool
// resolves, or the queue is full, or a weak reference is outstanding, the
// allocation is simply left for the garbage collector.
func (s Shared[T]) Release() {
	if s.a.strong.Add(-1) != 0 {
		return
	}
	s.a.released.Store(true)
	a := s.a
	a.value.Reset()

	if ctrl := a.weakCtrl.Load(); ctrl != nil && ctrl.count.Load() > 0 {
		poolshark.Metrics().AdmissionFailure("rcpool", "weak_ref_outstanding")
		return // a live WeakRef could still Upgrade; don't recycle the slot
	}
	core := a.pool.Value()
	if core == nil {
		poolshark.Metrics().AdmissionFailure("rcpool", "pool_gone")
		return
	}
	if a.value.Capacity() > core.maxElementCapacity {
		poolshark.Metrics().AdmissionFailure("rcpool", "over_capacity")
		return
	}
	if !core.put(a) {
		poolshark.Logger().Debug("rcpool: queue full, releasing normally", zap.String("pool_id", core.id))
		poolshark.Metrics().AdmissionFailure("rcpool", "queue_full")
	}
}

// ReallyReleased reports whether the allocation's strong count has reached
// zero, i.e. whether the terminal Release has happened. The count is
// shared, so every handle to the allocation gives the same answer; before
// the terminal Release it reports false.
func (s Shared[T]) ReallyReleased() bool {
	return s.a.strong.Load() == 0
}

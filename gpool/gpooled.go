package gpool

import (
	"runtime"
	"weak"

	"github.com/estokes/poolshark"
)

// GPooled owns a T plus a weak handle to its origin pool. Release (not a
// destructor — Go has none, see SPEC_FULL.md §9), if the value was really
// released (via poolshark.ReallyReleaser, defaulting to true) and its
// origin pool still resolves, resets the value and attempts to return it
// to that pool.
//
// As a safety net for callers who forget to call Release, every non-zero
// GPooled registers a runtime.SetFinalizer on its payload that performs
// the same return-to-pool protocol if the payload is garbage collected
// first. SetFinalizer, not the newer runtime.AddCleanup, is used here
// deliberately: the return-to-pool protocol needs the collected value
// itself back (to push it into the ring), which is exactly the
// resurrection pattern SetFinalizer supports and AddCleanup's stricter,
// non-reviving contract does not.
type GPooled[T poolshark.Poolable] struct {
	value    T
	pool     weak.Pointer[poolCore[T]]
	released bool
}

// Orphan wraps v with no bound pool. Releasing it is a normal release
// with no pool effect until Assign binds it to one.
func Orphan[T poolshark.Poolable](v T) GPooled[T] {
	g := GPooled[T]{value: v}
	g.armFinalizer()
	return g
}

// Assign binds g to h's pool. From then on, releasing g attempts to
// return it to that pool like any other GPooled value.
func (g *GPooled[T]) Assign(h StrongHandle[T]) {
	g.pool = h.core.self
	// re-arm: the finalizer closure captures pool by value, and SetFinalizer
	// refuses to replace an existing finalizer, so clear the old one first.
	runtime.SetFinalizer(any(g.value), nil)
	g.armFinalizer()
}

func (g *GPooled[T]) armFinalizer() {
	pool := g.pool
	runtime.SetFinalizer(any(g.value), func(o any) {
		v := o.(T)
		poolshark.Logger().Debug("gpool: GPooled collected without Release")
		returnToPool(v, pool)
	})
}

// Get returns the wrapped value.
func (g *GPooled[T]) Get() T {
	return g.value
}

// Release, if the value reports really-released (or has no opinion) and
// its origin pool is bound and can still be resolved, resets the value and
// offers it to that pool; otherwise the value is released normally,
// without a Reset. Safe to call more than once.
func (g *GPooled[T]) Release() {
	if g.released {
		return
	}
	g.released = true
	v := g.value
	var zero T
	g.value = zero
	runtime.SetFinalizer(any(v), nil)
	returnToPool(v, g.pool)
}

func returnToPool[T poolshark.Poolable](v T, pool weak.Pointer[poolCore[T]]) {
	if rr, ok := any(v).(poolshark.ReallyReleaser); ok && !rr.ReallyReleased() {
		poolshark.Metrics().AdmissionFailure("gpool", "not_really_released")
		return
	}
	core := pool.Value()
	if core == nil {
		poolshark.Metrics().AdmissionFailure("gpool", "pool_gone")
		return // weak handle unresolvable: released normally
	}
	v.Reset()
	if v.Capacity() > core.maxElementCapacity {
		poolshark.Metrics().AdmissionFailure("gpool", "over_capacity")
		return
	}
	core.put(v)
}

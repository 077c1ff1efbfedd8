// Package rcpool implements the pooled shared-ownership container: a
// reference-counted holder (the Go shape of Arc) whose allocation embeds
// a weak back-pointer to the pool it came from, so that on the terminal
// strong release the whole allocation — not just its payload — is
// recycled instead of abandoned to the garbage collector.
package rcpool

import (
	"runtime"
	"sync/atomic"
	"weak"

	"github.com/google/uuid"

	"github.com/estokes/poolshark"
)

const (
	defaultMaxPoolSize        = 1024
	defaultMaxElementCapacity = 1 << 20
)

// allocation is the single heap block backing one logical Shared[T]: a
// strong count, a weak back-pointer to the pool, and the payload itself,
// all in one struct so Go's allocator gives us the "single allocation"
// property the distilled spec calls for without any manual layout work.
type allocation[T poolshark.Poolable] struct {
	strong   atomic.Int64
	released atomic.Bool // terminal release observed; set before any reuse
	pool     weak.Pointer[sharedPool[T]]
	value    T

	// weakCtrl is nil until the first Downgrade, at which point it is
	// installed once and shared by every WeakRef taken on this
	// allocation. Its weak count, not this allocation's own identity,
	// is what guards the allocation against premature pool reuse while
	// a weak reference could still Upgrade — see weak.go. Concurrent
	// Downgrade calls on clones of the same Shared race to install this,
	// so it is a CAS target, not a plain field.
	weakCtrl atomic.Pointer[weakControl[T]]
}

// sharedPool is the shared state behind a PoolHandle/WeakPoolHandle pair.
type sharedPool[T poolshark.Poolable] struct {
	ring               *ring[*allocation[T]]
	maxElementCapacity int
	empty              func() T
	self               weak.Pointer[sharedPool[T]]

	// id identifies this pool instance in diagnostic log lines, the same
	// role uuid plays for gpool's poolCore. Metrics are labelled "rcpool"
	// only and do not carry it.
	id string
}

// PoolHandle keeps a pool's core alive, same shape as gpool.StrongHandle.
type PoolHandle[T poolshark.Poolable] struct {
	core *sharedPool[T]
}

// WeakPoolHandle does not keep the pool alive.
type WeakPoolHandle[T poolshark.Poolable] struct {
	ptr weak.Pointer[sharedPool[T]]
}

// Resolve upgrades w to a PoolHandle, or fails if the pool is gone.
func (w WeakPoolHandle[T]) Resolve() (PoolHandle[T], bool) {
	core := w.ptr.Value()
	if core == nil {
		return PoolHandle[T]{}, false
	}
	return PoolHandle[T]{core: core}, true
}

// NewPool constructs a pool of recycled allocations for T.
func NewPool[T poolshark.Poolable](maxPoolSize, maxElementCapacity int, empty func() T) PoolHandle[T] {
	if maxPoolSize < 1 {
		maxPoolSize = defaultMaxPoolSize
	}
	if maxElementCapacity < 1 {
		maxElementCapacity = defaultMaxElementCapacity
	}
	core := &sharedPool[T]{
		ring:               newRing[*allocation[T]](maxPoolSize),
		maxElementCapacity: maxElementCapacity,
		empty:              empty,
		id:                 uuid.NewString(),
	}
	core.self = weak.Make(core)
	runtime.AddCleanup(core, func(r *ring[*allocation[T]]) {
		r.drain(func(*allocation[T]) {})
	}, core.ring)
	return PoolHandle[T]{core: core}
}

// Weak returns a non-owning handle to h's pool.
func (h PoolHandle[T]) Weak() WeakPoolHandle[T] {
	return WeakPoolHandle[T]{ptr: h.core.self}
}

// Take checks out a Shared[T]: a recycled allocation if one is available,
// or a freshly constructed one otherwise. The returned value starts with
// a strong count of one.
func (h PoolHandle[T]) Take() Shared[T] {
	if a, ok := h.core.ring.pop(); ok {
		a.strong.Store(1)
		a.released.Store(false)
		poolshark.Metrics().Hit("rcpool")
		return Shared[T]{a: a}
	}
	poolshark.Metrics().Miss("rcpool")
	a := &allocation[T]{value: h.core.empty()}
	a.strong.Store(1)
	s := Shared[T]{a: a}
	s.BindPool(h.core.self)
	return s
}

func (c *sharedPool[T]) put(a *allocation[T]) bool {
	return c.ring.push(a)
}

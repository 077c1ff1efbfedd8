// Package gpool implements the cross-goroutine pool: a lock-free bounded
// queue of recycled values bound to one concrete T, with a shareable
// StrongHandle/WeakHandle pair and a GPooled wrapper carrying a weak
// back-pointer to its origin pool.
package gpool

import (
	"runtime"
	"weak"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/estokes/poolshark"
)

const (
	defaultMaxPoolSize        = 1024
	defaultMaxElementCapacity = 1 << 20
)

// poolCore is the shared state behind every StrongHandle/WeakHandle for
// one pool. It is never copied; handles hold a pointer to it.
type poolCore[T any] struct {
	ring               *mpmcRing[T]
	maxElementCapacity int
	empty              func() T
	self               weak.Pointer[poolCore[T]]

	// id identifies this pool instance in diagnostic log lines. Two pools
	// for the same T are otherwise indistinguishable from a log line alone.
	id string
}

// StrongHandle keeps a pool's core alive. It is a thin, copyable value —
// cloning it (assigning it, passing it by value) is cheap and shares the
// same core, matching the distilled spec's "strong handles are clonable."
type StrongHandle[T any] struct {
	core *poolCore[T]
}

// WeakHandle is a non-owning reference to a pool: it does not keep the
// pool's core alive. Every GPooled carries one instead of a StrongHandle
// so that a pool can be collected out from under checked-out values
// without anything preventing that collection (§4.3's "weak handles do
// not prevent the pool from being dropped").
type WeakHandle[T any] struct {
	ptr weak.Pointer[poolCore[T]]
}

// Resolve attempts to upgrade w to a StrongHandle. ok is false if the
// pool's core has already been collected.
func (w WeakHandle[T]) Resolve() (h StrongHandle[T], ok bool) {
	core := w.ptr.Value()
	if core == nil {
		return StrongHandle[T]{}, false
	}
	return StrongHandle[T]{core: core}, true
}

// New constructs a pool for T with the given bounds and empty-value
// constructor and returns a strong handle to it. When every strong handle
// to the returned core is gone and the garbage collector reclaims it, any
// values still queued are released via runtime.AddCleanup — the idiomatic
// Go substitute for the distilled spec's "when the pool is dropped all
// queued values are released" (there is no deterministic drop to hook in
// Go; see SPEC_FULL.md §9).
func New[T poolshark.Poolable](maxPoolSize, maxElementCapacity int, empty func() T) StrongHandle[T] {
	if maxPoolSize < 1 {
		maxPoolSize = defaultMaxPoolSize
	}
	if maxElementCapacity < 1 {
		maxElementCapacity = defaultMaxElementCapacity
	}
	core := &poolCore[T]{
		ring:               newMPMCRing[T](maxPoolSize),
		maxElementCapacity: maxElementCapacity,
		empty:              empty,
		id:                 uuid.NewString(),
	}
	core.self = weak.Make(core)
	runtime.AddCleanup(core, func(ring *mpmcRing[T]) {
		ring.drain(func(T) {})
	}, core.ring)
	return StrongHandle[T]{core: core}
}

// Weak returns a non-owning handle to h's pool.
func (h StrongHandle[T]) Weak() WeakHandle[T] {
	return WeakHandle[T]{ptr: h.core.self}
}

// Take pops a recycled value if one is available and admissible, or
// builds a fresh empty one otherwise.
func (h StrongHandle[T]) Take() GPooled[T] {
	g := GPooled[T]{pool: h.core.self}
	if v, ok := h.core.ring.pop(); ok {
		g.value = v
		poolshark.Metrics().Hit("gpool")
	} else {
		g.value = h.core.empty()
		poolshark.Metrics().Miss("gpool")
	}
	g.armFinalizer()
	return g
}

// put is invoked only from GPooled.Release's return-to-pool protocol.
func (c *poolCore[T]) put(v T) {
	if !c.ring.push(v) {
		poolshark.Logger().Debug("gpool: queue full, releasing normally", zap.String("pool_id", c.id))
		poolshark.Metrics().AdmissionFailure("gpool", "queue_full")
	}
}

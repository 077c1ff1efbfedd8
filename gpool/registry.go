package gpool

import (
	"reflect"
	"sync"

	"github.com/estokes/poolshark"
)

// typedPools and anyPools back the process-wide convenience pools keyed by
// a type's own Discriminant (or, absent a valid one, its reflect.Type),
// lazily created on first use. This mirrors lpool's factory-registry
// pattern one level up: instead of recycling raw storage per Discriminant,
// it recycles whole *poolCore[T] handles so callers can reach a shared
// cross-goroutine pool without having to thread a StrongHandle through
// their own globals.
//
// Lookups go through sync.Map.Load alone — no mutex on the read path, so a
// populated entry is wait-free to fetch regardless of how many goroutines
// are reading it concurrently. The mutexes below guard only the
// create-on-miss path: a double-checked Load-under-lock-Store sequence so
// two goroutines racing to populate the same key don't each build and
// discard their own StrongHandle.
var (
	typedPoolsMu sync.Mutex
	typedPools   sync.Map // poolshark.Discriminant -> StrongHandle[T]

	anyPoolsMu sync.Mutex
	anyPools   sync.Map // reflect.Type -> StrongHandle[T]
)

// Pool returns the process-wide pool for T, creating it on first use with
// default bounds. If T does not report a valid Discriminant on its zero
// value, Pool returns PoolAny's pool for T instead.
func Pool[T poolshark.IsoPoolable](empty func() T) StrongHandle[T] {
	var z T
	d := z.Discriminant()
	if !d.Valid() {
		return PoolAny[T](empty)
	}
	if h, ok := typedPools.Load(d); ok {
		return h.(StrongHandle[T])
	}
	typedPoolsMu.Lock()
	defer typedPoolsMu.Unlock()
	if h, ok := typedPools.Load(d); ok {
		return h.(StrongHandle[T])
	}
	h := New[T](defaultMaxPoolSize, defaultMaxElementCapacity, empty)
	typedPools.Store(d, h)
	return h
}

// PoolSized is Pool for SizedIsoPoolable types, threading n into the
// Discriminant's const-size field in place of a const generic.
func PoolSized[T poolshark.SizedIsoPoolable](n int, empty func() T) StrongHandle[T] {
	var z T
	d := z.DiscriminantSized(n)
	if !d.Valid() {
		return PoolAny[T](empty)
	}
	if h, ok := typedPools.Load(d); ok {
		return h.(StrongHandle[T])
	}
	typedPoolsMu.Lock()
	defer typedPoolsMu.Unlock()
	if h, ok := typedPools.Load(d); ok {
		return h.(StrongHandle[T])
	}
	h := New[T](defaultMaxPoolSize, defaultMaxElementCapacity, empty)
	typedPools.Store(d, h)
	return h
}

// PoolAny returns the process-wide pool for T keyed by its reflect.Type,
// for types with no valid Discriminant (e.g. types not participating in
// iso-pooling at all, just wanting a shared cross-goroutine pool).
func PoolAny[T poolshark.Poolable](empty func() T) StrongHandle[T] {
	rt := reflect.TypeFor[T]()
	if h, ok := anyPools.Load(rt); ok {
		return h.(StrongHandle[T])
	}
	anyPoolsMu.Lock()
	defer anyPoolsMu.Unlock()
	if h, ok := anyPools.Load(rt); ok {
		return h.(StrongHandle[T])
	}
	h := New[T](defaultMaxPoolSize, defaultMaxElementCapacity, empty)
	anyPools.Store(rt, h)
	return h
}

// Take is shorthand for Pool(empty).Take(): check out a value from the
// process-wide pool for T, creating that pool on first use.
func Take[T poolshark.IsoPoolable](empty func() T) GPooled[T] {
	return Pool[T](empty).Take()
}

// TakeSized is shorthand for PoolSized(n, empty).Take().
func TakeSized[T poolshark.SizedIsoPoolable](n int, empty func() T) GPooled[T] {
	return PoolSized[T](n, empty).Take()
}

// TakeAny is shorthand for PoolAny(empty).Take().
func TakeAny[T poolshark.Poolable](empty func() T) GPooled[T] {
	return PoolAny[T](empty).Take()
}

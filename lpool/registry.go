package lpool

import (
	"reflect"
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/estokes/poolshark"
)

// factories maps a Discriminant to a closure producing a fresh, empty raw
// instance of the type that owns it. It stands in for the distilled
// spec's T::empty() associated function, which Go generics have no way to
// invoke without a concrete value in hand (see SPEC_FULL.md §9, "No
// associated/static functions").
var factories sync.Map // poolshark.Discriminant -> func() unsafe.Pointer

// factoriesAny is the same idea keyed by reflect.Type, backing the
// Discriminant-absent fallback path (§4.2: "if a type's constraints
// produce no valid Discriminant, take always constructs fresh").
var factoriesAny sync.Map // reflect.Type -> func() unsafe.Pointer

// Register installs empty as the fresh-value constructor for T, keyed by
// T's own Discriminant (computed on the zero value, which is why
// IsoPoolable.Discriminant must tolerate a nil/zero receiver) and, as a
// fallback for when that Discriminant turns out to be invalid, by T's
// reflect.Type too. Call this once, typically from the adapter type's
// package init.
func Register[T poolshark.IsoPoolable](empty func() T) {
	raw := func() unsafe.Pointer { return toRaw(empty()) }
	factoriesAny.Store(reflect.TypeFor[T](), raw)
	var z T
	if d := z.Discriminant(); d.Valid() {
		factories.Store(d, raw)
	}
}

// RegisterSized is Register for SizedIsoPoolable types, for a specific n.
func RegisterSized[T poolshark.SizedIsoPoolable](n int, empty func() T) {
	raw := func() unsafe.Pointer { return toRaw(empty()) }
	var z T
	if d := z.DiscriminantSized(n); d.Valid() {
		factories.Store(d, raw)
	} else {
		factoriesAny.Store(reflect.TypeFor[T](), raw)
	}
}

func constructFresh[T poolshark.IsoPoolable](d poolshark.Discriminant) T {
	f, ok := factories.Load(d)
	if !ok {
		panic("poolshark/lpool: Take: no factory registered for this type; call lpool.Register first")
	}
	return fromRaw[T](f.(func() unsafe.Pointer)())
}

func constructFreshAny[T poolshark.IsoPoolable]() T {
	f, ok := factoriesAny.Load(reflect.TypeFor[T]())
	if !ok {
		panic("poolshark/lpool: Take: no factory registered for this type; call lpool.Register first")
	}
	return fromRaw[T](f.(func() unsafe.Pointer)())
}

// Take returns a recycled value of T from the local registry if one is
// available and admissible, or a freshly constructed empty one otherwise.
func Take[T poolshark.IsoPoolable]() LPooled[T] {
	var z T
	d := z.Discriminant()
	if !d.Valid() {
		return newWrapper[T](constructFreshAny[T]())
	}
	return newWrapper[T](takeByDiscriminant[T](d))
}

// TakeSized is Take for SizedIsoPoolable types, threading n into the
// Discriminant's const-size field in place of a const generic (Go has
// none; see SPEC_FULL.md §9).
func TakeSized[T poolshark.SizedIsoPoolable](n int) LPooled[T] {
	var z T
	d := z.DiscriminantSized(n)
	if !d.Valid() {
		return newWrapper[T](constructFreshAny[T]())
	}
	return newWrapper[T](takeByDiscriminant[T](d))
}

func takeByDiscriminant[T poolshark.IsoPoolable](d poolshark.Discriminant) T {
	sh := globalRegistry.currentShard()
	if !sh.mu.TryLock() {
		poolshark.Logger().Debug("lpool: reentrant Take, constructing fresh", zap.Uint64("discriminant", uint64(d)))
		poolshark.Metrics().Miss("lpool")
		return constructFresh[T](d)
	}
	s := globalRegistry.slotFor(sh, d, false)
	if s == nil || len(s.stack) == 0 {
		sh.mu.Unlock()
		poolshark.Metrics().Miss("lpool")
		return constructFresh[T](d)
	}
	raw := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	sh.mu.Unlock()
	poolshark.Metrics().Hit("lpool")
	return fromRaw[T](raw)
}

// Insert resets v and offers it to the local registry, holding the
// shard's lock across the Reset call itself rather than just around the
// admission check. v.Reset is caller code: if it recursively calls back
// into Insert/Take for the same shard (a counting Poolable whose Reset
// reinserts itself, say), that nested call's TryLock must actually
// contend with this one — the whole point of TryLock-as-reentrancy-guard
// (§4.2/§9) — which only holds if the lock is already taken before Reset
// runs. Locking only around InsertRaw's admission check, as an earlier
// version of this function did, left Reset running fully unlocked: a
// nested Insert would acquire the lock uncontended, do its own work, and
// return before the outer call ever touched the shard, so the "inner
// access silently declines" guarantee never actually triggered.
func Insert[T poolshark.IsoPoolable](v T) {
	d := v.Discriminant()
	if !d.Valid() {
		v.Reset()
		poolshark.Metrics().AdmissionFailure("lpool", "no_discriminant")
		return
	}
	sh := globalRegistry.currentShard()
	if !sh.mu.TryLock() {
		poolshark.Logger().Debug("lpool: reentrant Insert, releasing normally", zap.Uint64("discriminant", uint64(d)))
		poolshark.Metrics().AdmissionFailure("lpool", "reentrant")
		v.Reset()
		return
	}
	defer sh.mu.Unlock()
	v.Reset()
	insertLocked(sh, d, v)
}

// InsertRaw offers v to the local registry without resetting it first.
// If the registry's slot for v's Discriminant is absent, full, or v's
// capacity exceeds the slot's admissible cap, v is released normally
// instead (a silent admission failure, never an error).
func InsertRaw[T poolshark.IsoPoolable](v T) {
	d := v.Discriminant()
	if !d.Valid() {
		poolshark.Metrics().AdmissionFailure("lpool", "no_discriminant")
		return
	}

	sh := globalRegistry.currentShard()
	if !sh.mu.TryLock() {
		poolshark.Logger().Debug("lpool: reentrant Insert, releasing normally", zap.Uint64("discriminant", uint64(d)))
		poolshark.Metrics().AdmissionFailure("lpool", "reentrant")
		return
	}
	defer sh.mu.Unlock()
	insertLocked(sh, d, v)
}

// insertLocked runs the admission check and, if admitted, the push onto
// the shard's slot. Callers must already hold sh.mu.
func insertLocked[T poolshark.IsoPoolable](sh *shard, d poolshark.Discriminant, v T) {
	if rr, ok := any(v).(poolshark.ReallyReleaser); ok && !rr.ReallyReleased() {
		poolshark.Metrics().AdmissionFailure("lpool", "not_really_released")
		return
	}
	s := globalRegistry.slotFor(sh, d, true)
	if v.Capacity() > s.maxElementCapacity {
		poolshark.Metrics().AdmissionFailure("lpool", "over_capacity")
		return
	}
	if len(s.stack) >= s.maxPoolSize {
		poolshark.Metrics().AdmissionFailure("lpool", "pool_full")
		return
	}
	s.stack = append(s.stack, toRaw(v))
	poolshark.Metrics().Occupancy("lpool", len(s.stack))
}

// SetSize configures the calling goroutine's currently-affine local slot
// for T: up to maxPoolSize recycled values, each with capacity at most
// maxElementCapacity, are retained; the slot is created if absent.
func SetSize[T poolshark.IsoPoolable](maxPoolSize, maxElementCapacity int) {
	var z T
	d := z.Discriminant()
	if !d.Valid() {
		return
	}
	setSizeForDiscriminant(d, maxPoolSize, maxElementCapacity)
}

// SetSizeSized is SetSize for SizedIsoPoolable types.
func SetSizeSized[T poolshark.SizedIsoPoolable](n, maxPoolSize, maxElementCapacity int) {
	var z T
	d := z.DiscriminantSized(n)
	if !d.Valid() {
		return
	}
	setSizeForDiscriminant(d, maxPoolSize, maxElementCapacity)
}

func setSizeForDiscriminant(d poolshark.Discriminant, maxPoolSize, maxElementCapacity int) {
	sh := globalRegistry.currentShard()
	sh.mu.Lock()
	defer sh.mu.Unlock()
	s := globalRegistry.slotFor(sh, d, true)
	s.maxPoolSize = maxPoolSize
	s.maxElementCapacity = maxElementCapacity
	if len(s.stack) > maxPoolSize {
		s.stack = s.stack[:maxPoolSize]
	}
}

// Clear empties every slot in every shard.
func Clear() {
	for _, sh := range globalRegistry.shards {
		sh.mu.Lock()
		sh.slots = map[poolshark.Discriminant]*slot{}
		sh.mu.Unlock()
	}
}

// ClearType empties only T's slot, in every shard.
func ClearType[T poolshark.IsoPoolable]() {
	var z T
	d := z.Discriminant()
	if !d.Valid() {
		return
	}
	for _, sh := range globalRegistry.shards {
		sh.mu.Lock()
		delete(sh.slots, d)
		sh.mu.Unlock()
	}
}

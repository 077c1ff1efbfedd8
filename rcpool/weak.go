package rcpool

import (
	"runtime"
	"sync/atomic"
	"weak"

	"github.com/estokes/poolshark"
)

// weakControl is the "secondary tiny allocation" referenced by an
// allocation's weakCtrl field: a weak count plus a weak.Pointer back to
// the main allocation, installed lazily on first Downgrade and then
// shared by every WeakRef taken on that allocation. Keeping it separate
// from allocation[T] means the weak count survives independently of
// whichever pool slot the main allocation currently occupies.
type weakControl[T poolshark.Poolable] struct {
	count  atomic.Int64
	target weak.Pointer[allocation[T]]
}

// WeakRef is a non-owning reference to a WeakShared[T]'s allocation. It
// does not keep the allocation's strong count alive and does not by
// itself prevent the allocation from being reset and recycled once every
// Shared/WeakShared referencing it is released — except that, for as long
// as the WeakRef itself is reachable, Release's pool hand-off is
// suppressed (see Shared.Release), so Upgrade can never observe a
// resurrected, reused allocation under a different logical value.
type WeakRef[T poolshark.Poolable] struct {
	ctrl *weakControl[T]
}

// WeakShared is Shared's weak-tracking peer: the same allocation, the
// same pooling discipline (Get/Clone/Release/ReallyReleased/Reset/
// Capacity/BindPool all behave identically), but it additionally supports
// Downgrade. Shared itself deliberately does not, matching the two
// variants "differing only in whether the embedded count also tracks weak
// references" — a plain Shared never installs a weakControl, and
// converting between the two is free since both are thin views over the
// same *allocation[T].
type WeakShared[T poolshark.Poolable] struct {
	a *allocation[T]
}

// AsWeakShared produces a WeakShared view of the same allocation s wraps.
// No count changes: this is a reinterpretation, not a new reference.
func (s Shared[T]) AsWeakShared() WeakShared[T] {
	return WeakShared[T]{a: s.a}
}

// AsShared produces a Shared view of the same allocation w wraps.
func (w WeakShared[T]) AsShared() Shared[T] {
	return Shared[T]{a: w.a}
}

func (w WeakShared[T]) Get() *T { return &w.a.value }

func (w WeakShared[T]) Clone() WeakShared[T] {
	w.a.strong.Add(1)
	return WeakShared[T]{a: w.a}
}

func (w WeakShared[T]) Release() {
	Shared[T]{a: w.a}.Release()
}

func (w WeakShared[T]) ReallyReleased() bool {
	return Shared[T]{a: w.a}.ReallyReleased()
}

func (w WeakShared[T]) Reset() {
	w.a.value.Reset()
}

func (w WeakShared[T]) Capacity() int {
	return w.a.value.Capacity()
}

func (w WeakShared[T]) BindPool(p weak.Pointer[sharedPool[T]]) {
	w.a.pool = p
}

// Downgrade produces a WeakRef to w's allocation, installing the shared
// weakControl on first use. Concurrent Downgrade calls on clones of the
// same WeakShared race to install it, so the install is a CAS: whichever
// goroutine loses adopts the winner's weakControl instead of its own.
func (w WeakShared[T]) Downgrade() *WeakRef[T] {
	a := w.a
	ctrl := a.weakCtrl.Load()
	if ctrl == nil {
		fresh := &weakControl[T]{}
		fresh.target = weak.Make(a)
		if a.weakCtrl.CompareAndSwap(nil, fresh) {
			ctrl = fresh
		} else {
			ctrl = a.weakCtrl.Load()
		}
	}
	ctrl.count.Add(1)
	ref := &WeakRef[T]{ctrl: ctrl}
	runtime.SetFinalizer(ref, func(r *WeakRef[T]) {
		r.ctrl.count.Add(-1)
	})
	return ref
}

// Upgrade attempts to produce a new WeakShared[T] from w. It fails if the
// allocation has already made its terminal release (strong count at
// zero) — which, by construction, can only be the case here because the
// owning strong chain released while this WeakRef (or a sibling) was
// still alive, since a live weak reference suppresses pool recycling of
// the allocation it targets.
func (w *WeakRef[T]) Upgrade() (WeakShared[T], bool) {
	a := w.ctrl.target.Value()
	if a == nil {
		return WeakShared[T]{}, false
	}
	for {
		cur := a.strong.Load()
		if cur == 0 {
			return WeakShared[T]{}, false
		}
		if a.strong.CompareAndSwap(cur, cur+1) {
			return WeakShared[T]{a: a}, true
		}
	}
}

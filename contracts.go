package poolshark

import "weak"

// Poolable is the minimal capability a value must support to be handed
// back to a pool: it can be cleared in place, and it can report how much
// backing capacity it currently holds.
type Poolable interface {
	// Reset clears the value to a logically empty state. It must release
	// ownership of any previously contained elements before returning —
	// no live reference to prior elements may survive a Reset.
	Reset()

	// Capacity reports the current backing capacity, in whatever unit
	// (elements or bytes) is natural for the concrete type.
	Capacity() int
}

// ReallyReleaser is implemented by poolable values whose "release" may be
// aliased — a shared container releases for real only when the last owner
// lets go. Types that are never aliased don't need to implement it; the
// pools treat its absence as always-true.
type ReallyReleaser interface {
	// ReallyReleased reports whether this release corresponds to the
	// disappearance of the last owner.
	ReallyReleased() bool
}

// IsoPoolable is a Poolable value whose empty representation depends only
// on the layouts (size and alignment) of its type parameters, not on their
// identity. Two different concrete instantiations that share identical
// parameter layouts may therefore share a pool slot; the implementation is
// responsible for guaranteeing that raw storage from one instantiation is
// safe to reinterpret as another whenever their Discriminants match and
// Reset has been called — callers of this interface are trusted, not
// re-verified, which is why implementing it is a commitment, not a
// convenience.
type IsoPoolable interface {
	Poolable

	// Discriminant returns the packed layout key for this type. An
	// invalid (Discriminant.Valid() == false) return value opts the type
	// out of the iso-sharing path entirely: Take always constructs
	// fresh and Insert always releases normally.
	Discriminant() Discriminant
}

// SizedIsoPoolable is an IsoPoolable whose const-size parameter (the
// distilled spec's "take_sz<T, const N>") is, for lack of const generics
// in Go, a runtime argument instead of a type parameter. DiscriminantSized
// must be safe to call on the zero value of T, exactly like Discriminant.
type SizedIsoPoolable interface {
	IsoPoolable

	// DiscriminantSized returns the packed layout key with n encoded in
	// the const-size field.
	DiscriminantSized(n int) Discriminant
}

// RawPoolable is the low-level contract for values that carry their own
// pool back-pointer inline, rather than being wrapped by a separate
// handle. W is the type of whatever the weak pointer resolves to (a pool
// core). rcpool.Shared and rcpool.WeakShared are the only implementations
// of this in the module; most callers want GPooled instead, which adapts
// any Poolable into something a Pool can hand out without requiring this.
type RawPoolable[W any] interface {
	Poolable

	// BindPool rebinds the value's embedded weak pool pointer. Called
	// both at construction (binding to the originating pool) and, for
	// rcpool.Shared specifically, left untouched thereafter — the bound
	// pool never changes after construction in this module's usage.
	BindPool(weak.Pointer[W])
}

package lpool

import "github.com/estokes/poolshark"

// LPooled owns a T checked out from the local registry. Release must be
// called when the caller is done with it — Go has no destructors, so
// unlike the distilled spec's "on drop" wording, the return-to-pool
// protocol only runs when Release is called explicitly (see SPEC_FULL.md
// §9, "No deterministic destructors"). A zero-value LPooled is inert;
// calling Release on it, or calling Release twice, is a safe no-op.
type LPooled[T poolshark.IsoPoolable] struct {
	value    T
	live     bool // set only by newWrapper; false for the zero value
	released bool
}

func newWrapper[T poolshark.IsoPoolable](v T) LPooled[T] {
	return LPooled[T]{value: v, live: true}
}

// Get returns the wrapped value. The wrapper remains responsible for
// releasing it; Get does not transfer ownership.
func (w *LPooled[T]) Get() T {
	return w.value
}

// Release resets and offers the value back to the calling goroutine's
// currently-affine local slot. Safe to call more than once.
func (w *LPooled[T]) Release() {
	if w.released || !w.live {
		return
	}
	w.released = true
	v := w.value
	var zero T
	w.value = zero
	Insert(v)
}

package containers

import (
	"github.com/estokes/poolshark"
	"github.com/estokes/poolshark/lpool"
)

// Optional wraps a possibly-absent Poolable value: the adapter for the
// spec's "optional-of-poolable." Its own empty representation (present
// == false) is layout-independent in theory, but its occupied
// representation depends entirely on V's own shape, which in general is
// not pointer-free, so it never reports a valid Discriminant — it always
// goes through the non-iso path.
type Optional[V poolshark.Poolable] struct {
	value   V
	present bool

	// highWater is the largest Capacity the wrapped value has ever
	// reported, snapshotted before Reset clears presence. Reset always
	// runs before admission checks Capacity (see lpool.Insert), so
	// reporting o.value.Capacity() directly once absent would read as
	// whatever the zero value of V reports — usually 0 — and silently
	// defeat max_element_capacity for anything ever stored here.
	highWater int
}

// NewOptional constructs an absent Optional, suitable as an lpool/gpool
// factory.
func NewOptional[V poolshark.Poolable]() *Optional[V] { return &Optional[V]{} }

// Set stores v and marks the Optional present.
func (o *Optional[V]) Set(v V) {
	o.value = v
	o.present = true
	if c := v.Capacity(); c > o.highWater {
		o.highWater = c
	}
}

// Get returns the wrapped value and whether one is present.
func (o *Optional[V]) Get() (V, bool) {
	return o.value, o.present
}

// Capacity reports the largest capacity the wrapped value has ever
// reported, whether or not a value is currently present.
func (o *Optional[V]) Capacity() int {
	return o.highWater
}

// Reset resets the wrapped value in place (if present, so its own
// capacity is retained for reuse) and marks the Optional absent.
// highWater is refreshed from the value's capacity before the value
// itself is reset, so it survives to reflect the retained footprint.
func (o *Optional[V]) Reset() {
	if o.present {
		if c := o.value.Capacity(); c > o.highWater {
			o.highWater = c
		}
		o.value.Reset()
	}
	o.present = false
}

func (o *Optional[V]) Discriminant() poolshark.Discriminant {
	return poolshark.InvalidDiscriminant
}

// RegisterOptional installs Optional[V]'s fresh-value factory with lpool.
func RegisterOptional[V poolshark.Poolable]() {
	lpool.Register[*Optional[V]](func() *Optional[V] { return NewOptional[V]() })
}

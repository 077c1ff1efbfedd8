package containers

import (
	"github.com/estokes/poolshark"
	"github.com/estokes/poolshark/lpool"
)

// OrderedMap is a hash-map that additionally remembers insertion order.
// Like Map, it embeds a builtin map internally and so never reports a
// valid Discriminant — see Map's doc comment for why.
type OrderedMap[K comparable, V any] struct {
	m     map[K]V
	order []K

	// highWater is the largest len(m) this map has ever reached — the
	// same Reset-surviving footprint proxy Map.highWater is, for the same
	// reason (see Map.Reset). order's own backing array is cap(order),
	// which already survives Reset on its own since Reset truncates
	// rather than discards it.
	highWater int
}

// NewOrderedMap constructs an empty OrderedMap, suitable as an
// lpool/gpool factory.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{m: map[K]V{}}
}

func (o *OrderedMap[K, V]) Set(k K, v V) {
	if _, exists := o.m[k]; !exists {
		o.order = append(o.order, k)
	}
	o.m[k] = v
	if n := len(o.m); n > o.highWater {
		o.highWater = n
	}
}

func (o *OrderedMap[K, V]) Get(k K) (V, bool) { v, ok := o.m[k]; return v, ok }
func (o *OrderedMap[K, V]) Len() int          { return len(o.order) }

// Keys returns the keys in insertion order.
func (o *OrderedMap[K, V]) Keys() []K { return o.order }

// Capacity reports the larger of the map's retained bucket footprint and
// the order slice's retained backing capacity.
func (o *OrderedMap[K, V]) Capacity() int {
	if c := cap(o.order); c > o.highWater {
		return c
	}
	return o.highWater
}

// Reset clears every entry and the order slice, retaining the order
// slice's backing array and the map's bucket footprint. highWater is
// deliberately left untouched, same as Map.Reset.
func (o *OrderedMap[K, V]) Reset() {
	for k := range o.m {
		delete(o.m, k)
	}
	var zero K
	for i := range o.order {
		o.order[i] = zero
	}
	o.order = o.order[:0]
}

func (o *OrderedMap[K, V]) Discriminant() poolshark.Discriminant {
	return poolshark.InvalidDiscriminant
}

// RegisterOrderedMap installs OrderedMap[K,V]'s fresh-value factory with
// lpool.
func RegisterOrderedMap[K comparable, V any]() {
	lpool.Register[*OrderedMap[K, V]](func() *OrderedMap[K, V] { return NewOrderedMap[K, V]() })
}

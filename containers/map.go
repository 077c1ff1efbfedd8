package containers

import (
	"github.com/estokes/poolshark"
	"github.com/estokes/poolshark/lpool"
)

// Map is a hash-map adapter. Unlike Vec and Deque, it never reports a
// valid Discriminant: Go's builtin map bakes its hash and equality
// functions into the runtime type descriptor for its concrete K, V pair,
// so two different instantiations can never safely share a recycled
// backing allocation the way two same-layout slices can. It still works
// through the non-iso, per-concrete-T path (lpool/gpool keyed by
// reflect.Type) — exactly the fallback §3 describes for any type that
// fails the iso constraints.
type Map[K comparable, V any] struct {
	m map[K]V

	// highWater is the largest len(m) this map has ever reached. Go's map
	// has no operation that shrinks its bucket array back down and no way
	// to query that array's size directly, so this is the proxy for
	// backing footprint that survives Reset's clearing and is what
	// Capacity reports — len(m) alone would read as 0 right after Reset,
	// which is exactly when admission checks it.
	highWater int
}

// NewMap constructs an empty Map, suitable as an lpool/gpool factory.
func NewMap[K comparable, V any]() *Map[K, V] { return &Map[K, V]{m: map[K]V{}} }

func (m *Map[K, V]) Set(k K, v V) {
	m.m[k] = v
	if n := len(m.m); n > m.highWater {
		m.highWater = n
	}
}
func (m *Map[K, V]) Get(k K) (V, bool) { v, ok := m.m[k]; return v, ok }
func (m *Map[K, V]) Delete(k K)        { delete(m.m, k) }
func (m *Map[K, V]) Len() int          { return len(m.m) }
func (m *Map[K, V]) Capacity() int     { return m.highWater }

// Reset clears every entry. Go's map has no operation that shrinks its
// bucket array back down, so unlike Vec/Deque's slice reuse this keeps
// whatever bucket footprint the map has already grown to — still the
// allocator-pressure win the pool exists for, since re-filling an
// already-grown empty map avoids the rehashing that comes with growth.
// highWater is deliberately left untouched here: it is the record of that
// retained footprint, and admission checks it after Reset has already run.
func (m *Map[K, V]) Reset() {
	for k := range m.m {
		delete(m.m, k)
	}
}

func (m *Map[K, V]) Discriminant() poolshark.Discriminant {
	return poolshark.InvalidDiscriminant
}

// RegisterMap installs Map[K,V]'s fresh-value factory with lpool.
func RegisterMap[K comparable, V any]() {
	lpool.Register[*Map[K, V]](func() *Map[K, V] { return NewMap[K, V]() })
}

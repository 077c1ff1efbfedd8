package containers

import (
	"github.com/estokes/poolshark"
	"github.com/estokes/poolshark/classid"
	"github.com/estokes/poolshark/lpool"
)

// Deque is a growable double-ended queue backed by a single slice used
// as a ring buffer. Like Vec, its backing array is pointer-free-eligible
// for iso-sharing under the same scalarLayout constraint.
type Deque[E any] struct {
	data        []E
	head, count int
}

// NewDeque constructs an empty Deque, suitable as an lpool/gpool factory.
func NewDeque[E any]() *Deque[E] { return &Deque[E]{} }

func (d *Deque[E]) Len() int { return d.count }

func (d *Deque[E]) PushBack(e E) {
	if d.count == len(d.data) {
		d.grow()
	}
	d.data[(d.head+d.count)%len(d.data)] = e
	d.count++
}

func (d *Deque[E]) PushFront(e E) {
	if d.count == len(d.data) {
		d.grow()
	}
	d.head = (d.head - 1 + len(d.data)) % len(d.data)
	d.data[d.head] = e
	d.count++
}

func (d *Deque[E]) PopFront() (e E, ok bool) {
	if d.count == 0 {
		return e, false
	}
	e = d.data[d.head]
	var zero E
	d.data[d.head] = zero
	d.head = (d.head + 1) % len(d.data)
	d.count--
	return e, true
}

func (d *Deque[E]) grow() {
	newCap := len(d.data) * 2
	if newCap == 0 {
		newCap = 8
	}
	grown := make([]E, newCap)
	for i := 0; i < d.count; i++ {
		grown[i] = d.data[(d.head+i)%len(d.data)]
	}
	d.data = grown
	d.head = 0
}

func (d *Deque[E]) Capacity() int { return len(d.data) }

// Reset clears the deque to empty, zeroing every live slot so no stale
// element stays reachable through the backing array, and retains the
// backing array itself for reuse.
func (d *Deque[E]) Reset() {
	var zero E
	for i := 0; i < d.count; i++ {
		d.data[(d.head+i)%len(d.data)] = zero
	}
	d.head, d.count = 0, 0
}

func (d *Deque[E]) Discriminant() poolshark.Discriminant {
	size, align, ok := scalarLayout[E]()
	if !ok {
		return poolshark.InvalidDiscriminant
	}
	layout, ok := poolshark.NewLayoutCode(size, align)
	if !ok {
		return poolshark.InvalidDiscriminant
	}
	class, ok := classid.Assign("containers.Deque")
	if !ok {
		return poolshark.InvalidDiscriminant
	}
	disc, ok := poolshark.PackDiscriminant(class, -1, layout, poolshark.AbsentLayout)
	if !ok {
		return poolshark.InvalidDiscriminant
	}
	return disc
}

// RegisterDeque installs Deque[E]'s fresh-value factory with lpool.
func RegisterDeque[E any]() {
	lpool.Register[*Deque[E]](func() *Deque[E] { return NewDeque[E]() })
}

package containers

import (
	"github.com/estokes/poolshark"
	"github.com/estokes/poolshark/classid"
	"github.com/estokes/poolshark/lpool"
)

// Vec is a growable sequence, the adapter equivalent of Rust's Vec<E>.
// Reset clears its length but, like a real pool workload wants, retains
// the backing array's capacity.
type Vec[E any] struct {
	data []E
}

// NewVec constructs an empty Vec, suitable as an lpool/gpool factory.
func NewVec[E any]() *Vec[E] { return &Vec[E]{} }

func (v *Vec[E]) Push(e E)      { v.data = append(v.data, e) }
func (v *Vec[E]) Len() int      { return len(v.data) }
func (v *Vec[E]) At(i int) E    { return v.data[i] }
func (v *Vec[E]) Slice() []E    { return v.data }
func (v *Vec[E]) Capacity() int { return cap(v.data) }

// Reset clears the vector to empty, zeroing every retained slot first so
// no stale element (in particular no stale pointer) stays reachable
// through the backing array.
func (v *Vec[E]) Reset() {
	var zero E
	for i := range v.data {
		v.data[i] = zero
	}
	v.data = v.data[:0]
}

// Discriminant reports the class id for "Vec" (shared by every
// instantiation) packed with E's layout, or InvalidDiscriminant if E is
// not pointer-free (see scalarLayout) and so cannot safely share a
// recycled backing array with a different instantiation.
func (v *Vec[E]) Discriminant() poolshark.Discriminant {
	return vecDiscriminant[E]()
}

func vecDiscriminant[E any]() poolshark.Discriminant {
	size, align, ok := scalarLayout[E]()
	if !ok {
		return poolshark.InvalidDiscriminant
	}
	layout, ok := poolshark.NewLayoutCode(size, align)
	if !ok {
		return poolshark.InvalidDiscriminant
	}
	class, ok := classid.Assign("containers.Vec")
	if !ok {
		return poolshark.InvalidDiscriminant
	}
	d, ok := poolshark.PackDiscriminant(class, -1, layout, poolshark.AbsentLayout)
	if !ok {
		return poolshark.InvalidDiscriminant
	}
	return d
}

// RegisterVec installs Vec[E]'s fresh-value factory with lpool, so
// lpool.Take[*Vec[E]] and lpool.Insert[*Vec[E]] work. Call once per
// concrete E a program actually pools, typically from an init func.
func RegisterVec[E any]() {
	lpool.Register[*Vec[E]](func() *Vec[E] { return NewVec[E]() })
}

package containers_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/estokes/poolshark/containers"
	"github.com/estokes/poolshark/gpool"
)

// These exercise the gpool path directly (gpool.GPooled.Release resets a
// value and then checks its Capacity, same ordering lpool.Insert uses),
// since Map/OrderedMap/Optional never report a valid Discriminant and so
// never reach lpool's Discriminant-gated stack at all.

func TestMapOverCapacityNotReadmitted(t *testing.T) {
	h := gpool.New[*containers.Map[int, int]](4, 8, containers.NewMap[int, int])

	w := h.Take()
	m := w.Get()
	for i := 0; i < 64; i++ {
		m.Set(i, i)
	}
	w.Release()

	w2 := h.Take()
	defer w2.Release()
	require.NotSame(t, m, w2.Get(), "a map that grew past max_element_capacity must not be recycled")
}

func TestOrderedMapOverCapacityNotReadmitted(t *testing.T) {
	h := gpool.New[*containers.OrderedMap[int, int]](4, 8, containers.NewOrderedMap[int, int])

	w := h.Take()
	o := w.Get()
	for i := 0; i < 64; i++ {
		o.Set(i, i)
	}
	w.Release()

	w2 := h.Take()
	defer w2.Release()
	require.NotSame(t, o, w2.Get(), "an ordered map that grew past max_element_capacity must not be recycled")
}

func TestOptionalOverCapacityNotReadmitted(t *testing.T) {
	h := gpool.New[*containers.Optional[*containers.CharBuf]](4, 8, containers.NewOptional[*containers.CharBuf])

	w := h.Take()
	o := w.Get()
	big := containers.NewCharBuf()
	big.WriteString("this string is long enough to exceed a tiny max_element_capacity")
	o.Set(big)
	w.Release()

	w2 := h.Take()
	defer w2.Release()
	require.NotSame(t, o, w2.Get(), "an optional whose wrapped value grew past max_element_capacity must not be recycled")
}

func TestMapUnderCapacityIsReadmitted(t *testing.T) {
	h := gpool.New[*containers.Map[int, int]](4, 1<<20, containers.NewMap[int, int])

	w := h.Take()
	m := w.Get()
	m.Set(1, 1)
	w.Release()

	w2 := h.Take()
	defer w2.Release()
	require.Same(t, m, w2.Get(), "a small map should still be recycled normally")
}

package gpool_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/estokes/poolshark/gpool"
)

type mockBuf struct {
	data []byte
}

func (b *mockBuf) Reset()        { b.data = b.data[:0] }
func (b *mockBuf) Capacity() int { return cap(b.data) }

func newMockBuf() *mockBuf { return &mockBuf{data: make([]byte, 0, 32)} }

func TestTakeReleaseReusesValue(t *testing.T) {
	h := gpool.New[*mockBuf](4, 1<<20, newMockBuf)

	w := h.Take()
	first := w.Get()
	w.Release()

	w2 := h.Take()
	defer w2.Release()
	require.Same(t, first, w2.Get())
}

func TestTakeConstructsFreshWhenEmpty(t *testing.T) {
	h := gpool.New[*mockBuf](4, 1<<20, newMockBuf)
	w := h.Take()
	defer w.Release()
	require.NotNil(t, w.Get())
}

func TestReleaseOverCapacityNotAdmitted(t *testing.T) {
	h := gpool.New[*mockBuf](4, 8, newMockBuf)

	w := h.Take()
	v := w.Get()
	v.data = make([]byte, 0, 1024)
	w.Release()

	w2 := h.Take()
	defer w2.Release()
	require.NotSame(t, v, w2.Get())
}

func TestWeakHandleResolveFailsAfterPoolCollected(t *testing.T) {
	h := gpool.New[*mockBuf](4, 1<<20, newMockBuf)
	weak := h.Weak()
	h = gpool.StrongHandle[*mockBuf]{} // drop the only strong handle

	runtime.GC()
	runtime.GC()

	_, ok := weak.Resolve()
	require.False(t, ok, "pool core should be collectible once every strong handle is gone")
}

func TestOrphanAssignReturnsToAssignedPool(t *testing.T) {
	h := gpool.New[*mockBuf](4, 1<<20, newMockBuf)

	o := gpool.Orphan[*mockBuf](newMockBuf())
	v := o.Get()
	o.Assign(h)
	o.Release()

	w := h.Take()
	defer w.Release()
	require.Same(t, v, w.Get(), "a released, pool-assigned orphan must be admitted to that pool")
}

func TestReleaseIsIdempotent(t *testing.T) {
	h := gpool.New[*mockBuf](4, 1<<20, newMockBuf)
	w := h.Take()
	w.Release()
	require.NotPanics(t, func() { w.Release() })
}

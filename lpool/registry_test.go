package lpool_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/estokes/poolshark"
	"github.com/estokes/poolshark/lpool"
)

type mockBox struct {
	id       int
	data     []byte
	released bool
}

func (b *mockBox) Reset() {
	b.data = b.data[:0]
}

func (b *mockBox) Capacity() int { return cap(b.data) }

func (b *mockBox) Discriminant() poolshark.Discriminant {
	d, ok := poolshark.PackDiscriminant(7001, -1, poolshark.AbsentLayout, poolshark.AbsentLayout)
	if !ok {
		panic("test discriminant should always pack")
	}
	return d
}

var nextMockID int

func newMockBox() *mockBox {
	nextMockID++
	return &mockBox{id: nextMockID, data: make([]byte, 0, 64)}
}

func init() {
	lpool.Register[*mockBox](newMockBox)
}

func TestTakeInsertReusesSameValue(t *testing.T) {
	lpool.Clear()

	w1 := lpool.Take[*mockBox]()
	first := w1.Get()
	w1.Release()

	w2 := lpool.Take[*mockBox]()
	second := w2.Get()
	defer w2.Release()

	require.Same(t, first, second, "sequential take/release/take on one goroutine must reuse the same value")
}

func TestTakeConstructsFreshWhenSlotEmpty(t *testing.T) {
	lpool.Clear()

	w := lpool.Take[*mockBox]()
	require.NotNil(t, w.Get())
}

func TestReleaseIsIdempotent(t *testing.T) {
	lpool.Clear()

	w := lpool.Take[*mockBox]()
	w.Release()
	require.NotPanics(t, func() { w.Release() })
}

func TestInsertRespectsMaxPoolSize(t *testing.T) {
	lpool.Clear()
	lpool.SetSize[*mockBox](1, 1<<20)

	a, b := newMockBox(), newMockBox()
	lpool.Insert[*mockBox](a)
	lpool.Insert[*mockBox](b) // should be dropped: slot already at max_pool_size=1

	w1 := lpool.Take[*mockBox]()
	got1 := w1.Get()
	defer w1.Release() // releasing before the second take would re-admit got1

	w2 := lpool.Take[*mockBox]()
	got2 := w2.Get()
	defer w2.Release()

	// only the first insert was admitted (max_pool_size=1); the second
	// insert should have been silently dropped
	require.Same(t, a, got1)
	require.NotSame(t, got1, got2)
}

func TestInsertRejectsOverCapacity(t *testing.T) {
	lpool.Clear()
	lpool.SetSize[*mockBox](4, 8)

	v := newMockBox()
	v.data = make([]byte, 0, 1024) // exceeds max_element_capacity=8
	lpool.Insert[*mockBox](v)

	w := lpool.Take[*mockBox]()
	defer w.Release()
	require.NotSame(t, v, w.Get(), "an over-capacity value must not be admitted")
}

func TestClearTypeEmptiesOnlyThatType(t *testing.T) {
	lpool.Clear()
	v := newMockBox()
	lpool.Insert[*mockBox](v)
	other := newReentrantBox()
	lpool.Insert[*reentrantBox](other)

	lpool.ClearType[*mockBox]()

	w := lpool.Take[*mockBox]()
	defer w.Release()
	require.NotSame(t, v, w.Get())

	wo := lpool.Take[*reentrantBox]()
	defer wo.Release()
	require.Same(t, other, wo.Get(), "ClearType must leave other types' slots intact")
}

// reentrantBox's Reset recursively calls lpool.Insert on a second
// instance of itself, the "counting Poolable whose Reset recursively
// inserts itself" case the reentrancy guard exists for: the nested
// Insert's TryLock must fail, since the outer Insert is still holding the
// same shard's lock while Reset runs.
type reentrantBox struct {
	data    []byte
	reenter bool
}

func (b *reentrantBox) Reset() {
	b.data = b.data[:0]
	if b.reenter {
		lpool.Insert[*reentrantBox](&reentrantBox{})
	}
}

func (b *reentrantBox) Capacity() int { return cap(b.data) }

func (b *reentrantBox) Discriminant() poolshark.Discriminant {
	d, ok := poolshark.PackDiscriminant(7002, -1, poolshark.AbsentLayout, poolshark.AbsentLayout)
	if !ok {
		panic("test discriminant should always pack")
	}
	return d
}

func newReentrantBox() *reentrantBox { return &reentrantBox{} }

func init() {
	lpool.Register[*reentrantBox](newReentrantBox)
}

// fakeRecorder captures AdmissionFailure reasons so tests can observe
// which admission path a call actually took without reaching into lpool's
// unexported shard state.
type fakeRecorder struct {
	mu      sync.Mutex
	reasons []string
}

func (f *fakeRecorder) Hit(string)  {}
func (f *fakeRecorder) Miss(string) {}
func (f *fakeRecorder) AdmissionFailure(pool, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reasons = append(f.reasons, reason)
}
func (f *fakeRecorder) Occupancy(string, int) {}

func (f *fakeRecorder) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.reasons))
	copy(out, f.reasons)
	return out
}

func TestInsertReentrancyDuringResetIsDeclined(t *testing.T) {
	lpool.Clear()
	lpool.ClearType[*reentrantBox]()

	rec := &fakeRecorder{}
	poolshark.SetMetrics(rec)
	defer poolshark.SetMetrics(nil)

	outer := &reentrantBox{reenter: true}
	lpool.Insert[*reentrantBox](outer)

	require.Contains(t, rec.snapshot(), "reentrant",
		"the nested Insert made from within Reset must observe the outer Insert's lock and decline")
}

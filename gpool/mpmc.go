package gpool

import "sync/atomic"

// mpmcRing is a bounded, lock-free, multi-producer multi-consumer FIFO
// ring buffer: the classic Vyukov bounded-queue algorithm (a per-slot
// sequence number instead of a pointer-tagged stack), chosen over a
// lock-free bounded stack because it needs no hazard pointers or tagged
// pointers to stay ABA-safe — see SPEC_FULL.md §9 for why FIFO was picked
// over LIFO here. Grounded on the shape of the reference corpus's own
// lock-free pool/queue code (c25fee58_NikoMalik-sync_pool's poolDequeue,
// and the sync.Pool sources carried in erlangtui-go1.17.13/yaofei517-go),
// generalized from single-producer to multi-producer via per-cell
// sequence counters.
type mpmcRing[T any] struct {
	cells []ringCell[T]
	mask  uint64

	enqueuePos atomic.Uint64
	dequeuePos atomic.Uint64
}

type ringCell[T any] struct {
	seq atomic.Uint64
	val T
}

func newMPMCRing[T any](capacity int) *mpmcRing[T] {
	if capacity < 1 {
		capacity = 1
	}
	size := nextPow2(capacity)
	cells := make([]ringCell[T], size)
	for i := range cells {
		cells[i].seq.Store(uint64(i))
	}
	return &mpmcRing[T]{cells: cells, mask: uint64(size - 1)}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func (q *mpmcRing[T]) cap() int { return len(q.cells) }

// push enqueues v. It returns false if the ring is full — the caller
// treats that exactly like any other admission failure: release normally.
func (q *mpmcRing[T]) push(v T) bool {
	pos := q.enqueuePos.Load()
	for {
		cell := &q.cells[pos&q.mask]
		seq := cell.seq.Load()
		diff := int64(seq) - int64(pos)
		switch {
		case diff == 0:
			if q.enqueuePos.CompareAndSwap(pos, pos+1) {
				cell.val = v
				cell.seq.Store(pos + 1)
				return true
			}
			pos = q.enqueuePos.Load()
		case diff < 0:
			return false // full
		default:
			pos = q.enqueuePos.Load()
		}
	}
}

// pop dequeues the oldest value, if any.
func (q *mpmcRing[T]) pop() (T, bool) {
	pos := q.dequeuePos.Load()
	for {
		cell := &q.cells[pos&q.mask]
		seq := cell.seq.Load()
		diff := int64(seq) - int64(pos+1)
		switch {
		case diff == 0:
			if q.dequeuePos.CompareAndSwap(pos, pos+1) {
				v := cell.val
				var zero T
				cell.val = zero
				cell.seq.Store(pos + q.mask + 1)
				return v, true
			}
			pos = q.dequeuePos.Load()
		case diff < 0:
			var zero T
			return zero, false // empty
		default:
			pos = q.dequeuePos.Load()
		}
	}
}

// drain pops every remaining value and calls fn on each; used when a
// pool's core is finalized (§9: runtime.AddCleanup replacing "when the
// pool is dropped all queued values are released").
func (q *mpmcRing[T]) drain(fn func(T)) {
	for {
		v, ok := q.pop()
		if !ok {
			return
		}
		fn(v)
	}
}

package gpool_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/estokes/poolshark/gpool"
)

type propBuf struct {
	data []byte
}

func (b *propBuf) Reset()        { b.data = b.data[:0] }
func (b *propBuf) Capacity() int { return cap(b.data) }

// TestPropGPoolReuseAdmissionAndBound is a model-based check, in the
// teacher's own rapid.Check/t.Repeat style, of three of the properties
// promised for this module: Reuse (a released value comes back out before
// any fresh one is constructed), Admission (an over-capacity release is
// never recycled), and Bounded pool (the pool never holds more recycled
// values than its configured size allows). maxPoolSize is drawn from
// powers of two so the model's bound matches the ring's actual rounded-up
// capacity exactly, not just the requested size.
func TestPropGPoolReuseAdmissionAndBound(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxPoolSize := rapid.SampledFrom([]int{1, 2, 4, 8}).Draw(t, "maxPoolSize")
		maxElementCapacity := rapid.IntRange(4, 32).Draw(t, "maxElementCapacity")
		h := gpool.New[*propBuf](maxPoolSize, maxElementCapacity, func() *propBuf { return &propBuf{} })

		var model []*propBuf // FIFO of values currently believed recycled in the ring
		outstanding := map[int]gpool.GPooled[*propBuf]{}
		nextID := 0

		t.Repeat(map[string]func(*rapid.T){
			"take": func(t *rapid.T) {
				w := h.Take()
				v := w.Get()
				if len(model) > 0 {
					want := model[0]
					if v != want {
						t.Fatalf("reuse violated: expected FIFO head %p, got %p", want, v)
					}
					model = model[1:]
				}
				outstanding[nextID] = w
				nextID++
			},
			"release": func(t *rapid.T) {
				if len(outstanding) == 0 {
					return
				}
				var id int
				for k := range outstanding {
					id = k
					break
				}
				w := outstanding[id]
				delete(outstanding, id)
				v := w.Get()
				overCap := rapid.Bool().Draw(t, "overCap")
				if overCap {
					v.data = make([]byte, 0, maxElementCapacity*2)
				}
				w.Release()
				if overCap {
					return // admission must have declined; nothing joins the model
				}
				if len(model) >= maxPoolSize {
					return // ring must be at capacity; admission declines
				}
				model = append(model, v)
			},
			"check_bound": func(t *rapid.T) {
				if len(model) > maxPoolSize {
					t.Fatalf("bounded pool violated: model holds %d, max is %d", len(model), maxPoolSize)
				}
			},
		})

		for _, w := range outstanding {
			w.Release()
		}
	})
}

// TestPropReleaseIdempotentUnderRepeatedCalls checks the Idempotent
// cleanup property: calling GPooled.Release any number of times beyond
// the first is a safe no-op, never a double-enqueue of the same value
// into the ring.
func TestPropReleaseIdempotentUnderRepeatedCalls(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := gpool.New[*propBuf](4, 1<<20, func() *propBuf { return &propBuf{} })

		w := h.Take()
		orig := w.Get()
		n := rapid.IntRange(1, 5).Draw(t, "releases")
		for i := 0; i < n; i++ {
			w.Release()
		}

		w2 := h.Take()
		if w2.Get() != orig {
			t.Fatalf("expected the released value to come back first")
		}
		w3 := h.Take()
		if w3.Get() == orig {
			t.Fatalf("repeated Release must not enqueue the same value twice")
		}
		w3.Release()
		w2.Release()
	})
}

package gpool

import (
	"testing"

	"pgregory.net/rapid"
)

// TestPropRingFIFOOrder checks the core ordering invariant of the
// Vyukov-style bounded ring used throughout this package: values come
// back out in the order they went in, and push fails cleanly once the
// ring is at capacity rather than corrupting state.
func TestPropRingFIFOOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 8).Draw(t, "capacity")
		r := newMPMCRing[int](capacity)

		var model []int
		next := 0

		t.Repeat(map[string]func(*rapid.T){
			"push": func(t *rapid.T) {
				v := next
				next++
				if r.push(v) {
					model = append(model, v)
				}
			},
			"pop": func(t *rapid.T) {
				got, ok := r.pop()
				if len(model) == 0 {
					if ok {
						t.Fatalf("pop succeeded on an empty model ring")
					}
					return
				}
				if !ok {
					t.Fatalf("pop failed but model expected %d", model[0])
				}
				if got != model[0] {
					t.Fatalf("FIFO violated: want %d, got %d", model[0], got)
				}
				model = model[1:]
			},
		})
	})
}

package containers_test

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"github.com/estokes/poolshark/containers"
	"github.com/estokes/poolshark/lpool"
)

func addrOf(v any) uintptr {
	return reflect.ValueOf(v).Pointer()
}

// TestPropIsoIsolationAcrossSameAndDifferentLayouts checks the
// Iso-isolation property: Vec[int32] and Vec[uint32] share identical
// layouts (same size, same alignment, both pointer-free) and so must be
// able to trade recycled raw storage through lpool's Discriminant-keyed
// slot, while Vec[int64] (a different layout) must never receive storage
// originally backing one of the other two, and vice versa.
func TestPropIsoIsolationAcrossSameAndDifferentLayouts(t *testing.T) {
	containers.RegisterVec[int32]()
	containers.RegisterVec[uint32]()
	containers.RegisterVec[int64]()

	rapid.Check(t, func(t *rapid.T) {
		lpool.Clear()

		group32 := map[uintptr]bool{} // addresses ever inserted as int32 or uint32
		group64 := map[uintptr]bool{} // addresses ever inserted as int64

		t.Repeat(map[string]func(*rapid.T){
			"insert_int32": func(t *rapid.T) {
				v := containers.NewVec[int32]()
				group32[addrOf(v)] = true
				lpool.Insert[*containers.Vec[int32]](v)
			},
			"insert_uint32": func(t *rapid.T) {
				v := containers.NewVec[uint32]()
				group32[addrOf(v)] = true
				lpool.Insert[*containers.Vec[uint32]](v)
			},
			"insert_int64": func(t *rapid.T) {
				v := containers.NewVec[int64]()
				group64[addrOf(v)] = true
				lpool.Insert[*containers.Vec[int64]](v)
			},
			"take_int32": func(t *rapid.T) {
				w := lpool.Take[*containers.Vec[int32]]()
				defer w.Release()
				if a := addrOf(w.Get()); a != 0 && len(group32) > 0 && !group32[a] && group64[a] {
					t.Fatalf("Vec[int32] received raw storage from the int64 group")
				}
			},
			"take_uint32": func(t *rapid.T) {
				w := lpool.Take[*containers.Vec[uint32]]()
				defer w.Release()
				if a := addrOf(w.Get()); a != 0 && len(group32) > 0 && !group32[a] && group64[a] {
					t.Fatalf("Vec[uint32] received raw storage from the int64 group")
				}
			},
			"take_int64": func(t *rapid.T) {
				w := lpool.Take[*containers.Vec[int64]]()
				defer w.Release()
				if a := addrOf(w.Get()); a != 0 && group32[a] {
					t.Fatalf("Vec[int64] received raw storage from the int32/uint32 group")
				}
			},
		})
	})
}

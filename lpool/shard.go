// Package lpool implements the local (goroutine-affine) pool registry:
// a map from Discriminant to a type-erased stack of recycled raw storage,
// with a wrapper type (LPooled) that returns its payload to the registry
// on release.
//
// Go has no public per-goroutine or per-OS-thread storage API, so "local"
// here is an approximation, not a guarantee: the registry is sharded, and
// shard selection uses a sync.Pool-housed affinity token that reliably
// round-trips to the same shard across an uninterrupted call sequence on
// one goroutine, while spreading genuinely concurrent callers across
// shards. See the module's SPEC_FULL.md §9 for the full rationale.
package lpool

import (
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/estokes/poolshark"
)

// slot is one Discriminant's worth of recycled storage within a shard.
type slot struct {
	stack              []unsafe.Pointer
	maxPoolSize        int
	maxElementCapacity int
}

const defaultMaxPoolSize = 16
const defaultMaxElementCapacity = 1 << 20 // 1Mi elements/bytes

type shard struct {
	mu    sync.Mutex
	slots map[poolshark.Discriminant]*slot
	_     [64]byte // discourage false sharing between shard array entries
}

// registry is the process-wide array of shards backing every Discriminant.
type registry struct {
	shards []*shard
	mask   uint32
}

var globalRegistry = newRegistry()

func newRegistry() *registry {
	n := nextPow2(2 * runtime.GOMAXPROCS(0))
	if n < 1 {
		n = 1
	}
	shards := make([]*shard, n)
	for i := range shards {
		shards[i] = &shard{slots: map[poolshark.Discriminant]*slot{}}
	}
	return &registry{shards: shards, mask: uint32(n - 1)}
}

func nextPow2(n int) int {
	if n < 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// affinityToken is housed in a sync.Pool purely to exploit sync.Pool's
// documented fast path: Get/Put on the same P with no intervening
// blocking call reliably round-trips the same *affinityToken. That gives
// us a stable "which shard am I on right now" read without any public
// per-P or per-goroutine API, at the cost of it being an approximation
// rather than a guarantee (see package doc and SPEC_FULL.md §9).
type affinityToken struct {
	id uint32
}

var nextTokenID atomic.Uint32

var affinityPool = sync.Pool{
	New: func() any {
		// IDs start at 1 so the zero value of a fresh *affinityToken
		// (id == 0) is distinguishable from "already assigned".
		return &affinityToken{id: nextTokenID.Add(1)}
	},
}

// currentShard returns the shard the calling goroutine is presently
// affine to, per the approximation described above.
func (r *registry) currentShard() *shard {
	tok := affinityPool.Get().(*affinityToken)
	idx := tok.id & r.mask
	affinityPool.Put(tok)
	return r.shards[idx]
}

func (r *registry) slotFor(sh *shard, d poolshark.Discriminant, create bool) *slot {
	s, ok := sh.slots[d]
	if !ok {
		if !create {
			return nil
		}
		s = &slot{maxPoolSize: defaultMaxPoolSize, maxElementCapacity: defaultMaxElementCapacity}
		sh.slots[d] = s
	}
	return s
}

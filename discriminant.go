package poolshark

import "encoding/binary"

// Discriminant is an 8-byte packed key identifying one iso-poolable class
// plus the layouts of up to two type parameters. It is the pool key that
// lets a single local-registry slot or global pool serve every concrete
// instantiation whose layouts coincide.
//
// Layout, little-endian byte order:
//
//	bytes 0..2  class id          (0..0xFFFE, build-/first-use-assigned)
//	bytes 2..4  const size param  (0..0xFFFE, 0xFFFF = absent)
//	bytes 4..6  layout of param 1 (LayoutCode, or absentLayout)
//	bytes 6..8  layout of param 2 (LayoutCode, or absentLayout)
type Discriminant uint64

const (
	absentSize    = 0xFFFF
	absentLayout  = 0xFFFF
	invalidClass  = 0xFFFF // rejected by PackDiscriminant, so no valid Discriminant equals InvalidDiscriminant
	maxClassID    = 0xFFFF
	maxLayoutSize = 0x0FFF
	maxLayoutAlgn = 4 // log2(16)
)

// invalidDiscriminant is returned by PackDiscriminant when any invariant
// in §3 of the spec is violated; Valid reports false for it.
const invalidDiscriminant Discriminant = ^Discriminant(0)

// InvalidDiscriminant is the exported form of invalidDiscriminant, for
// adapters (poolshark/containers and similar) that need to opt a type out
// of iso-pooling explicitly rather than through a failed PackDiscriminant
// call — e.g. a container whose internal layout can never be safely
// shared across instantiations regardless of element size/alignment.
const InvalidDiscriminant Discriminant = invalidDiscriminant

// LayoutCode packs a type parameter's size and alignment into 16 bits: 12
// bits of size (bytes, up to 0x0FFF) and 4 bits of log2(alignment) (up to
// 16-byte alignment). A LayoutCode for a parameter that isn't admissible
// to the iso path (too large or too aligned) should not be constructed;
// use AbsentLayout or reject the type instead.
type LayoutCode uint16

// AbsentLayout marks a type-parameter slot as unused (a container with
// only one type parameter sets the second slot to this).
const AbsentLayout LayoutCode = absentLayout

// NewLayoutCode packs size (in bytes) and alignment (in bytes, a power of
// two) into a LayoutCode. ok is false if size or alignment exceed what the
// 8-byte Discriminant can represent, in which case the type is not
// iso-admissible and the caller should fall back to the non-iso path.
func NewLayoutCode(size, align uintptr) (code LayoutCode, ok bool) {
	if size > maxLayoutSize {
		return 0, false
	}
	alignLog2 := 0
	for a := align; a > 1; a >>= 1 {
		alignLog2++
	}
	if uintptr(1)<<uint(alignLog2) != align || alignLog2 > maxLayoutAlgn {
		return 0, false
	}
	packed := uint16(size) | uint16(alignLog2)<<12
	if packed == absentLayout {
		// size==0xFFF && alignLog2==15 is excluded by maxLayoutAlgn above,
		// so this can never actually trigger; kept as a defensive check.
		return 0, false
	}
	return LayoutCode(packed), true
}

// PackDiscriminant assembles a Discriminant from a class id, an optional
// const-size parameter (pass -1 for absent), and up to two type-parameter
// LayoutCodes (pass AbsentLayout for an unused slot). ok is false if
// classID or constSize are out of range, matching §3's invariants.
func PackDiscriminant(classID uint16, constSize int, p1, p2 LayoutCode) (d Discriminant, ok bool) {
	if classID >= maxClassID {
		return invalidDiscriminant, false
	}
	size := uint16(absentSize)
	if constSize >= 0 {
		if constSize >= absentSize {
			return invalidDiscriminant, false
		}
		size = uint16(constSize)
	}
	packed := uint64(classID) |
		uint64(size)<<16 |
		uint64(p1)<<32 |
		uint64(p2)<<48
	return Discriminant(packed), true
}

// Valid reports whether d encodes a usable discriminant. An invalid
// Discriminant (e.g. returned by PackDiscriminant on a constraint
// violation) opts its type out of the iso-sharing path.
func (d Discriminant) Valid() bool {
	return d != invalidDiscriminant
}

// ClassID returns the class-id component.
func (d Discriminant) ClassID() uint16 { return uint16(d) }

// ConstSize returns the const-size component and whether it is present.
func (d Discriminant) ConstSize() (size int, present bool) {
	s := uint16(d >> 16)
	if s == absentSize {
		return 0, false
	}
	return int(s), true
}

// Layout1 returns the first type parameter's layout code and whether it
// is present.
func (d Discriminant) Layout1() (LayoutCode, bool) {
	l := LayoutCode(d >> 32)
	return l, l != AbsentLayout
}

// Layout2 returns the second type parameter's layout code and whether it
// is present.
func (d Discriminant) Layout2() (LayoutCode, bool) {
	l := LayoutCode(d >> 48)
	return l, l != AbsentLayout
}

// Bytes returns the little-endian 8-byte encoding described in the type
// doc comment.
func (d Discriminant) Bytes() [8]byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(d))
	return b
}

package lpool

import "unsafe"

// toRaw and fromRaw reinterpret a pointer-shaped value (T must be a
// single-word pointer type — *SomeStruct, the shape every adapter in
// poolshark/containers uses) as an opaque unsafe.Pointer and back. This is
// this module's realization of the spec's "raw storage transmute": the
// Discriminant match is what makes the transmute semantically sound (same
// container class, same type-parameter layouts); toRaw/fromRaw merely
// perform the bit-for-bit reinterpretation once that's established.
func toRaw[T any](v T) unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Pointer(&v))
}

func fromRaw[T any](p unsafe.Pointer) T {
	return *(*T)(unsafe.Pointer(&p))
}

// Package containers provides Poolable/IsoPoolable adapters for the
// common reusable container shapes the pooling engine exists to serve:
// growable vectors, deques, hash-maps, ordered hash-maps, a character
// buffer, and an optional-of-poolable. None of these are imported by
// poolshark, poolshark/lpool, poolshark/gpool, or poolshark/rcpool —
// they are external collaborators consuming the capability interfaces,
// exactly as the core's design calls for.
package containers

import "reflect"

// scalarLayout reports E's size and alignment, but only if E contains no
// pointer, interface, slice, map, channel, function, string, or
// unsafe.Pointer anywhere in its structure (recursively through arrays
// and structs). That is a stricter condition than the Discriminant
// format itself requires, and it exists for a Go-specific reason absent
// from the original design: two instantiations of a generic container
// can only safely share a recycled backing array if the garbage
// collector's scan metadata for that array is identical between them.
// Pointer-free types of equal size and alignment always share that
// metadata (there is nothing to scan either way); anything else risks
// the collector misreading live pointers out of reused memory. See
// SPEC_FULL.md §9 for the full rationale.
func scalarLayout[E any]() (size, align uintptr, ok bool) {
	var z E
	t := reflect.TypeOf(&z).Elem()
	if !isScalarType(t) {
		return 0, 0, false
	}
	return t.Size(), uintptr(t.Align()), true
}

func isScalarType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return isScalarType(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !isScalarType(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

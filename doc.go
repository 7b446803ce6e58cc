// Package bytevec provides ByteVector, a growable array of fixed-size byte records.
//
// A ByteVector stores records of one size, chosen at initialization, in a
// single contiguous buffer. It never interprets record contents: values go in
// and come out as raw bytes, so any fixed-layout type (integers, floats,
// packed structs without pointers) can be stored once the caller encodes it.
//
// # Quick Start
//
//	v, err := bytevec.New(2, 4) // room for 2 records of 4 bytes
//	if err != nil { ... }
//	defer v.Free()
//
//	rec := make([]byte, 4)
//	binary.LittleEndian.PutUint32(rec, 10)
//	_ = v.PushBack(rec)
//
//	first := binary.LittleEndian.Uint32(v.At(0))
//
// # Growth Policy
//
// When an append or insert finds the vector full, capacity grows to
// max(MinGrowCapacity, Capacity*GrowthFactor), i.e. 0 -> 1 -> 2 -> 4 -> 8.
// Reserve pre-sizes the storage to an exact capacity and avoids repeated
// reallocation. Capacity never shrinks; only Free returns memory.
//
// # Allocation Failures
//
// Storage comes from the process-wide allocator in package alloc. When the
// allocator refuses a request, the operation returns an error wrapping
// ErrAllocationFailed and the vector keeps its previous contents and
// capacity. Init is the exception: it leaves an empty vector with capacity 0.
//
// # Index Policy
//
// At returns nil for any index outside [0, Len()). Insert accepts [0, Len()]
// and Erase/Set accept [0, Len()); anything else is rejected with an
// *IndexError and the vector is not modified.
//
// # Aliasing
//
// Slices returned by At and Bytes point into the vector's storage. They are
// invalidated by any operation that may reallocate (PushBack, Insert,
// Reserve) and by Copy and Free.
package bytevec

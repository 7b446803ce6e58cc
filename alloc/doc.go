// Package alloc provides the memory collaborator consumed by record vectors.
//
// An [Allocator] hands out byte buffers, resizes them (in place when the
// buffer has room, by relocating and copying otherwise) and takes them back.
// Every failure is reported as an error wrapping [ErrAllocationFailed]; a
// failed call never invalidates the buffer that was passed in.
//
// # Implementations
//
//   - [Heap]: Go runtime memory (the default)
//   - [Aligned]: Go runtime memory starting on a fixed boundary
//   - [Mmap]: off-heap anonymous mappings, page rounded, no GC pressure
//   - [Limited]: decorator enforcing a [resource.Controller] budget
//   - [Faulty]: decorator that injects failures, for tests
//
// # Global Strategy
//
// Allocation is a process-wide policy. Vectors capture [Default] when they
// acquire storage and release it to the same allocator later, so swapping the
// default with [SetDefault] only affects buffers allocated afterwards:
//
//	restore := alloc.SetDefault(alloc.NewLimited(alloc.NewHeap(), rc))
//	defer restore()
//
// # Buffer Contract
//
// The slice passed to Reallocate or Release must be the exact slice most
// recently returned for that buffer (same length, same backing array).
// Decorators account memory by its length.
package alloc

package alloc

import "slices"

// Heap allocates from the Go runtime.
//
// Relocation grows buffers through append, so the runtime may round the new
// capacity up to its size class and later growth can be served in place.
// Release only updates accounting; the garbage collector reclaims memory.
type Heap struct {
	stats atomicStats
}

var _ Allocator = (*Heap)(nil)

// NewHeap creates a Heap allocator.
func NewHeap() *Heap {
	return &Heap{}
}

// Allocate implements Allocator.
func (h *Heap) Allocate(size int) ([]byte, error) {
	if size < 0 {
		h.stats.Failures.Add(1)
		return nil, invalidSize(size)
	}
	buf := make([]byte, size)
	h.stats.Allocs.Add(1)
	h.stats.BytesInUse.Add(int64(size))
	return buf, nil
}

// Reallocate implements Allocator.
func (h *Heap) Reallocate(buf []byte, size int) ([]byte, error) {
	if size < 0 {
		h.stats.Failures.Add(1)
		return nil, invalidSize(size)
	}

	h.stats.Reallocs.Add(1)
	h.stats.BytesInUse.Add(int64(size - len(buf)))

	if size <= cap(buf) {
		h.stats.InPlace.Add(1)
		return buf[:size], nil
	}

	// Clip so Grow is forced to copy into a fresh backing array.
	grown := slices.Grow(slices.Clip(buf), size-len(buf))
	return grown[:size], nil
}

// Release implements Allocator.
func (h *Heap) Release(buf []byte) {
	h.stats.Releases.Add(1)
	h.stats.BytesInUse.Add(-int64(len(buf)))
}

// Stats returns the current allocator statistics.
func (h *Heap) Stats() Stats {
	return h.stats.snapshot()
}

package alloc

import (
	"fmt"

	"github.com/hupe1980/bytevec/internal/mem"
)

// Aligned allocates from the Go runtime with every buffer starting on an
// Align-byte boundary.
//
// Growth that fits the slack behind an aligned buffer is served in place;
// anything larger relocates into a new aligned buffer. As with Heap, Release
// only updates accounting.
type Aligned struct {
	align int
	stats atomicStats
}

var _ Allocator = (*Aligned)(nil)

// NewAligned creates an allocator aligning buffers to align bytes. align must
// be a power of two; zero selects mem.CacheLine.
func NewAligned(align int) (*Aligned, error) {
	if align == 0 {
		align = mem.CacheLine
	}
	if align < 0 || align&(align-1) != 0 {
		return nil, fmt.Errorf("alloc: alignment %d is not a power of two", align)
	}
	return &Aligned{align: align}, nil
}

// Align returns the alignment in bytes.
func (a *Aligned) Align() int {
	return a.align
}

// Allocate implements Allocator.
func (a *Aligned) Allocate(size int) ([]byte, error) {
	if size < 0 {
		a.stats.Failures.Add(1)
		return nil, invalidSize(size)
	}
	buf := mem.AllocAligned(size, a.align)
	a.stats.Allocs.Add(1)
	a.stats.BytesInUse.Add(int64(size))
	return buf, nil
}

// Reallocate implements Allocator.
func (a *Aligned) Reallocate(buf []byte, size int) ([]byte, error) {
	if size < 0 {
		a.stats.Failures.Add(1)
		return nil, invalidSize(size)
	}

	a.stats.Reallocs.Add(1)
	a.stats.BytesInUse.Add(int64(size - len(buf)))

	if size <= cap(buf) && mem.IsAligned(buf, a.align) {
		a.stats.InPlace.Add(1)
		return buf[:size], nil
	}

	nb := mem.AllocAligned(size, a.align)
	copy(nb, buf)
	return nb, nil
}

// Release implements Allocator.
func (a *Aligned) Release(buf []byte) {
	a.stats.Releases.Add(1)
	a.stats.BytesInUse.Add(-int64(len(buf)))
}

// Stats returns the current allocator statistics.
func (a *Aligned) Stats() Stats {
	return a.stats.snapshot()
}

package alloc

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrAllocationFailed is returned (wrapped) whenever memory cannot be provided.
var ErrAllocationFailed = errors.New("alloc: allocation failed")

// Allocator provides, resizes and releases byte buffers.
type Allocator interface {
	// Allocate returns a buffer of exactly size bytes.
	Allocate(size int) ([]byte, error)

	// Reallocate resizes buf to size bytes, in place if possible, otherwise by
	// relocating. The first min(len(buf), size) bytes are preserved. On error
	// buf remains valid and unchanged.
	Reallocate(buf []byte, size int) ([]byte, error)

	// Release returns buf to the allocator. buf must not be used afterwards.
	Release(buf []byte)
}

type holder struct {
	a Allocator
}

var current atomic.Pointer[holder]

func init() {
	current.Store(&holder{a: NewHeap()})
}

// Default returns the process-wide allocator.
func Default() Allocator {
	return current.Load().a
}

// SetDefault replaces the process-wide allocator and returns a function that
// restores the previous one. A nil allocator installs a fresh Heap.
func SetDefault(a Allocator) (restore func()) {
	if a == nil {
		a = NewHeap()
	}
	prev := current.Swap(&holder{a: a})
	return func() {
		current.Store(prev)
	}
}

func invalidSize(size int) error {
	return fmt.Errorf("%w: invalid size %d", ErrAllocationFailed, size)
}

// Stats tracks allocator activity.
//
// Note on semantics:
//   - Allocs, Reallocs, Releases, Failures: historical call counts
//   - InPlace: reallocations served without moving the buffer
//   - BytesInUse: current bytes handed out and not yet released
type Stats struct {
	Allocs     uint64
	Reallocs   uint64
	InPlace    uint64
	Releases   uint64
	Failures   uint64
	BytesInUse int64
}

type atomicStats struct {
	Allocs     atomic.Uint64
	Reallocs   atomic.Uint64
	InPlace    atomic.Uint64
	Releases   atomic.Uint64
	Failures   atomic.Uint64
	BytesInUse atomic.Int64
}

func (s *atomicStats) snapshot() Stats {
	return Stats{
		Allocs:     s.Allocs.Load(),
		Reallocs:   s.Reallocs.Load(),
		InPlace:    s.InPlace.Load(),
		Releases:   s.Releases.Load(),
		Failures:   s.Failures.Load(),
		BytesInUse: s.BytesInUse.Load(),
	}
}

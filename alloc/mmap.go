package alloc

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/bytevec/internal/conv"
	"github.com/hupe1980/bytevec/internal/mmap"
)

// ErrClosed is returned when allocating from a closed Mmap allocator.
var ErrClosed = errors.New("alloc: allocator is closed")

// Mmap allocates record storage from anonymous memory mappings.
//
// Each buffer is backed by its own mapping rounded up to whole pages. Growth
// that still fits the rounded mapping is served in place; anything larger
// relocates into a new mapping and unmaps the old one.
//
// Buffers live outside the Go heap: they must never hold Go pointers, and they
// are only reclaimed by Release or Close.
type Mmap struct {
	mu       sync.Mutex
	mappings map[*byte]*mmap.Mapping // Keyed by the first byte of each mapping
	closed   bool
	stats    atomicStats
}

var _ Allocator = (*Mmap)(nil)

// NewMmap creates an Mmap allocator.
func NewMmap() *Mmap {
	return &Mmap{
		mappings: make(map[*byte]*mmap.Mapping),
	}
}

// Allocate implements Allocator.
func (a *Mmap) Allocate(size int) ([]byte, error) {
	if size < 0 {
		a.stats.Failures.Add(1)
		return nil, invalidSize(size)
	}

	buf, err := a.allocate(size)
	if err != nil {
		a.stats.Failures.Add(1)
		return nil, err
	}

	a.stats.Allocs.Add(1)
	a.stats.BytesInUse.Add(int64(size))
	return buf, nil
}

func (a *Mmap) allocate(size int) ([]byte, error) {
	if size == 0 {
		// Zero-byte buffers need no mapping.
		return []byte{}, nil
	}

	rounded, err := conv.RoundUp(size, mmap.PageSize())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, ErrClosed)
	}

	m, err := mmap.MapAnon(rounded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}

	data := m.Bytes()
	a.mappings[&data[0]] = m
	return data[:size], nil
}

// Reallocate implements Allocator.
func (a *Mmap) Reallocate(buf []byte, size int) ([]byte, error) {
	if size < 0 {
		a.stats.Failures.Add(1)
		return nil, invalidSize(size)
	}

	a.mu.Lock()
	closed := a.closed
	a.mu.Unlock()
	if closed {
		a.stats.Failures.Add(1)
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, ErrClosed)
	}

	if cap(buf) > 0 && size <= cap(buf) {
		a.stats.Reallocs.Add(1)
		a.stats.InPlace.Add(1)
		a.stats.BytesInUse.Add(int64(size - len(buf)))
		return buf[:size], nil
	}

	nb, err := a.allocate(size)
	if err != nil {
		a.stats.Failures.Add(1)
		return nil, err
	}
	copy(nb, buf)
	a.unmap(buf)

	a.stats.Reallocs.Add(1)
	a.stats.BytesInUse.Add(int64(size - len(buf)))
	return nb, nil
}

// Release implements Allocator.
func (a *Mmap) Release(buf []byte) {
	a.unmap(buf)
	a.stats.Releases.Add(1)
	a.stats.BytesInUse.Add(-int64(len(buf)))
}

func (a *Mmap) unmap(buf []byte) {
	if cap(buf) == 0 {
		return
	}
	key := &buf[:1][0]

	a.mu.Lock()
	m, ok := a.mappings[key]
	delete(a.mappings, key)
	a.mu.Unlock()

	if ok {
		_ = m.Close()
	}
}

// Mappings returns the number of live mappings.
func (a *Mmap) Mappings() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.mappings)
}

// Stats returns the current allocator statistics.
func (a *Mmap) Stats() Stats {
	return a.stats.snapshot()
}

// Close unmaps every live buffer. Buffers handed out earlier become invalid
// and every further Allocate or Reallocate fails with ErrClosed, including
// resizes that would have fit in place. Close is idempotent.
func (a *Mmap) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true

	var errs []error
	for key, m := range a.mappings {
		if err := m.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(a.mappings, key)
	}
	a.stats.BytesInUse.Store(0)
	return errors.Join(errs...)
}

package alloc

import (
	"fmt"

	"github.com/hupe1980/bytevec/resource"
)

// Limited enforces a resource.Controller budget in front of another allocator.
//
// Memory is accounted by buffer length: Allocate charges size bytes,
// Reallocate charges or refunds the difference and Release refunds len(buf).
// Requests that do not fit are refused immediately, never queued.
//
// Growth is also charged against the allocation rate budget. A refused request
// costs nothing: any memory or rate budget it took is given back, whichever
// check refused it. Releases and shrinks refund memory only; rate tokens spent
// on bytes that were handed out stay spent.
type Limited struct {
	upstream Allocator
	rc       *resource.Controller
}

var _ Allocator = (*Limited)(nil)

// NewLimited wraps upstream (or a new Heap if nil) with the budget of rc.
func NewLimited(upstream Allocator, rc *resource.Controller) *Limited {
	if upstream == nil {
		upstream = NewHeap()
	}
	return &Limited{
		upstream: upstream,
		rc:       rc,
	}
}

// Controller returns the controller enforcing the budget.
func (l *Limited) Controller() *resource.Controller {
	return l.rc
}

// charge reserves bytes of memory and rate budget. On success the returned
// func gives both back.
func (l *Limited) charge(bytes int) (refund func(), err error) {
	if !l.rc.TryAcquireMemory(int64(bytes)) {
		return nil, fmt.Errorf("%w: %w (%d bytes, %d in use, limit %d)",
			ErrAllocationFailed, resource.ErrMemoryLimitExceeded, bytes, l.rc.MemoryUsage(), l.rc.MemoryLimit())
	}
	res, ok := l.rc.ReserveAlloc(bytes)
	if !ok {
		l.rc.ReleaseMemory(int64(bytes))
		return nil, fmt.Errorf("%w: %w (%d bytes)", ErrAllocationFailed, resource.ErrAllocRateExceeded, bytes)
	}
	return func() {
		res.Cancel()
		l.rc.ReleaseMemory(int64(bytes))
	}, nil
}

// Allocate implements Allocator.
func (l *Limited) Allocate(size int) ([]byte, error) {
	if size < 0 {
		return nil, invalidSize(size)
	}
	refund, err := l.charge(size)
	if err != nil {
		return nil, err
	}

	buf, err := l.upstream.Allocate(size)
	if err != nil {
		refund()
		return nil, err
	}
	return buf, nil
}

// Reallocate implements Allocator.
func (l *Limited) Reallocate(buf []byte, size int) ([]byte, error) {
	if size < 0 {
		return nil, invalidSize(size)
	}

	delta := size - len(buf)
	refund := func() {}
	if delta > 0 {
		var err error
		if refund, err = l.charge(delta); err != nil {
			return nil, err
		}
	}

	nb, err := l.upstream.Reallocate(buf, size)
	if err != nil {
		refund()
		return nil, err
	}

	if delta < 0 {
		l.rc.ReleaseMemory(int64(-delta))
	}
	return nb, nil
}

// Release implements Allocator.
func (l *Limited) Release(buf []byte) {
	l.upstream.Release(buf)
	l.rc.ReleaseMemory(int64(len(buf)))
}

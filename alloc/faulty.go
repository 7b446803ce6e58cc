package alloc

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInjected is the default error reported by Faulty.
var ErrInjected = errors.New("injected allocation fault")

// Fault defines specific failure behavior.
type Fault struct {
	FailAfterCalls int  // Fail once this many Allocate/Reallocate calls have succeeded. -1 to disable.
	FailAboveBytes int  // Fail requests larger than this many bytes. -1 to disable.
	FailAllocate   bool // Fail every Allocate.
	FailReallocate bool // Fail every Reallocate.
	Err            error
}

const (
	opAllocate   = "allocate"
	opReallocate = "reallocate"
)

// NoFault disables all injection.
var NoFault = Fault{FailAfterCalls: -1, FailAboveBytes: -1}

// Faulty is an Allocator wrapper that can inject allocation failures.
// Injected failures wrap ErrAllocationFailed like real ones.
type Faulty struct {
	upstream Allocator

	mu       sync.Mutex
	fault    Fault
	calls    int
	injected int
}

var _ Allocator = (*Faulty)(nil)

// NewFaulty creates a new Faulty wrapping upstream (or a new Heap if nil).
// It starts with NoFault.
func NewFaulty(upstream Allocator) *Faulty {
	if upstream == nil {
		upstream = NewHeap()
	}
	return &Faulty{
		upstream: upstream,
		fault:    NoFault,
	}
}

// SetFault replaces the active fault and resets the call counter.
func (f *Faulty) SetFault(fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fault = fault
	f.calls = 0
}

// FailAll makes every following Allocate and Reallocate fail until Heal or
// SetFault.
func (f *Faulty) FailAll() {
	f.SetFault(Fault{FailAfterCalls: 0, FailAboveBytes: -1})
}

// Heal disables injection.
func (f *Faulty) Heal() {
	f.SetFault(NoFault)
}

// Injected returns the number of failures injected so far.
func (f *Faulty) Injected() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.injected
}

func (f *Faulty) check(op string, size int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	failOp := (op == opAllocate && f.fault.FailAllocate) ||
		(op == opReallocate && f.fault.FailReallocate)
	fail := failOp ||
		(f.fault.FailAfterCalls >= 0 && f.calls >= f.fault.FailAfterCalls) ||
		(f.fault.FailAboveBytes >= 0 && size > f.fault.FailAboveBytes)
	if !fail {
		f.calls++
		return nil
	}

	f.injected++
	err := f.fault.Err
	if err == nil {
		err = ErrInjected
	}
	return fmt.Errorf("%w: %s %d bytes: %w", ErrAllocationFailed, op, size, err)
}

// Allocate implements Allocator.
func (f *Faulty) Allocate(size int) ([]byte, error) {
	if err := f.check(opAllocate, size); err != nil {
		return nil, err
	}
	return f.upstream.Allocate(size)
}

// Reallocate implements Allocator.
func (f *Faulty) Reallocate(buf []byte, size int) ([]byte, error) {
	if err := f.check(opReallocate, size); err != nil {
		return nil, err
	}
	return f.upstream.Reallocate(buf, size)
}

// Release implements Allocator. Release never fails.
func (f *Faulty) Release(buf []byte) {
	f.upstream.Release(buf)
}

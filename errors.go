package bytevec

import (
	"errors"
	"fmt"

	"github.com/hupe1980/bytevec/alloc"
)

var (
	// ErrInvalidArgument is returned when Init receives a negative capacity or record size.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrRecordSize is returned when a value is not exactly one record long.
	ErrRecordSize = errors.New("record size mismatch")

	// ErrOutOfRange is the sentinel wrapped by every *IndexError.
	ErrOutOfRange = errors.New("index out of range")

	// ErrAllocationFailed is alloc.ErrAllocationFailed, re-exported for callers
	// that only import this package.
	ErrAllocationFailed = alloc.ErrAllocationFailed
)

// IndexError reports a positional operation with an index outside the valid range.
//
// errors.Is(err, ErrOutOfRange) holds for every IndexError.
type IndexError struct {
	Op    string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("bytevec: %s: index %d out of range (len %d)", e.Op, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrOutOfRange }

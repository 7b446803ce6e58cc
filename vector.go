package bytevec

import (
	"fmt"
	"time"

	"github.com/hupe1980/bytevec/alloc"
	"github.com/hupe1980/bytevec/internal/conv"
)

const (
	// GrowthFactor multiplies the capacity when an append finds the vector full.
	GrowthFactor = 2
	// MinGrowCapacity is the capacity an empty vector grows to on its first append.
	MinGrowCapacity = 1
)

// emptyRecord is handed out by At for zero-sized records so that a valid
// slot is never confused with the nil out-of-range sentinel.
var emptyRecord = []byte{}

// ByteVector is a growable array of fixed-size byte records.
//
// Records are opaque: the vector only copies them byte for byte. Storage is
// obtained from the process-wide allocator (alloc.Default) and released to
// the same allocator by Free.
//
// The zero value is an empty vector with record size 0; call Init or New to
// choose a record size. A ByteVector is not safe for concurrent use.
type ByteVector struct {
	data       []byte
	length     int
	capacity   int
	recordSize int
	allocator  alloc.Allocator // Allocator that produced data

	logger  *Logger
	metrics MetricsCollector
}

// New allocates a vector with room for capacity records of recordSize bytes.
// On error the returned vector is still usable: it is empty with capacity 0.
func New(capacity, recordSize int, opts ...Option) (*ByteVector, error) {
	v := &ByteVector{}
	err := v.Init(capacity, recordSize, opts...)
	return v, err
}

// Init (re)initializes v with room for capacity records of recordSize bytes.
// Storage held from a previous Init is released first.
//
// If the allocation fails, v is left as a valid empty vector with capacity 0
// and the error wraps alloc.ErrAllocationFailed.
func (v *ByteVector) Init(capacity, recordSize int, opts ...Option) error {
	v.Free()

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	v.logger = o.logger
	v.metrics = o.metricsCollector

	if capacity < 0 || recordSize < 0 {
		return fmt.Errorf("bytevec: init: %w: capacity %d, record size %d", ErrInvalidArgument, capacity, recordSize)
	}
	v.recordSize = recordSize

	if capacity == 0 {
		return nil
	}
	if err := v.grow(capacity); err != nil {
		return fmt.Errorf("bytevec: init: %w", err)
	}
	return nil
}

// Reserve ensures the vector can hold at least minCapacity records without
// reallocating. Storage is resized to exactly minCapacity records, in place
// if the allocator can, otherwise by relocation; slices returned by At are
// invalidated either way.
//
// On failure the vector is unchanged. Callers should treat Capacity as the
// source of truth.
func (v *ByteVector) Reserve(minCapacity int) error {
	if minCapacity <= v.capacity {
		return nil
	}
	if err := v.grow(minCapacity); err != nil {
		return fmt.Errorf("bytevec: reserve: %w", err)
	}
	return nil
}

func (v *ByteVector) grow(newCapacity int) error {
	start := time.Now()

	a := v.allocator
	if a == nil {
		a = alloc.Default()
	}

	size, err := conv.MulSize(newCapacity, v.recordSize)
	var buf []byte
	if err != nil {
		err = fmt.Errorf("%w: %w", alloc.ErrAllocationFailed, err)
	} else if v.data == nil {
		buf, err = a.Allocate(size)
	} else {
		buf, err = a.Reallocate(v.data, size)
	}

	v.collector().RecordGrow(v.capacity, newCapacity, time.Since(start), err)
	v.log().LogGrow(v.capacity, newCapacity, v.recordSize, err)

	if err != nil {
		return fmt.Errorf("grow %d -> %d records: %w", v.capacity, newCapacity, err)
	}

	v.data = buf
	v.capacity = newCapacity
	v.allocator = a
	return nil
}

// ensureSlot makes room for one more record using the growth policy.
func (v *ByteVector) ensureSlot() error {
	if v.length < v.capacity {
		return nil
	}
	newCapacity, err := conv.GrowCap(v.capacity, GrowthFactor, MinGrowCapacity)
	if err != nil {
		return fmt.Errorf("grow %d records: %w: %w", v.capacity, alloc.ErrAllocationFailed, err)
	}
	return v.grow(newCapacity)
}

func (v *ByteVector) checkRecord(op string, value []byte) error {
	if len(value) != v.recordSize {
		return fmt.Errorf("bytevec: %s: %w: got %d bytes, want %d", op, ErrRecordSize, len(value), v.recordSize)
	}
	return nil
}

func (v *ByteVector) slot(index int) []byte {
	off := index * v.recordSize
	end := off + v.recordSize
	return v.data[off:end:end]
}

// PushBack appends a copy of value, which must be exactly RecordSize bytes.
// A full vector first grows to max(MinGrowCapacity, Capacity*GrowthFactor).
// If that growth fails nothing is appended.
func (v *ByteVector) PushBack(value []byte) error {
	if err := v.checkRecord("push back", value); err != nil {
		return err
	}
	if err := v.ensureSlot(); err != nil {
		return fmt.Errorf("bytevec: push back: %w", err)
	}

	copy(v.slot(v.length), value)
	v.length++
	return nil
}

// Insert places a copy of value at index, shifting records [index, Len())
// one slot to the right. index == Len() appends. An index outside [0, Len()]
// is rejected with an *IndexError and the vector is left unchanged.
func (v *ByteVector) Insert(index int, value []byte) error {
	if err := v.checkRecord("insert", value); err != nil {
		return err
	}
	if index < 0 || index > v.length {
		return &IndexError{Op: "insert", Index: index, Len: v.length}
	}
	if err := v.ensureSlot(); err != nil {
		return fmt.Errorf("bytevec: insert: %w", err)
	}

	rs := v.recordSize
	// copy has memmove semantics, so the overlapping shift is safe.
	copy(v.data[(index+1)*rs:(v.length+1)*rs], v.data[index*rs:v.length*rs])
	copy(v.slot(index), value)
	v.length++
	return nil
}

// Erase removes the record at index, shifting records (index, Len()) one
// slot to the left. Capacity is kept. An index outside [0, Len()) is
// rejected with an *IndexError and the vector is left unchanged.
func (v *ByteVector) Erase(index int) error {
	if index < 0 || index >= v.length {
		return &IndexError{Op: "erase", Index: index, Len: v.length}
	}

	rs := v.recordSize
	copy(v.data[index*rs:], v.data[(index+1)*rs:v.length*rs])
	v.length--
	return nil
}

// At returns the storage of the record at index, or nil if index is out of
// range. The slice aliases the vector: writes through it modify the record,
// and it must not be used after the next growth, Reserve, Copy or Free.
func (v *ByteVector) At(index int) []byte {
	if index < 0 || index >= v.length {
		return nil
	}
	if v.recordSize == 0 {
		return emptyRecord
	}
	return v.slot(index)
}

// Set overwrites the record at index with a copy of value.
func (v *ByteVector) Set(index int, value []byte) error {
	if err := v.checkRecord("set", value); err != nil {
		return err
	}
	if index < 0 || index >= v.length {
		return &IndexError{Op: "set", Index: index, Len: v.length}
	}
	copy(v.slot(index), value)
	return nil
}

// PopBack removes the last record and reports whether there was one.
// The vacated bytes stay in storage until overwritten.
func (v *ByteVector) PopBack() bool {
	if v.length == 0 {
		return false
	}
	v.length--
	return true
}

// Clear removes all records but keeps the storage.
func (v *ByteVector) Clear() {
	v.length = 0
}

// Len returns the number of records.
func (v *ByteVector) Len() int { return v.length }

// Empty reports whether the vector holds no records.
func (v *ByteVector) Empty() bool { return v.length == 0 }

// Capacity returns the number of records the storage can hold.
func (v *ByteVector) Capacity() int { return v.capacity }

// RecordSize returns the size of one record in bytes.
func (v *ByteVector) RecordSize() int { return v.recordSize }

// Bytes returns the occupied part of the storage, Len()*RecordSize() bytes.
// Like At, the slice aliases the vector.
func (v *ByteVector) Bytes() []byte {
	if v.data == nil {
		return nil
	}
	n := v.length * v.recordSize
	return v.data[:n:n]
}

// Copy makes dest a deep copy of src. dest receives fresh storage holding
// exactly src.Len() records (capacity == src.Len()), src's record size and
// byte-identical records. dest's previous storage is released only once the
// new storage has been obtained; on failure dest is unchanged.
//
// dest inherits src's logger and metrics collector if it has none.
func Copy(dest, src *ByteVector) error {
	if dest == src {
		return nil
	}

	if dest.logger == nil {
		dest.logger = src.logger
	}
	if dest.metrics == nil {
		dest.metrics = src.metrics
	}

	start := time.Now()
	n := src.length
	size, err := conv.MulSize(n, src.recordSize)
	if err != nil {
		err = fmt.Errorf("%w: %w", alloc.ErrAllocationFailed, err)
	}

	var (
		buf []byte
		a   alloc.Allocator
	)
	if err == nil && n > 0 {
		a = alloc.Default()
		buf, err = a.Allocate(size)
	}

	dest.collector().RecordCopy(n, time.Since(start), err)
	dest.log().LogCopy(n, src.recordSize, err)

	if err != nil {
		return fmt.Errorf("bytevec: copy %d records: %w", n, err)
	}

	copy(buf, src.data[:size])
	dest.release()

	dest.data = buf
	dest.allocator = a
	dest.length = n
	dest.capacity = n
	dest.recordSize = src.recordSize
	return nil
}

// Clone returns a deep copy of v. See Copy.
func (v *ByteVector) Clone() (*ByteVector, error) {
	c := &ByteVector{}
	if err := Copy(c, v); err != nil {
		return nil, err
	}
	return c, nil
}

func (v *ByteVector) release() {
	if v.data != nil && v.allocator != nil {
		bytes := len(v.data)
		v.allocator.Release(v.data)
		v.collector().RecordRelease(bytes)
		v.log().LogRelease(v.capacity, v.recordSize)
	}
	v.data = nil
	v.allocator = nil
}

// Free releases the storage and resets v to the zero value. It is safe to
// call Free more than once, and a freed vector can be initialized again.
func (v *ByteVector) Free() {
	v.release()
	*v = ByteVector{}
}

func (v *ByteVector) log() *Logger {
	if v.logger == nil {
		return noopLogger
	}
	return v.logger
}

func (v *ByteVector) collector() MetricsCollector {
	if v.metrics == nil {
		return NoopMetricsCollector{}
	}
	return v.metrics
}

func (v *ByteVector) String() string {
	return fmt.Sprintf("ByteVector{len: %d, cap: %d, recordSize: %d}", v.length, v.capacity, v.recordSize)
}

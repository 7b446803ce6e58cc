package bytevec

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/hupe1980/bytevec/alloc"
	"github.com/hupe1980/bytevec/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// values decodes all records of an int32 vector.
func values(v *ByteVector) []int32 {
	return testutil.Int32s(v.Bytes())
}

func newInt32Vector(t *testing.T, capacity int, vals ...int32) *ByteVector {
	t.Helper()

	v, err := New(capacity, 4)
	require.NoError(t, err)
	t.Cleanup(v.Free)

	for _, x := range vals {
		require.NoError(t, v.PushBack(testutil.Int32(x)))
	}
	return v
}

func TestByteVector_Scenario(t *testing.T) {
	v, err := New(2, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Capacity())
	assert.Equal(t, 4, v.RecordSize())

	for _, x := range []int32{10, 20, 30} {
		require.NoError(t, v.PushBack(testutil.Int32(x)))
	}
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, 4, v.Capacity())
	assert.Equal(t, int32(10), testutil.DecodeInt32(v.At(0)))
	assert.Equal(t, int32(20), testutil.DecodeInt32(v.At(1)))
	assert.Equal(t, int32(30), testutil.DecodeInt32(v.At(2)))

	require.NoError(t, v.Insert(1, testutil.Int32(15)))
	assert.Equal(t, []int32{10, 15, 20, 30}, values(v))
	assert.Equal(t, 4, v.Len())

	require.NoError(t, v.Erase(0))
	assert.Equal(t, []int32{15, 20, 30}, values(v))
	assert.Equal(t, 3, v.Len())

	assert.Nil(t, v.At(3))

	v.Free()
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 0, v.Capacity())
}

func TestByteVector_Init(t *testing.T) {
	t.Run("allocates capacity", func(t *testing.T) {
		var v ByteVector
		require.NoError(t, v.Init(8, 16))
		defer v.Free()

		assert.Equal(t, 0, v.Len())
		assert.True(t, v.Empty())
		assert.Equal(t, 8, v.Capacity())
		assert.Equal(t, 16, v.RecordSize())
	})

	t.Run("zero capacity", func(t *testing.T) {
		v, err := New(0, 4)
		require.NoError(t, err)
		assert.Equal(t, 0, v.Capacity())
		assert.Nil(t, v.Bytes())

		require.NoError(t, v.PushBack(testutil.Int32(1)))
		assert.Equal(t, 1, v.Capacity())
		v.Free()
	})

	t.Run("zero record size", func(t *testing.T) {
		v, err := New(4, 0)
		require.NoError(t, err)
		defer v.Free()

		assert.Equal(t, 4, v.Capacity())
		assert.Equal(t, 0, v.RecordSize())

		for i := 0; i < 10; i++ {
			require.NoError(t, v.PushBack(nil))
		}
		assert.Equal(t, 10, v.Len())
		assert.NotNil(t, v.At(9))
		assert.Empty(t, v.At(9))
		assert.Nil(t, v.At(10))

		require.NoError(t, v.Insert(3, []byte{}))
		require.NoError(t, v.Erase(0))
		assert.Equal(t, 10, v.Len())
		assert.ErrorIs(t, v.PushBack([]byte{1}), ErrRecordSize)
	})

	t.Run("negative arguments", func(t *testing.T) {
		v, err := New(-1, 4)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		require.NotNil(t, v)
		assert.Equal(t, 0, v.Capacity())
		assert.Equal(t, 0, v.RecordSize())

		_, err = New(1, -4)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("overflowing size", func(t *testing.T) {
		v, err := New(1<<62, 1<<8)
		assert.ErrorIs(t, err, ErrAllocationFailed)
		assert.Equal(t, 0, v.Capacity())
		assert.Equal(t, 1<<8, v.RecordSize())
	})

	t.Run("reinit releases previous storage", func(t *testing.T) {
		h := alloc.NewHeap()
		restore := alloc.SetDefault(h)
		defer restore()

		var v ByteVector
		require.NoError(t, v.Init(4, 8))
		require.NoError(t, v.Init(2, 2))
		defer v.Free()

		assert.Equal(t, 2, v.Capacity())
		assert.Equal(t, 2, v.RecordSize())
		assert.Equal(t, uint64(1), h.Stats().Releases)
		assert.Equal(t, int64(4), h.Stats().BytesInUse)
	})
}

func TestByteVector_ZeroValue(t *testing.T) {
	var v ByteVector

	assert.Equal(t, 0, v.Len())
	assert.True(t, v.Empty())
	assert.Nil(t, v.At(0))
	assert.False(t, v.PopBack())
	assert.Nil(t, v.Bytes())

	var idxErr *IndexError
	require.ErrorAs(t, v.Erase(0), &idxErr)

	v.Free()
	v.Free()
}

func TestByteVector_PushBack(t *testing.T) {
	t.Run("doubling growth", func(t *testing.T) {
		v := newInt32Vector(t, 0)

		wantCaps := []int{1, 2, 4, 4, 8, 8, 8, 8, 16}
		for i, want := range wantCaps {
			require.NoError(t, v.PushBack(testutil.Int32(int32(i))))
			assert.Equal(t, want, v.Capacity(), "after push %d", i)
		}
	})

	t.Run("copies value", func(t *testing.T) {
		v := newInt32Vector(t, 1)

		rec := testutil.Int32(7)
		require.NoError(t, v.PushBack(rec))
		rec[0] = 99

		assert.Equal(t, int32(7), testutil.DecodeInt32(v.At(0)))
	})

	t.Run("rejects wrong size", func(t *testing.T) {
		v := newInt32Vector(t, 1)

		err := v.PushBack([]byte{1, 2, 3})
		assert.ErrorIs(t, err, ErrRecordSize)
		err = v.PushBack([]byte{1, 2, 3, 4, 5})
		assert.ErrorIs(t, err, ErrRecordSize)
		assert.Equal(t, 0, v.Len())
	})
}

func TestByteVector_Reserve(t *testing.T) {
	v := newInt32Vector(t, 2, 1, 2)

	require.NoError(t, v.Reserve(1))
	assert.Equal(t, 2, v.Capacity())

	require.NoError(t, v.Reserve(-5))
	assert.Equal(t, 2, v.Capacity())

	require.NoError(t, v.Reserve(100))
	assert.Equal(t, 100, v.Capacity())
	assert.Equal(t, []int32{1, 2}, values(v))

	// Reserved room is used before doubling kicks in
	for i := 0; i < 98; i++ {
		require.NoError(t, v.PushBack(testutil.Int32(int32(i))))
	}
	assert.Equal(t, 100, v.Capacity())

	require.NoError(t, v.PushBack(testutil.Int32(0)))
	assert.Equal(t, 200, v.Capacity())
}

func TestByteVector_At(t *testing.T) {
	v := newInt32Vector(t, 4, 1, 2, 3)

	for _, idx := range []int{-1, 3, 4, 100} {
		assert.Nil(t, v.At(idx), "index %d", idx)
	}

	// Writes through At modify the record
	copy(v.At(1), testutil.Int32(42))
	assert.Equal(t, []int32{1, 42, 3}, values(v))

	// The slice is capped to one record
	rec := v.At(0)
	assert.Equal(t, 4, cap(rec))
}

func TestByteVector_Set(t *testing.T) {
	v := newInt32Vector(t, 4, 1, 2, 3)

	require.NoError(t, v.Set(2, testutil.Int32(9)))
	assert.Equal(t, []int32{1, 2, 9}, values(v))

	assert.ErrorIs(t, v.Set(3, testutil.Int32(9)), ErrOutOfRange)
	assert.ErrorIs(t, v.Set(0, []byte{1}), ErrRecordSize)
}

func TestByteVector_PopBack(t *testing.T) {
	v := newInt32Vector(t, 2, 1, 2)

	assert.True(t, v.PopBack())
	assert.Equal(t, []int32{1}, values(v))
	assert.True(t, v.PopBack())
	assert.False(t, v.PopBack())
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 2, v.Capacity())

	// Vacated slot is reused by the next push
	require.NoError(t, v.PushBack(testutil.Int32(5)))
	assert.Equal(t, []int32{5}, values(v))
}

func TestByteVector_Insert(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  []int32
	}{
		{name: "front", index: 0, want: []int32{99, 1, 2, 3}},
		{name: "middle", index: 2, want: []int32{1, 2, 99, 3}},
		{name: "end appends", index: 3, want: []int32{1, 2, 3, 99}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newInt32Vector(t, 3, 1, 2, 3)

			require.NoError(t, v.Insert(tt.index, testutil.Int32(99)))
			assert.Equal(t, tt.want, values(v))
			assert.Equal(t, 6, v.Capacity())
		})
	}

	t.Run("into empty", func(t *testing.T) {
		v := newInt32Vector(t, 0)
		require.NoError(t, v.Insert(0, testutil.Int32(1)))
		assert.Equal(t, []int32{1}, values(v))
		assert.Equal(t, 1, v.Capacity())
	})

	t.Run("rejects out of range", func(t *testing.T) {
		v := newInt32Vector(t, 3, 1, 2, 3)

		for _, idx := range []int{-1, 4, 10} {
			err := v.Insert(idx, testutil.Int32(99))

			var idxErr *IndexError
			require.ErrorAs(t, err, &idxErr)
			assert.Equal(t, "insert", idxErr.Op)
			assert.Equal(t, idx, idxErr.Index)
			assert.Equal(t, 3, idxErr.Len)
			assert.ErrorIs(t, err, ErrOutOfRange)
		}
		assert.Equal(t, []int32{1, 2, 3}, values(v))
		assert.Equal(t, 3, v.Capacity())
	})

	t.Run("rejects wrong size", func(t *testing.T) {
		v := newInt32Vector(t, 3, 1, 2, 3)
		assert.ErrorIs(t, v.Insert(0, []byte{1}), ErrRecordSize)
		assert.Equal(t, []int32{1, 2, 3}, values(v))
	})
}

func TestByteVector_Erase(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  []int32
	}{
		{name: "front", index: 0, want: []int32{2, 3, 4}},
		{name: "middle", index: 1, want: []int32{1, 3, 4}},
		{name: "last", index: 3, want: []int32{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newInt32Vector(t, 4, 1, 2, 3, 4)

			require.NoError(t, v.Erase(tt.index))
			assert.Equal(t, tt.want, values(v))
			assert.Equal(t, 4, v.Capacity(), "erase never shrinks")
		})
	}

	t.Run("rejects out of range", func(t *testing.T) {
		v := newInt32Vector(t, 4, 1, 2)

		for _, idx := range []int{-1, 2, 3} {
			err := v.Erase(idx)
			assert.ErrorIs(t, err, ErrOutOfRange)
			assert.EqualError(t, err, (&IndexError{Op: "erase", Index: idx, Len: 2}).Error())
		}
		assert.Equal(t, []int32{1, 2}, values(v))
	})
}

func TestByteVector_Clear(t *testing.T) {
	v := newInt32Vector(t, 4, 1, 2, 3)

	v.Clear()
	assert.True(t, v.Empty())
	assert.Equal(t, 4, v.Capacity())
	assert.Nil(t, v.At(0))
}

func TestByteVector_Free(t *testing.T) {
	h := alloc.NewHeap()
	restore := alloc.SetDefault(h)
	defer restore()

	v, err := New(4, 8)
	require.NoError(t, err)
	require.NoError(t, v.PushBack(make([]byte, 8)))

	v.Free()
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 0, v.Capacity())
	assert.Equal(t, 0, v.RecordSize())
	assert.Nil(t, v.Bytes())
	assert.Equal(t, int64(0), h.Stats().BytesInUse)

	// Idempotent
	v.Free()
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 0, v.Capacity())
	assert.Equal(t, uint64(1), h.Stats().Releases)

	// Reusable
	require.NoError(t, v.Init(1, 4))
	require.NoError(t, v.PushBack(testutil.Int32(3)))
	assert.Equal(t, []int32{3}, values(v))
	v.Free()
}

func TestCopy(t *testing.T) {
	t.Run("deep copy with tight capacity", func(t *testing.T) {
		src := newInt32Vector(t, 8, 1, 2, 3)

		var dest ByteVector
		require.NoError(t, Copy(&dest, src))
		defer dest.Free()

		assert.Equal(t, []int32{1, 2, 3}, values(&dest))
		assert.Equal(t, 3, dest.Len())
		assert.Equal(t, 3, dest.Capacity())
		assert.Equal(t, 4, dest.RecordSize())
		assert.NotSame(t, &src.Bytes()[0], &dest.Bytes()[0])
	})

	t.Run("independence", func(t *testing.T) {
		src := newInt32Vector(t, 4, 1, 2, 3)
		dest := newInt32Vector(t, 1)
		require.NoError(t, Copy(dest, src))

		require.NoError(t, dest.PushBack(testutil.Int32(4)))
		require.NoError(t, dest.Set(0, testutil.Int32(100)))
		assert.Equal(t, []int32{1, 2, 3}, values(src))

		require.NoError(t, src.Erase(1))
		copy(src.At(0), testutil.Int32(-1))
		assert.Equal(t, []int32{100, 2, 3, 4}, values(dest))
	})

	t.Run("replaces destination content and record size", func(t *testing.T) {
		h := alloc.NewHeap()
		restore := alloc.SetDefault(h)
		defer restore()

		src := newInt32Vector(t, 2, 7, 8)
		dest, err := New(16, 32)
		require.NoError(t, err)
		defer dest.Free()
		require.NoError(t, dest.PushBack(make([]byte, 32)))

		require.NoError(t, Copy(dest, src))
		assert.Equal(t, []int32{7, 8}, values(dest))
		assert.Equal(t, 4, dest.RecordSize())
		assert.Equal(t, uint64(1), h.Stats().Releases, "old destination storage released")
	})

	t.Run("empty source", func(t *testing.T) {
		src := newInt32Vector(t, 8)
		dest := newInt32Vector(t, 2, 1)

		require.NoError(t, Copy(dest, src))
		assert.Equal(t, 0, dest.Len())
		assert.Equal(t, 0, dest.Capacity())
		assert.Equal(t, 4, dest.RecordSize())
		assert.Nil(t, dest.Bytes())

		require.NoError(t, dest.PushBack(testutil.Int32(1)))
		assert.Equal(t, 1, dest.Capacity())
	})

	t.Run("self copy is a no-op", func(t *testing.T) {
		v := newInt32Vector(t, 4, 1, 2)
		require.NoError(t, Copy(v, v))
		assert.Equal(t, []int32{1, 2}, values(v))
		assert.Equal(t, 4, v.Capacity())
	})

	t.Run("clone", func(t *testing.T) {
		v := newInt32Vector(t, 4, 5, 6)
		c, err := v.Clone()
		require.NoError(t, err)
		defer c.Free()

		assert.Equal(t, []int32{5, 6}, values(c))
		assert.Equal(t, 2, c.Capacity())
	})
}

func TestByteVector_String(t *testing.T) {
	v := newInt32Vector(t, 4, 1)
	assert.Equal(t, "ByteVector{len: 1, cap: 4, recordSize: 4}", v.String())
}

func TestIndexError(t *testing.T) {
	err := error(&IndexError{Op: "insert", Index: 7, Len: 3})
	assert.EqualError(t, err, "bytevec: insert: index 7 out of range (len 3)")
	assert.True(t, errors.Is(err, ErrOutOfRange))
	assert.False(t, errors.Is(err, ErrAllocationFailed))
}

func TestErrorMessages(t *testing.T) {
	_, err := New(-1, 4)
	assert.EqualError(t, err, "bytevec: init: invalid argument: capacity -1, record size 4")

	v := newInt32Vector(t, 1, 1)
	assert.EqualError(t, v.PushBack([]byte{1, 2, 3}), "bytevec: push back: record size mismatch: got 3 bytes, want 4")
	assert.EqualError(t, v.Set(0, nil), "bytevec: set: record size mismatch: got 0 bytes, want 4")
	assert.EqualError(t, v.Erase(5), "bytevec: erase: index 5 out of range (len 1)")

	// Each message carries the package prefix exactly once.
	for _, err := range []error{ErrInvalidArgument, ErrRecordSize, ErrOutOfRange} {
		assert.NotContains(t, err.Error(), "bytevec:")
	}
}

func TestByteVector_AlignedAllocator(t *testing.T) {
	a, err := alloc.NewAligned(64)
	require.NoError(t, err)
	defer alloc.SetDefault(a)()

	v := newInt32Vector(t, 0)
	for i := int32(0); i < 100; i++ {
		require.NoError(t, v.PushBack(testutil.Int32(i)))
		require.Zero(t, uintptr(unsafe.Pointer(&v.Bytes()[0]))%64)
	}
	assert.Equal(t, int32(99), testutil.DecodeInt32(v.At(99)))
}

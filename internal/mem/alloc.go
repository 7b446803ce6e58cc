package mem

import (
	"unsafe"
)

// CacheLine is the default alignment in bytes.
const CacheLine = 64

// AllocAligned allocates a zeroed byte slice of the given size whose first byte
// is at an address divisible by align. align must be a power of two.
//
// The slice is carved out of a larger backing array; its capacity runs to the
// end of that array, so callers may reslice up to cap without losing alignment.
// Returns nil for a negative size or an invalid align.
func AllocAligned(size, align int) []byte {
	if size < 0 || !validAlign(align) {
		return nil
	}
	if size == 0 {
		return []byte{}
	}

	// Allocate size + alignment to ensure we can find an aligned offset
	buf := make([]byte, size+align)

	offset := Offset(buf, align)
	return buf[offset : offset+size]
}

// Offset returns how many bytes must be skipped from the start of buf to
// reach the next address divisible by align.
func Offset(buf []byte, align int) int {
	if cap(buf) == 0 {
		return 0
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf))) //nolint:gosec // unsafe is required for memory alignment
	a := uintptr(align)
	return int((a - (addr & (a - 1))) & (a - 1))
}

// IsAligned reports whether buf starts at an address divisible by align.
// Empty slices are considered aligned.
func IsAligned(buf []byte, align int) bool {
	return cap(buf) == 0 || Offset(buf, align) == 0
}

func validAlign(align int) bool {
	return align > 0 && align&(align-1) == 0
}

package conv

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// ErrOverflow is returned when a size computation does not fit into an int.
var ErrOverflow = errors.New("integer overflow")

// MulSize returns count*size, failing if either operand is negative or the
// product does not fit into an int.
func MulSize(count, size int) (int, error) {
	if count < 0 || size < 0 {
		return 0, fmt.Errorf("%w: negative operand (%d * %d)", ErrOverflow, count, size)
	}
	hi, lo := bits.Mul64(uint64(count), uint64(size))
	if hi != 0 || lo > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %d * %d exceeds max int", ErrOverflow, count, size)
	}
	return int(lo), nil
}

// GrowCap returns max(minimum, n*factor), failing if the product overflows.
func GrowCap(n, factor, minimum int) (int, error) {
	if n < 0 || factor < 1 {
		return 0, fmt.Errorf("%w: cannot grow capacity %d by %d", ErrOverflow, n, factor)
	}
	if n > math.MaxInt/factor {
		return 0, fmt.Errorf("%w: cannot grow capacity %d by %d", ErrOverflow, n, factor)
	}
	return max(n*factor, minimum), nil
}

// RoundUp rounds n up to the next multiple of align, which must be a power of two.
func RoundUp(n, align int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: negative size %d", ErrOverflow, n)
	}
	mask := align - 1
	if n > math.MaxInt-mask {
		return 0, fmt.Errorf("%w: %d cannot be rounded to %d", ErrOverflow, n, align)
	}
	return (n + mask) &^ mask, nil
}

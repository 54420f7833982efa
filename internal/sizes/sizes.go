// Package sizes does overflow-checked byte arithmetic for allocation requests.
package sizes

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is returned when a byte count does not fit in an int.
var ErrOverflow = errors.New("sizes: overflow")

// MaxAlloc is the largest single request handed to the Go heap: 1<<47-1 on
// 64-bit platforms, 1<<31-1 on 32-bit ones. make panics above the runtime's
// own limit, which is never lower than this.
const MaxAlloc = 1<<(31+16*(^uint(0)>>63)) - 1

// Add returns a + b, or ok = false when the sum would overflow int.
func Add(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// Mul returns a * b for non-negative operands, or ok = false when the product
// would overflow int or an operand is negative.
func Mul(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a != 0 && b > math.MaxInt/a {
		return 0, false
	}
	return a * b, true
}

// Bytes returns the size of count elements of elemSize bytes each.
//
//	n, err := sizes.Bytes(count, int(unsafe.Sizeof(x)))
//	if err != nil {
//	    return fmt.Errorf("vector: %w", err)
//	}
func Bytes(count, elemSize int) (int, error) {
	if count < 0 {
		return 0, fmt.Errorf("negative count: %d", count)
	}
	if elemSize < 0 {
		return 0, fmt.Errorf("negative element size: %d", elemSize)
	}
	n, ok := Mul(count, elemSize)
	if !ok {
		return 0, fmt.Errorf("%w: count=%d * elemSize=%d", ErrOverflow, count, elemSize)
	}
	return n, nil
}

// Fits reports whether used + n stays within limit without overflowing.
func Fits(used, n, limit int) bool {
	total, ok := Add(used, n)
	return ok && total <= limit
}

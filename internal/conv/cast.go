package conv

import (
	"fmt"
	"math"
	"math/bits"
)

// IntToUint64 converts int to uint64 safely.
func IntToUint64(v int) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint64 (negative)", v)
	}
	return uint64(v), nil
}

// Uint64ToInt converts uint64 to int safely.
func Uint64ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int (too large)", v)
	}
	return int(v), nil
}

// MulUint64 multiplies a and b, failing when the product does not fit in 64 bits.
func MulUint64(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, fmt.Errorf("integer overflow: %d * %d does not fit in uint64", a, b)
	}
	return lo, nil
}

// Pow2 returns 1<<n for n in [0, 63].
func Pow2(n int) (uint64, error) {
	if n < 0 || n > 63 {
		return 0, fmt.Errorf("integer overflow: 2^%d cannot be represented as uint64", n)
	}
	return uint64(1) << uint(n), nil
}

package memutils

import (
	cerrors "github.com/cockroachdb/errors"
)

type Number interface {
	~int | ~uint | ~uint32 | ~uint64
}

// CheckPow2 returns a wrapped PowerOfTwoError if number is not a power of two. Zero is rejected.
func CheckPow2[T Number](number T, name string) error {
	if number == 0 || number&(number-1) != 0 {
		return cerrors.Wrapf(PowerOfTwoError, "%s is %d", name, number)
	}
	return nil
}

// AlignUp rounds value up to the next multiple of alignment, which must be a power of two
func AlignUp(value int, alignment uint) int {
	return (value + int(alignment) - 1) & int(^(alignment - 1))
}

// AlignmentPadding is the number of bytes that must be skipped from offset to reach a multiple of alignment
func AlignmentPadding(offset int, alignment uint) int {
	return AlignUp(offset, alignment) - offset
}

// DivideRoundingUp divides value by divisor, rounding any remainder up
func DivideRoundingUp(value, divisor int) int {
	return (value + divisor - 1) / divisor
}

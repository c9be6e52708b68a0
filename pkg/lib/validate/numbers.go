package validate

import (
	"math/big"

	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

// IsGreaterThanZero checks if the provided numeric value (of type T) is greater than zero.
// It returns an error if the value is not greater than zero, using the provided message and arguments.
func IsGreaterThanZero[T Number](value T, msg string, args ...any) error {
	if value <= 0 {
		return createError(msg, args...)
	}
	return nil
}

// IsGreaterOrEqualToZero checks if the provided numeric value (of type T) is greater or equal to zero.
func IsGreaterOrEqualToZero[T Number](value T, msg string, args ...any) error {
	if value < 0 {
		return createError(msg, args...)
	}
	return nil
}

// IsPositiveAmount checks that a credit amount is set and greater than zero.
func IsPositiveAmount(value *big.Int, msg string, args ...any) error {
	if value == nil || value.Sign() <= 0 {
		return createError(msg, args...)
	}
	return nil
}

// IsNonNegativeAmount checks that a credit amount is set and not negative.
func IsNonNegativeAmount(value *big.Int, msg string, args ...any) error {
	if value == nil || value.Sign() < 0 {
		return createError(msg, args...)
	}
	return nil
}

package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// amountScale fixes the precision at four places past the decimal point.
const amountScale = 10_000

var (
	// ErrOverflow indicates the scaled int64 backing an Amount wrapped on addition or scaling.
	ErrOverflow = errors.New("amount overflow")

	// ErrUnderflow indicates the scaled int64 backing an Amount wrapped on subtraction.
	ErrUnderflow = errors.New("amount underflow")
)

// ParseError reports input text that cannot be read as a decimal amount.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse amount %q", e.Input)
}

// Amount is a fixed-point money value stored as a scaled int64 to keep
// arithmetic exact. int64 is cheaper than an arbitrary-precision decimal and
// wide enough for any balance this system tracks. The zero value is 0.0000.
type Amount struct {
	store int64
}

// ParseAmount reads a decimal string into an Amount. The fractional part is
// truncated past the fourth digit, never rounded. A value whose integer part
// parses but cannot be scaled into an int64 reports ErrOverflow; anything
// else unreadable reports a ParseError.
func ParseAmount(s string) (Amount, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Amount{}, &ParseError{Input: s}
	}

	parts := strings.Split(trimmed, ".")
	if len(parts) > 2 {
		return Amount{}, &ParseError{Input: s}
	}

	intPart := parts[0]
	if intPart == "" {
		intPart = "0"
	}

	if len(parts) == 1 {
		v, err := strconv.ParseInt(intPart, 10, 64)
		if err != nil {
			return Amount{}, &ParseError{Input: s}
		}
		scaled, ok := mulScale(v)
		if !ok {
			return Amount{}, ErrOverflow
		}
		return Amount{store: scaled}, nil
	}

	fracPart := parts[1]
	if fracPart == "" {
		fracPart = "0000"
	}
	for _, c := range fracPart {
		if c < '0' || c > '9' {
			return Amount{}, &ParseError{Input: s}
		}
	}
	if len(fracPart) > 4 {
		fracPart = fracPart[:4]
	}
	for len(fracPart) < 4 {
		fracPart += "0"
	}

	v, err := strconv.ParseInt(intPart+fracPart, 10, 64)
	if err != nil {
		return Amount{}, &ParseError{Input: s}
	}
	return Amount{store: v}, nil
}

// Add returns a+b, reporting ErrOverflow if the backing integer wraps.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := a.store + b.store
	if (b.store > 0 && sum < a.store) || (b.store < 0 && sum > a.store) {
		return Amount{}, ErrOverflow
	}
	return Amount{store: sum}, nil
}

// Sub returns a-b, reporting ErrUnderflow if the backing integer wraps.
func (a Amount) Sub(b Amount) (Amount, error) {
	diff := a.store - b.store
	if (b.store > 0 && diff > a.store) || (b.store < 0 && diff < a.store) {
		return Amount{}, ErrUnderflow
	}
	return Amount{store: diff}, nil
}

// Cmp returns -1, 0 or 1 as a is less than, equal to or greater than b.
func (a Amount) Cmp(b Amount) int {
	switch {
	case a.store < b.store:
		return -1
	case a.store > b.store:
		return 1
	default:
		return 0
	}
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool {
	return a.store < 0
}

// String renders the amount with a sign only when negative and the fraction
// always padded to four digits.
func (a Amount) String() string {
	abs := uint64(a.store)
	if a.store < 0 {
		abs = uint64(-a.store)
		return fmt.Sprintf("-%d.%04d", abs/amountScale, abs%amountScale)
	}
	return fmt.Sprintf("%d.%04d", abs/amountScale, abs%amountScale)
}

func mulScale(v int64) (int64, bool) {
	scaled := v * amountScale
	if v != 0 && scaled/amountScale != v {
		return 0, false
	}
	return scaled, true
}

package qdmat

import "math"

// Semiring supplies the two operations a Multiply reduces over: Add
// combines two partial products destined for the same cell, Multiply
// combines one element from each operand. Zero is the additive identity;
// the multiply does not consult it, so a computed entry equal to Zero is
// stored like any other value.
type Semiring[T any] struct {
	Add      func(a, b T) T
	Multiply func(a, b T) T
	Zero     T
}

// PlusTimes is the ordinary numeric semiring: (+, *) over any of Go's
// built-in numeric types.
func PlusTimes[T Number]() Semiring[T] {
	var zero T
	return Semiring[T]{
		Add:      func(a, b T) T { return a + b },
		Multiply: func(a, b T) T { return a * b },
		Zero:     zero,
	}
}

// OrAnd is the boolean semiring used for graph reachability / path
// existence queries: (||, &&) over bool, additive identity false.
func OrAnd() Semiring[bool] {
	return Semiring[bool]{
		Add:      func(a, b bool) bool { return a || b },
		Multiply: func(a, b bool) bool { return a && b },
		Zero:     false,
	}
}

// MinPlus is the tropical semiring used for shortest-path computations:
// (min, +) over float64, additive identity +Inf.
func MinPlus() Semiring[float64] {
	return Semiring[float64]{
		Add: func(a, b float64) float64 {
			if a < b {
				return a
			}
			return b
		},
		Multiply: func(a, b float64) float64 { return a + b },
		Zero:     math.Inf(1),
	}
}

// Number is the set of built-in types PlusTimes accepts.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

package qdmat

import (
	"errors"
	"fmt"
)

// Sentinel errors, namespaced by message prefix, in the same style as
// lvlath's gridgraph/errors.go and matrix/errors.go.
var (
	// ErrDimensionMismatch is returned when a.ncols != b.nrows at any level
	// of the recursion, or a destination shape has a non-positive
	// dimension. Fatal per spec.md section 7: the multiply aborts and
	// produces no result.
	ErrDimensionMismatch = errors.New("qdmat: dimension mismatch")

	// ErrNotImplemented is returned when multiplication reaches a future
	// block. Non-general Matrix Market symmetry is rejected by
	// internal/mtxio with its own error, not this one.
	ErrNotImplemented = errors.New("qdmat: not implemented")

	// ErrNilMatrix guards the public API entry points against nil Matrix
	// arguments, the same nil-guard convention lvlath's top-level matrix
	// package uses throughout (matrix.ErrNilMatrix).
	ErrNilMatrix = errors.New("qdmat: nil matrix")
)

// invariantViolation panics with a descriptive message. It is used for
// "node-type mismatch" conditions per spec.md section 7: an unreachable
// tagged-union combination, indicating a bug rather than bad input. This
// mirrors the teacher's panic("logic error, wrong node type") convention
// for the same class of defect.
func invariantViolation(format string, args ...any) {
	panic(fmt.Sprintf("qdmat: invariant violation: "+format, args...))
}

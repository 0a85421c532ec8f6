package qdmat

import (
	"unsafe"

	"github.com/qdmat/qdmat/internal/bitwidth"
	"github.com/qdmat/qdmat/internal/dcsc"
	"github.com/qdmat/qdmat/internal/spa"
)

// multiplyLeaves implements the per-pair leaf multiply from spec.md
// section 4.6: for every column of b, scatter-multiply every entry by the
// corresponding column of a into a Sparse Accumulator sized for the
// destination, then flush the accumulator into the result column by
// column (Gustavson's column-wise sparse GEMM).
func multiplyLeaves[T any](a, b leafNode[T], destShape Shape, sr Semiring[T], cfg Config) (leafNode[T], error) {
	internalSr := spa.Semiring[T]{Add: sr.Add, Multiply: sr.Multiply}
	var zero T
	elemSize := int64(unsafe.Sizeof(zero))
	dense := cfg.ShouldUseDenseSpa(destShape.NRows, elemSize)
	accum := spa.New[T](int64(destShape.NRows), internalSr, dense)

	switch bitwidth.For(int64(destShape.NRows), int64(destShape.NCols)) {
	case bitwidth.W16:
		return multiplyLeavesTyped[int16, T](a, b, destShape, accum, cfg)
	case bitwidth.W32:
		return multiplyLeavesTyped[int32, T](a, b, destShape, accum, cfg)
	default:
		return multiplyLeavesTyped[int64, T](a, b, destShape, accum, cfg)
	}
}

func multiplyLeavesTyped[IT bitwidth.Index, T any](a, b leafNode[T], destShape Shape, accum spa.SpA[T], cfg Config) (leafNode[T], error) {
	builder := dcsc.NewBuilder[IT, T]()
	pool := cfg.tempAllocator()
	rowsBuf := pool.Get(64)
	var valsBuf []T

	for j := Index(0); j < destShape.NCols; j++ {
		bRows, bVals, ok := b.Column(int64(j))
		if !ok {
			continue
		}
		for k, kk := range bRows {
			aRows, aVals, ok := a.Column(kk)
			if !ok {
				continue
			}
			accum.ScatterMul(aRows, aVals, bVals[k])
		}
		if accum.IsEmpty() {
			continue
		}
		rowsBuf = rowsBuf[:0]
		valsBuf = valsBuf[:0]
		rowsBuf, valsBuf = accum.EmplaceBackResult(rowsBuf, valsBuf)
		if err := builder.AddColumnFromSpa(int64(j), rowsBuf, valsBuf); err != nil {
			return nil, err
		}
		accum.Clear()
	}
	pool.Put(rowsBuf)
	return newDcscLeaf[IT, T](builder.Finish(), destShape), nil
}

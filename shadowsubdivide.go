package qdmat

import (
	"github.com/qdmat/qdmat/internal/bitwidth"
	"github.com/qdmat/qdmat/internal/shadow"
)

// subdivideLeaf implements C10 (spec.md section 4.8): turning a leaf that
// sits opposite an inner block into a synthetic inner block of four window
// shadows (or empties), so the multiply recursion can keep splitting by
// quadrant without ever copying the leaf's backing storage. dParent is the
// discriminating bit of the block this leaf currently occupies; the
// synthetic inner's own bit is dParent>>1, matching the recursion depth of
// the sibling side.
//
// A leafNode[T] erases its concrete index width, so recovering it here is
// exactly the "visitor pattern dispatch on leaf index width" spec.md asks
// for: a type switch over the (few, known) concrete leaf shapes, each
// handled by a width-parameterized helper.
func subdivideLeaf[T any](leaf leafNode[T], shape Shape, dParent Index) *innerBlock[T] {
	switch lf := leaf.(type) {
	case *dcscLeaf[int16, T]:
		return subdivideDcscLeaf[int16, T](lf, shape, dParent)
	case *dcscLeaf[int32, T]:
		return subdivideDcscLeaf[int32, T](lf, shape, dParent)
	case *dcscLeaf[int64, T]:
		return subdivideDcscLeaf[int64, T](lf, shape, dParent)
	case *shadowLeaf[int16, T]:
		return subdivideShadowLeaf[int16, T](lf, shape, dParent)
	case *shadowLeaf[int32, T]:
		return subdivideShadowLeaf[int32, T](lf, shape, dParent)
	case *shadowLeaf[int64, T]:
		return subdivideShadowLeaf[int64, T](lf, shape, dParent)
	default:
		invariantViolation("unknown leaf concrete type in shadow subdivision")
		return nil
	}
}

// columnRangeFor, rowOffsetFor and colOffsetFor implement the quadrant
// geometry from spec.md section 4.8: NW/SW take the column range below the
// division column, NE/SE the range at or above it; NW/NE take the row range
// [0,d), SW/SE take [d, ...); NE/SE number their columns from d.
func columnRangeFor(pos Position, divPos, numCols int) (begin, end int) {
	switch pos {
	case NW, SW:
		return 0, divPos
	default:
		return divPos, numCols
	}
}

func rowOffsetFor(pos Position, d Index) Index {
	switch pos {
	case NW, NE:
		return 0
	default:
		return d
	}
}

func colOffsetFor(pos Position, d Index) Index {
	if pos == NE || pos == SE {
		return d
	}
	return 0
}

func subdivideDcscLeaf[IT bitwidth.Index, T any](lf *dcscLeaf[IT, T], shape Shape, dParent Index) *innerBlock[T] {
	d := dParent >> 1
	inner := newInnerBlock[T](d)
	divPos := lf.base.ColumnLowerBound(int64(d))
	numCols := lf.base.NumCols()
	for _, pos := range allPositions {
		childShape := inner.GetChildShape(pos, shape)
		if childShape.NRows <= 0 || childShape.NCols <= 0 {
			inner.setChildAt(pos, emptyNodeFor[T]())
			continue
		}
		colBegin, colEnd := columnRangeFor(pos, divPos, numCols)
		rowOff := rowOffsetFor(pos, d)
		w := shadow.New(lf.base, colBegin, colEnd, int64(rowOff), int64(childShape.NRows), int64(colOffsetFor(pos, d)))
		if w.NumCols() == 0 {
			inner.setChildAt(pos, emptyNodeFor[T]())
			continue
		}
		inner.setChildAt(pos, newShadowLeaf[IT, T](w, childShape))
	}
	return inner
}

func subdivideShadowLeaf[IT bitwidth.Index, T any](lf *shadowLeaf[IT, T], shape Shape, dParent Index) *innerBlock[T] {
	d := dParent >> 1
	inner := newInnerBlock[T](d)
	divPos := lf.ColumnLowerBound(int64(d))
	numCols := lf.w.NumCols()
	for _, pos := range allPositions {
		childShape := inner.GetChildShape(pos, shape)
		if childShape.NRows <= 0 || childShape.NCols <= 0 {
			inner.setChildAt(pos, emptyNodeFor[T]())
			continue
		}
		colBegin, colEnd := columnRangeFor(pos, divPos, numCols)
		rowOffAbs := lf.w.RowOffset() + rowOffsetFor(pos, d)
		base, colOff := lf.w.Base()
		begin, _ := lf.w.ColPosRange()
		w := shadow.New(base, begin+colBegin, begin+colEnd, rowOffAbs, int64(childShape.NRows), colOff+colOffsetFor(pos, d))
		if w.NumCols() == 0 {
			inner.setChildAt(pos, emptyNodeFor[T]())
			continue
		}
		inner.setChildAt(pos, newShadowLeaf[IT, T](w, childShape))
	}
	return inner
}

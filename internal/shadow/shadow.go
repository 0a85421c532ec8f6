// Package shadow implements the window shadow leaf: a zero-copy view of a
// rectangular sub-region of a base DCSC leaf. A shadow owns nothing
// mutable; it shares the base leaf (no copy, no cycle) and only ever
// reads, translating indices by its offset and filtering rows to its
// window on the fly.
//
// This is bart's path-compression trick turned around: where a leafNode or
// fringeNode in bart compresses a whole subtrie down to one stored prefix,
// a Window here "decompresses" a stored leaf back out into four cheap
// views so the quadtree recursion can keep subdividing a leaf that sits
// opposite an inner block, without ever copying its backing arrays.
package shadow

import (
	"sort"

	"github.com/qdmat/qdmat/internal/bitwidth"
	"github.com/qdmat/qdmat/internal/dcsc"
)

// Window is a shared, read-only view onto [colBegin,colEnd) of a base
// leaf's columns, restricted further to rows in
// [rowOffset, rowOffset+nrows).
type Window[IT bitwidth.Index, T any] struct {
	base     *dcsc.DCSC[IT, T]
	colBegin int // position in base.ColInd, inclusive
	colEnd   int // position in base.ColInd, exclusive
	rowOff   int64
	nrows    int64
	colOff   int64
}

// New builds a window over base restricted to base-column-position range
// [colBegin,colEnd) and to absolute row range [rowOffset, rowOffset+nrows).
// colOffset is subtracted from every observed column index so the window's
// own column numbering starts at 0.
func New[IT bitwidth.Index, T any](base *dcsc.DCSC[IT, T], colBegin, colEnd int, rowOffset, nrows, colOffset int64) *Window[IT, T] {
	w := &Window[IT, T]{base: base, rowOff: rowOffset, nrows: nrows, colOff: colOffset}
	w.colBegin, w.colEnd = advancePastEmpty(base, colBegin, colEnd, rowOffset, nrows)
	return w
}

// advancePastEmpty walks colBegin forward past any base column whose row
// range does not intersect [rowOffset,rowOffset+nrows), per the
// ColumnsBegin contract in spec.md section 4.2.
func advancePastEmpty[IT bitwidth.Index, T any](base *dcsc.DCSC[IT, T], colBegin, colEnd int, rowOffset, nrows int64) (int, int) {
	for colBegin < colEnd {
		ref := base.ColumnRefAt(colBegin)
		lo, hi := rowBounds(base, ref, rowOffset, nrows)
		if lo < hi {
			break
		}
		colBegin++
	}
	return colBegin, colEnd
}

// rowBounds computes [lo,hi) positions within ref's row slice whose base
// row values fall in [rowOffset, rowOffset+nrows), via lower/upper bound.
func rowBounds[IT bitwidth.Index, T any](base *dcsc.DCSC[IT, T], ref dcsc.ColumnRef, rowOffset, nrows int64) (lo, hi int32) {
	rows, _ := base.Rows(ref)
	lo32 := int32(sort.Search(len(rows), func(i int) bool { return rows[i] >= rowOffset }))
	hi32 := int32(sort.Search(len(rows), func(i int) bool { return rows[i] >= rowOffset+nrows }))
	return ref.RowsBegin + lo32, ref.RowsBegin + hi32
}

// NumCols reports how many base columns remain in the window's range
// (before empty-column filtering is applied lazily during iteration).
func (w *Window[IT, T]) NumCols() int {
	if w == nil {
		return 0
	}
	return w.colEnd - w.colBegin
}

// Column performs the point lookup described in spec.md section 4.2:
// GetColumn(col) = base lookup at col+colOffset, then a window-row
// feasibility check.
func (w *Window[IT, T]) Column(col int64) (local int64, rows []int64, values []T, ok bool) {
	pos, found := w.base.Search(col + w.colOff)
	if !found || pos < w.colBegin || pos >= w.colEnd {
		return 0, nil, nil, false
	}
	ref := w.base.ColumnRefAt(pos)
	lo, hi := rowBounds(w.base, ref, w.rowOff, w.nrows)
	if lo >= hi {
		return 0, nil, nil, false
	}
	return w.translate(col, ref, lo, hi)
}

// translate shifts a base column slice [lo,hi) into window-local row
// numbering and returns its (row,value) pairs.
func (w *Window[IT, T]) translate(localCol int64, ref dcsc.ColumnRef, lo, hi int32) (int64, []int64, []T, bool) {
	baseRows, baseVals := w.base.Rows(dcsc.ColumnRef{Col: ref.Col, RowsBegin: lo, RowsEnd: hi})
	rows := make([]int64, len(baseRows))
	for i, r := range baseRows {
		rows[i] = r - w.rowOff
	}
	return localCol, rows, baseVals, true
}

// Columns iterates the window's non-empty columns ascending, in
// window-local (col, rows, values) form.
func (w *Window[IT, T]) Columns(yield func(col int64, rows []int64, values []T) bool) {
	for pos := w.colBegin; pos < w.colEnd; pos++ {
		ref := w.base.ColumnRefAt(pos)
		lo, hi := rowBounds(w.base, ref, w.rowOff, w.nrows)
		if lo >= hi {
			continue
		}
		_, rows, vals, _ := w.translate(ref.Col-w.colOff, ref, lo, hi)
		if !yield(ref.Col-w.colOff, rows, vals) {
			return
		}
	}
}

// Sub narrows this window further into a child window described by a
// column-position range relative to this window's first column and an
// absolute row range. The child keeps this window's index type IT and its
// column offset; its index width is not narrowed to the sub-shape.
func Sub[IT bitwidth.Index, T any](w *Window[IT, T], colBegin, colEnd int, rowOffset, nrows int64) *Window[IT, T] {
	absColBegin := w.colBegin + colBegin
	absColEnd := w.colBegin + colEnd
	if absColEnd > w.colEnd {
		absColEnd = w.colEnd
	}
	return New(w.base, absColBegin, absColEnd, rowOffset, nrows, w.colOff)
}

// ColPosRange exposes this window's [colBegin,colEnd) base-column-position
// range, so shadow subdivision (the root package's responsibility) can
// split it further without reaching into base internals.
func (w *Window[IT, T]) ColPosRange() (begin, end int) { return w.colBegin, w.colEnd }

// Base exposes the shared base leaf and its absolute column offset, for
// column-lower-bound computations during subdivision.
func (w *Window[IT, T]) Base() (*dcsc.DCSC[IT, T], int64) { return w.base, w.colOff }

// RowOffset and NRows expose the window's absolute row range.
func (w *Window[IT, T]) RowOffset() int64 { return w.rowOff }
func (w *Window[IT, T]) NRows() int64     { return w.nrows }

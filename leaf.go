package qdmat

import (
	"github.com/qdmat/qdmat/internal/bitwidth"
	"github.com/qdmat/qdmat/internal/dcsc"
	"github.com/qdmat/qdmat/internal/shadow"
)

// columnSource is the leaf-index-width-erased read surface every leaf
// variant exposes: callers never need to know whether a leaf's backing
// DCSC uses int16, int32, or int64 row/column storage, nor whether they are
// looking at a stored DCSC leaf or a Window shadow over one. This plays the
// role spec.md's "visitor pattern dispatch on leaf index width" asks for,
// implemented as ordinary interface widening rather than a visitor type.
type columnSource[T any] interface {
	// NumCols reports how many column positions this leaf spans (shadow
	// leaves may count positions that turn out empty once row-filtered).
	NumCols() int

	// Column performs a point lookup of one column by its leaf-local
	// number, returning its stored rows (ascending) and values.
	Column(col int64) (rows []int64, values []T, ok bool)

	// ColumnLowerBound returns this leaf's own column-position index of
	// the first column >= col, for shadow subdivision's column-range
	// splitting (spec.md section 4.8's division_column).
	ColumnLowerBound(col int64) int

	// Columns iterates every non-empty column ascending by leaf-local
	// column number.
	Columns(yield func(col int64, rows []int64, values []T) bool)
}

// leafNode is a node[T] that is also a columnSource[T] with a known shape
// and nonzero count: the "pure leaf" variant of the quadtree sum type.
type leafNode[T any] interface {
	node[T]
	columnSource[T]
	Shape() Shape
	Nnn() int32
}

// dcscLeaf wraps an owned *dcsc.DCSC[IT,T] as a leafNode[T], erasing IT.
type dcscLeaf[IT bitwidth.Index, T any] struct {
	base  *dcsc.DCSC[IT, T]
	shape Shape
}

func newDcscLeaf[IT bitwidth.Index, T any](base *dcsc.DCSC[IT, T], shape Shape) *dcscLeaf[IT, T] {
	return &dcscLeaf[IT, T]{base: base, shape: shape}
}

func (*dcscLeaf[IT, T]) kind() nodeKind    { return nodeLeaf }
func (l *dcscLeaf[IT, T]) Shape() Shape    { return l.shape }
func (l *dcscLeaf[IT, T]) Nnn() int32      { return l.base.Nnn() }
func (l *dcscLeaf[IT, T]) NumCols() int    { return l.base.NumCols() }

func (l *dcscLeaf[IT, T]) Column(col int64) (rows []int64, values []T, ok bool) {
	ref, found := l.base.Column(col)
	if !found {
		return nil, nil, false
	}
	rows, values = l.base.Rows(ref)
	return rows, values, true
}

func (l *dcscLeaf[IT, T]) ColumnLowerBound(col int64) int {
	return l.base.ColumnLowerBound(col)
}

func (l *dcscLeaf[IT, T]) Columns(yield func(col int64, rows []int64, values []T) bool) {
	l.base.Columns(func(ref dcsc.ColumnRef) bool {
		rows, values := l.base.Rows(ref)
		return yield(ref.Col, rows, values)
	})
}

// shadowLeaf wraps a *shadow.Window[IT,T] as a leafNode[T], erasing IT. It
// never owns the underlying storage: several shadowLeaf values may share
// one base dcscLeaf's backing arrays simultaneously.
type shadowLeaf[IT bitwidth.Index, T any] struct {
	w     *shadow.Window[IT, T]
	shape Shape
}

func newShadowLeaf[IT bitwidth.Index, T any](w *shadow.Window[IT, T], shape Shape) *shadowLeaf[IT, T] {
	return &shadowLeaf[IT, T]{w: w, shape: shape}
}

func (*shadowLeaf[IT, T]) kind() nodeKind { return nodeLeaf }
func (l *shadowLeaf[IT, T]) Shape() Shape { return l.shape }

// Nnn counts stored nonzeros by walking every window column; shadow leaves
// are transient (built and discarded within one multiply step), so this
// module does not keep a running count for them.
func (l *shadowLeaf[IT, T]) Nnn() int32 {
	var n int32
	l.w.Columns(func(_ int64, rows []int64, _ []T) bool {
		n += int32(len(rows))
		return true
	})
	return n
}

func (l *shadowLeaf[IT, T]) NumCols() int { return l.w.NumCols() }

func (l *shadowLeaf[IT, T]) Column(col int64) (rows []int64, values []T, ok bool) {
	_, rows, values, ok = l.w.Column(col)
	return rows, values, ok
}

func (l *shadowLeaf[IT, T]) ColumnLowerBound(col int64) int {
	base, colOff := l.w.Base()
	begin, end := l.w.ColPosRange()
	pos := base.ColumnLowerBound(col + colOff)
	if pos < begin {
		pos = begin
	}
	if pos > end {
		pos = end
	}
	return pos - begin
}

func (l *shadowLeaf[IT, T]) Columns(yield func(col int64, rows []int64, values []T) bool) {
	l.w.Columns(yield)
}

// Package dcsc implements the Doubly-Compressed-Sparse-Column leaf: an
// immutable, column-compressed block of nonzeros plus the append-only
// factory that builds one from a Sparse Accumulator column at a time.
//
// The shape mirrors bart's internal/sparse.Array (a parallel bitset/Items
// pair with popcount-style compression) generalized from "one compressed
// dimension" to "two": DCSC additionally compresses the column dimension
// itself, listing only non-empty columns, then delimits each column's rows
// with a CSC-style pointer array.
package dcsc

import (
	"fmt"
	"sort"

	"github.com/qdmat/qdmat/internal/bitwidth"
)

// DCSC is an immutable column-compressed leaf over index type IT and value
// type T. It is built once via Builder and never mutated afterward: readers
// may share a *DCSC freely, including across Window shadows (see the
// sibling shadow package).
type DCSC[IT bitwidth.Index, T any] struct {
	ColInd []IT   // strictly increasing indices of the non-empty columns
	ColPtr []int32 // ColPtr[i]..ColPtr[i+1] delimits column i in RowInd/Values
	RowInd []IT   // row indices within each column, strictly increasing per column
	Values []T
}

// Nnn returns the number of stored nonzeros in O(1).
func (d *DCSC[IT, T]) Nnn() int32 {
	if d == nil || len(d.RowInd) == 0 {
		return 0
	}
	return int32(len(d.RowInd))
}

// NumCols returns the number of non-empty columns.
func (d *DCSC[IT, T]) NumCols() int {
	if d == nil {
		return 0
	}
	return len(d.ColInd)
}

// Column performs a point lookup: if col has stored entries, ColumnRef
// describes the half-open [rowsBegin,rowsEnd) slice delimiting it.
func (d *DCSC[IT, T]) Column(col int64) (ref ColumnRef, ok bool) {
	i, found := d.search(col)
	if !found {
		return ColumnRef{}, false
	}
	return d.refAt(i), true
}

// ColumnLowerBound returns the position in ColInd of the first column index
// >= col (which may be len(ColInd) if none exists), for use by shadow
// subdivision's column-range splitting.
func (d *DCSC[IT, T]) ColumnLowerBound(col int64) int {
	i, _ := d.search(col)
	return i
}

// search returns the insertion point of col in ColInd (lower bound) and
// whether col is present exactly.
func (d *DCSC[IT, T]) search(col int64) (pos int, found bool) {
	n := d.NumCols()
	pos = sort.Search(n, func(i int) bool { return int64(d.ColInd[i]) >= col })
	found = pos < n && int64(d.ColInd[pos]) == col
	return pos, found
}

// Search exposes the lower-bound search by column position, for callers
// (the shadow package) that need to validate a position against their own
// column-position window before trusting it.
func (d *DCSC[IT, T]) Search(col int64) (pos int, found bool) { return d.search(col) }

// ColumnRefAt returns the ColumnRef stored at ColInd position i.
func (d *DCSC[IT, T]) ColumnRefAt(i int) ColumnRef { return d.refAt(i) }

// ColumnRef names one stored column's half-open row range by position.
type ColumnRef struct {
	Col        int64
	RowsBegin  int32
	RowsEnd    int32
}

func (d *DCSC[IT, T]) refAt(i int) ColumnRef {
	return ColumnRef{
		Col:       int64(d.ColInd[i]),
		RowsBegin: d.ColPtr[i],
		RowsEnd:   d.ColPtr[i+1],
	}
}

// Rows returns the row indices and values for a ColumnRef, widened to
// int64 so callers never need to know IT.
func (d *DCSC[IT, T]) Rows(ref ColumnRef) (rows []int64, values []T) {
	rows = make([]int64, ref.RowsEnd-ref.RowsBegin)
	for i := range rows {
		rows[i] = int64(d.RowInd[int(ref.RowsBegin)+i])
	}
	return rows, d.Values[ref.RowsBegin:ref.RowsEnd]
}

// Columns iterates every stored column ascending, yielding a ColumnRef per
// column. Iteration is forward-only with O(1) end comparison, matching the
// contract in spec.md section 4.1.
func (d *DCSC[IT, T]) Columns(yield func(ColumnRef) bool) {
	for i := range d.ColInd {
		if !yield(d.refAt(i)) {
			return
		}
	}
}

// Tuples iterates every stored (row, col, value) triple in column-major
// order.
func (d *DCSC[IT, T]) Tuples(yield func(row, col int64, val T) bool) {
	for i, c := range d.ColInd {
		begin, end := d.ColPtr[i], d.ColPtr[i+1]
		for k := begin; k < end; k++ {
			if !yield(int64(d.RowInd[k]), int64(c), d.Values[k]) {
				return
			}
		}
	}
}

// Builder appends one column at a time from a SpA. Columns must be added in
// strictly increasing order; Finish() seals the result.
type Builder[IT bitwidth.Index, T any] struct {
	out      DCSC[IT, T]
	lastCol  int64
	hasCol   bool
	anyAdded bool
}

// NewBuilder returns an empty builder.
func NewBuilder[IT bitwidth.Index, T any]() *Builder[IT, T] {
	b := &Builder[IT, T]{}
	b.out.ColPtr = append(b.out.ColPtr, 0)
	return b
}

// AddColumnFromSpa dumps rows/values (already in ascending row order) as the
// next column. col must be strictly greater than every previously added
// column.
func (b *Builder[IT, T]) AddColumnFromSpa(col int64, rows []int64, values []T) error {
	if b.hasCol && col <= b.lastCol {
		return fmt.Errorf("dcsc: out-of-order column %d after %d", col, b.lastCol)
	}
	if len(rows) == 0 {
		// nothing to record; an empty column is simply never listed.
		b.lastCol, b.hasCol = col, true
		return nil
	}
	b.out.ColInd = append(b.out.ColInd, IT(col))
	for i, r := range rows {
		b.out.RowInd = append(b.out.RowInd, IT(r))
		b.out.Values = append(b.out.Values, values[i])
	}
	b.out.ColPtr = append(b.out.ColPtr, int32(len(b.out.RowInd)))
	b.lastCol, b.hasCol, b.anyAdded = col, true, true
	return nil
}

// Finish seals the builder into an immutable DCSC. The trailing ColPtr
// sentinel is only meaningful (and only appended beyond the initial 0) if
// at least one column carried rows; Builder already maintains that
// invariant column by column, so Finish is a plain return.
func (b *Builder[IT, T]) Finish() *DCSC[IT, T] {
	out := b.out
	if !b.anyAdded {
		out.ColPtr = []int32{0}
	}
	return &out
}

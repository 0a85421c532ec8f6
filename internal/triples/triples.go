// Package triples implements the unsorted triples leaf used only as a
// construction scratchpad while building a quadtree from an unordered
// tuple stream, plus the in-place permutation-vector partitioning the
// quadtree builder recurses over.
package triples

import "sort"

// Leaf holds three parallel, append-only vectors: rows, cols, values. It is
// never mutated after construction except by Append, and is discarded once
// the quadtree it seeded is built.
type Leaf[T any] struct {
	Rows   []int64
	Cols   []int64
	Values []T
}

// NewLeaf preallocates room for n triples.
func NewLeaf[T any](n int) *Leaf[T] {
	return &Leaf[T]{
		Rows:   make([]int64, 0, n),
		Cols:   make([]int64, 0, n),
		Values: make([]T, 0, n),
	}
}

// Append adds one (row, col, value) triple.
func (l *Leaf[T]) Append(row, col int64, val T) {
	l.Rows = append(l.Rows, row)
	l.Cols = append(l.Cols, col)
	l.Values = append(l.Values, val)
}

// Len returns the number of stored triples.
func (l *Leaf[T]) Len() int { return len(l.Rows) }

// Perm is a permutation vector over a Leaf's indices: construction operates
// on Perm in place so the underlying triples vectors are never moved.
type Perm []int32

// Identity returns the permutation [0, n).
func Identity(n int) Perm {
	p := make(Perm, n)
	for i := range p {
		p[i] = int32(i)
	}
	return p
}

// SortByColThenRow sorts the slice p[lo:hi] in place by (col, row) of the
// underlying leaf, for leaves small enough to become one DCSC block.
func SortByColThenRow[T any](l *Leaf[T], p Perm, lo, hi int) {
	s := p[lo:hi]
	sort.Slice(s, func(i, j int) bool {
		ii, jj := s[i], s[j]
		if l.Cols[ii] != l.Cols[jj] {
			return l.Cols[ii] < l.Cols[jj]
		}
		return l.Rows[ii] < l.Rows[jj]
	})
}

// PartitionByCol reorders p[lo:hi] in place so every index whose column is
// < threshold comes first, returning the split point. This is a Hoare-style
// two-pointer partition, the same in-place-on-a-permutation idiom the
// quadtree builder needs for both the column split (west/east) and, per
// half, the row split (north/south).
func PartitionByCol[T any](l *Leaf[T], p Perm, lo, hi int, threshold int64) int {
	i, j := lo, hi-1
	for i <= j {
		for i <= j && l.Cols[p[i]] < threshold {
			i++
		}
		for i <= j && l.Cols[p[j]] >= threshold {
			j--
		}
		if i < j {
			p[i], p[j] = p[j], p[i]
			i++
			j--
		}
	}
	return i
}

// PartitionByRow is PartitionByCol's row-dimension twin.
func PartitionByRow[T any](l *Leaf[T], p Perm, lo, hi int, threshold int64) int {
	i, j := lo, hi-1
	for i <= j {
		for i <= j && l.Rows[p[i]] < threshold {
			i++
		}
		for i <= j && l.Rows[p[j]] >= threshold {
			j--
		}
		if i < j {
			p[i], p[j] = p[j], p[i]
			i++
			j--
		}
	}
	return i
}

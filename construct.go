package qdmat

import (
	"github.com/qdmat/qdmat/internal/bitwidth"
	"github.com/qdmat/qdmat/internal/dcsc"
	"github.com/qdmat/qdmat/internal/triples"
)

// subdivide is the entry point for C11 construction (spec.md section 4.9):
// it stages tuples into an internal/triples scratchpad and recursively
// splits it by quadrant until every range is small enough to become one
// leaf.
func subdivide[T any](tuples []Tuple[T], shape Shape, cfg Config, sr Semiring[T]) (node[T], error) {
	if len(tuples) == 0 {
		return emptyNodeFor[T](), nil
	}
	l := triples.NewLeaf[T](len(tuples))
	for _, t := range tuples {
		l.Append(t.Row, t.Col, t.Val)
	}
	p := triples.Identity(len(tuples))
	return subdivideRange[T](l, p, 0, len(tuples), shape, Offset{}, cfg, sr)
}

// subdivideRange recurses over p[lo:hi], the triples currently occupying a
// block of the given shape and absolute offset. Per spec.md section 4.9:
// once the range is small enough it becomes one leaf; otherwise it is
// partitioned by column then by row against the block's discriminating
// bit and each quadrant recurses with its own child shape and offset.
func subdivideRange[T any](l *triples.Leaf[T], p triples.Perm, lo, hi int, shape Shape, offset Offset, cfg Config, sr Semiring[T]) (node[T], error) {
	if lo == hi {
		return emptyNodeFor[T](), nil
	}
	if int32(hi-lo) <= cfg.LeafSplitThreshold {
		return buildLeaf[T](l, p, lo, hi, shape, offset, sr)
	}

	d := bitwidth.DiscriminatingBit(int64(shape.NRows), int64(shape.NCols))
	colThreshold := offset.Col + d
	rowThreshold := offset.Row + d

	mid := triples.PartitionByCol(l, p, lo, hi, colThreshold)
	nwswSplit := triples.PartitionByRow(l, p, lo, mid, rowThreshold)
	neseSplit := triples.PartitionByRow(l, p, mid, hi, rowThreshold)

	inner := newInnerBlock[T](d)
	ranges := map[Position][2]int{
		NW: {lo, nwswSplit},
		SW: {nwswSplit, mid},
		NE: {mid, neseSplit},
		SE: {neseSplit, hi},
	}
	for _, pos := range allPositions {
		rng := ranges[pos]
		childShape := inner.GetChildShape(pos, shape)
		childOffset := inner.GetChildOffsets(pos, offset)
		child, err := subdivideRange[T](l, p, rng[0], rng[1], childShape, childOffset, cfg, sr)
		if err != nil {
			return nil, err
		}
		inner.setChildAt(pos, child)
	}
	return inner, nil
}

// buildLeaf sorts p[lo:hi] by (col, row) and feeds it column by column into
// a width-appropriate dcsc.Builder, collapsing duplicate (row, col)
// triples via sr.Add. The leaf's own index width is chosen by
// bitwidth.For(shape) (spec.md section 4.1's "narrowest width that fits
// this leaf's own local shape"), so this is also the dispatch point that
// picks int16/int32/int64 storage concretely and erases it again behind
// leafNode[T] on return.
func buildLeaf[T any](l *triples.Leaf[T], p triples.Perm, lo, hi int, shape Shape, offset Offset, sr Semiring[T]) (leafNode[T], error) {
	triples.SortByColThenRow(l, p, lo, hi)
	switch bitwidth.For(int64(shape.NRows), int64(shape.NCols)) {
	case bitwidth.W16:
		return buildLeafTyped[int16, T](l, p, lo, hi, shape, offset, sr)
	case bitwidth.W32:
		return buildLeafTyped[int32, T](l, p, lo, hi, shape, offset, sr)
	default:
		return buildLeafTyped[int64, T](l, p, lo, hi, shape, offset, sr)
	}
}

func buildLeafTyped[IT bitwidth.Index, T any](l *triples.Leaf[T], p triples.Perm, lo, hi int, shape Shape, offset Offset, sr Semiring[T]) (leafNode[T], error) {
	b := dcsc.NewBuilder[IT, T]()
	i := lo
	for i < hi {
		col := l.Cols[p[i]]
		var rows []int64
		var vals []T
		for i < hi && l.Cols[p[i]] == col {
			r := l.Rows[p[i]]
			v := l.Values[p[i]]
			if n := len(rows); n > 0 && rows[n-1] == r {
				vals[n-1] = sr.Add(vals[n-1], v)
			} else {
				rows = append(rows, r)
				vals = append(vals, v)
			}
			i++
		}
		localRows := make([]int64, len(rows))
		for k, rr := range rows {
			localRows[k] = rr - offset.Row
		}
		if err := b.AddColumnFromSpa(col-offset.Col, localRows, vals); err != nil {
			return nil, err
		}
	}
	return newDcscLeaf[IT, T](b.Finish(), shape), nil
}

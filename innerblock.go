package qdmat

import "github.com/qdmat/qdmat/internal/bitwidth"

// blockContainer is the abstract parent-of-children role shared by
// *innerBlock[T] and *rootContainer[T]: anything that can report a
// discriminating bit and compute child geometry from it.
type blockContainer[T any] interface {
	// GetDiscriminatingBit returns the single-bit power of two that splits
	// this container's shape in half along both axes.
	GetDiscriminatingBit() Index

	// GetChildOffsets returns the absolute offset of the child at pos,
	// given this container's own absolute offset.
	GetChildOffsets(pos Position, myOffset Offset) Offset

	// GetChildShape returns the shape of the child at pos, given this
	// container's own shape.
	GetChildShape(pos Position, myShape Shape) Shape

	// CreateInner installs and returns a freshly allocated inner child at
	// pos, with discriminating bit GetDiscriminatingBit()>>1.
	CreateInner(pos Position) *innerBlock[T]

	// childAt returns the current child node at pos (possibly nil/empty).
	childAt(pos Position) node[T]

	// setChildAt installs n as the child at pos.
	setChildAt(pos Position, n node[T])
}

// innerBlock is a 2x2 split of a block: four children indexed by Position,
// and the discriminating bit that splits this block's own shape. Every
// descendant's bit is this one shifted right by one per level of depth.
type innerBlock[T any] struct {
	children [4]node[T]
	discBit  Index
}

func (*innerBlock[T]) kind() nodeKind { return nodeInner }

// newInnerBlock allocates an inner block with all four children set to the
// shared empty singleton; construction overwrites the non-empty quadrants.
func newInnerBlock[T any](discBit Index) *innerBlock[T] {
	b := &innerBlock[T]{discBit: discBit}
	for _, p := range allPositions {
		b.children[p] = emptyNodeFor[T]()
	}
	return b
}

func (b *innerBlock[T]) GetDiscriminatingBit() Index { return b.discBit }

func (b *innerBlock[T]) childAt(pos Position) node[T]       { return b.children[pos] }
func (b *innerBlock[T]) setChildAt(pos Position, n node[T]) { b.children[pos] = n }

// GetChildOffsets implements the OR-based offset geometry from spec.md
// section 4.3: NW keeps the parent offset; NE ORs the bit into the column
// offset; SW ORs it into the row offset; SE ORs into both. OR is equivalent
// to addition here because every offset this module produces is aligned to
// its own discriminating bit: the bits below d are always zero at this
// point in the offset's construction.
func (b *innerBlock[T]) GetChildOffsets(pos Position, myOffset Offset) Offset {
	d := b.discBit
	switch pos {
	case NW:
		return myOffset
	case NE:
		return Offset{Row: myOffset.Row, Col: myOffset.Col | d}
	case SW:
		return Offset{Row: myOffset.Row | d, Col: myOffset.Col}
	case SE:
		return Offset{Row: myOffset.Row | d, Col: myOffset.Col | d}
	default:
		invariantViolation("unknown position %d", pos)
		return Offset{}
	}
}

// GetChildShape implements the clamped-split geometry from spec.md section
// 4.3: NW takes min(d, dim) on each axis; the opposite quadrant on each
// axis takes the remainder, which may be zero if the block is smaller than
// d on that axis.
func (b *innerBlock[T]) GetChildShape(pos Position, myShape Shape) Shape {
	d := b.discBit
	nwRows := minIndex(d, myShape.NRows)
	nwCols := minIndex(d, myShape.NCols)
	switch pos {
	case NW:
		return Shape{NRows: nwRows, NCols: nwCols}
	case NE:
		return Shape{NRows: nwRows, NCols: myShape.NCols - nwCols}
	case SW:
		return Shape{NRows: myShape.NRows - nwRows, NCols: nwCols}
	case SE:
		return Shape{NRows: myShape.NRows - nwRows, NCols: myShape.NCols - nwCols}
	default:
		invariantViolation("unknown position %d", pos)
		return Shape{}
	}
}

// CreateInner installs a freshly allocated inner child at pos with
// discriminating bit d>>1 and returns it.
func (b *innerBlock[T]) CreateInner(pos Position) *innerBlock[T] {
	child := newInnerBlock[T](b.discBit >> 1)
	b.children[pos] = child
	return child
}

func minIndex(a, b Index) Index {
	if a < b {
		return a
	}
	return b
}

// rootContainer is the single-block-container variant from spec.md section
// 4.2: it owns exactly one child and reports a discriminating bit one step
// above what its own shape would suggest, so it behaves as a synthetic NW
// parent of a virtual (2*shape)-sized square. NW/NE/SW/SE on the root all
// collapse to the same single child.
type rootContainer[T any] struct {
	child node[T]
	shape Shape
}

// newRootContainer builds the root container for a matrix of the given
// shape, with no child (callers install one via setChildAt / CreateInner).
func newRootContainer[T any](shape Shape) *rootContainer[T] {
	return &rootContainer[T]{child: emptyNodeFor[T](), shape: shape}
}

func (r *rootContainer[T]) GetDiscriminatingBit() Index {
	return bitwidth.DiscriminatingBit(int64(r.shape.NRows), int64(r.shape.NCols)) << 1
}

func (r *rootContainer[T]) GetChildOffsets(_ Position, myOffset Offset) Offset {
	return myOffset
}

func (r *rootContainer[T]) GetChildShape(_ Position, myShape Shape) Shape {
	return myShape
}

func (r *rootContainer[T]) CreateInner(pos Position) *innerBlock[T] {
	child := newInnerBlock[T](r.GetDiscriminatingBit() >> 1)
	r.child = child
	return child
}

func (r *rootContainer[T]) childAt(Position) node[T] { return r.child }

func (r *rootContainer[T]) setChildAt(_ Position, n node[T]) { r.child = n }

package qdmat

import (
	"unsafe"

	"github.com/qdmat/qdmat/internal/bitwidth"
	"github.com/qdmat/qdmat/internal/dcsc"
	"github.com/qdmat/qdmat/internal/spa"
	"github.com/qdmat/qdmat/internal/task"
)

// pair is one entry of a pair-set: two tree-nodes destined for the same
// output block, each side's own shape, and each side's own discriminating
// bit — the bit that a shadow subdivision of that side (if it turns out to
// be a leaf sitting opposite an inner block) must split against.
type pair[T any] struct {
	a, b           node[T]
	aShape, bShape Shape
	aParentDiscBit Index
	bParentDiscBit Index
}

// Multiply is the public entry point (C12): c = a*b under sr. Unlike
// spec.md's Run contract, this module never threads absolute offsets
// through the recursion — leaves already store row/col relative to their
// own block, so offsets only matter at traversal time (DumpTuples), not
// during construction or multiplication.
func Multiply[T any](a, b *Matrix[T], sr Semiring[T], cfg Config) (*Matrix[T], error) {
	if a == nil || b == nil {
		return nil, ErrNilMatrix
	}
	if a.shape.NCols != b.shape.NRows {
		return nil, ErrDimensionMismatch
	}
	destShape := Shape{NRows: a.shape.NRows, NCols: b.shape.NCols}
	if !destShape.IsPositive() {
		return nil, ErrDimensionMismatch
	}

	root := newRootContainer[T](destShape)
	aRoot, bRoot := a.root, b.root
	ps := []pair[T]{{
		a: aRoot.childAt(NW), b: bRoot.childAt(NW),
		aShape: a.shape, bShape: b.shape,
		aParentDiscBit: aRoot.GetDiscriminatingBit(),
		bParentDiscBit: bRoot.GetDiscriminatingBit(),
	}}
	if err := runPairSet[T](ps, root, NW, destShape, sr, cfg); err != nil {
		return nil, err
	}
	return &Matrix[T]{shape: destShape, root: root}, nil
}

// runPairSet implements the Job contract from spec.md section 4.7 with
// pruning on; runPairSetPrune takes the prune flag explicitly. The flag
// controls only whether pairs with an empty side are dropped before the
// structural validation pass: with prune false, validation sees every pair,
// so an empty block cannot mask a dimension mismatch or an encountered
// future block; with prune true, it sees only the pairs that survive
// pruning.
func runPairSet[T any](ps []pair[T], destBC blockContainer[T], destPos Position, destShape Shape, sr Semiring[T], cfg Config) error {
	return runPairSetPrune[T](ps, destBC, destPos, destShape, sr, cfg, true)
}

func runPairSetPrune[T any](ps []pair[T], destBC blockContainer[T], destPos Position, destShape Shape, sr Semiring[T], cfg Config, prune bool) error {
	validate := ps
	if prune {
		validate = pruneEmpty(ps)
	}
	for _, p := range validate {
		if p.aShape.NCols != p.bShape.NRows {
			return ErrDimensionMismatch
		}
		if p.a.kind() == nodeFuture || p.b.kind() == nodeFuture {
			return ErrNotImplemented
		}
	}

	work := pruneEmpty(validate)
	if len(work) == 0 {
		destBC.setChildAt(destPos, emptyNodeFor[T]())
		return nil
	}

	// A zero-width/zero-height destination quadrant is only ever reached
	// with nonempty work if something upstream is actually broken (the
	// legitimate zero-remainder case always prunes to len(work)==0 above).
	if !destShape.IsPositive() {
		return ErrDimensionMismatch
	}

	hasInner := false
	for _, p := range work {
		if p.a.kind() == nodeInner || p.b.kind() == nodeInner {
			hasInner = true
			break
		}
	}
	if hasInner {
		return recurse[T](work, destBC, destPos, destShape, sr, cfg)
	}
	return runLeafMultiply[T](work, destBC, destPos, destShape, sr, cfg)
}

// pruneEmpty drops every pair with at least one empty side: such a pair's
// product is structurally zero regardless of what the other side holds.
func pruneEmpty[T any](ps []pair[T]) []pair[T] {
	out := make([]pair[T], 0, len(ps))
	for _, p := range ps {
		if isEmpty[T](p.a) || isEmpty[T](p.b) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// recurse implements spec.md section 4.7.1: expand every pair by the
// quad-product identity (shadow-subdividing any leaf that sits opposite an
// inner block first), then either flatten into one pair-set at the same
// destination (flat-vs-split) or create a destination inner block and
// recurse into each of its four quadrants.
func recurse[T any](ps []pair[T], destBC blockContainer[T], destPos Position, destShape Shape, sr Semiring[T], cfg Config) error {
	R := map[Position][]pair[T]{}
	var aUnion, bUnion Index
	for _, p := range ps {
		aUnion |= p.aParentDiscBit
		bUnion |= p.bParentDiscBit
		ai := toInner[T](p.a, p.aShape, p.aParentDiscBit)
		bi := toInner[T](p.b, p.bShape, p.bParentDiscBit)
		contribs := quadProduct[T](ai, bi, p.aShape, p.bShape)
		for _, pos := range allPositions {
			R[pos] = append(R[pos], contribs[pos]...)
		}
	}
	childAParent := aUnion >> 1
	childBParent := bUnion >> 1
	for _, pos := range allPositions {
		for i := range R[pos] {
			R[pos][i].aParentDiscBit = childAParent
			R[pos][i].bParentDiscBit = childBParent
		}
	}

	if childAParent >= destBC.GetDiscriminatingBit() {
		merged := make([]pair[T], 0, len(R[NW])+len(R[NE])+len(R[SW])+len(R[SE]))
		for _, pos := range allPositions {
			merged = append(merged, R[pos]...)
		}
		return runPairSetPrune[T](merged, destBC, destPos, destShape, sr, cfg, true)
	}

	newInner := destBC.CreateInner(destPos)
	for _, pos := range allPositions {
		childShape := newInner.GetChildShape(pos, destShape)
		if err := runPairSetPrune[T](R[pos], newInner, pos, childShape, sr, cfg, false); err != nil {
			return err
		}
	}
	allEmpty := true
	for _, pos := range allPositions {
		if !isEmpty[T](newInner.childAt(pos)) {
			allEmpty = false
			break
		}
	}
	if allEmpty {
		destBC.setChildAt(destPos, emptyNodeFor[T]())
	}
	return nil
}

// toInner returns n as an *innerBlock[T], shadow-subdividing it first if it
// is a leaf (spec.md section 4.8). parentDiscBit is the discriminating bit
// of the block n currently occupies.
func toInner[T any](n node[T], shape Shape, parentDiscBit Index) *innerBlock[T] {
	switch v := n.(type) {
	case *innerBlock[T]:
		return v
	case leafNode[T]:
		return subdivideLeaf[T](v, shape, parentDiscBit)
	default:
		invariantViolation("unexpected node kind %v while expanding a pair", n.kind())
		return nil
	}
}

// quadProduct builds the four child pair lists per the quad-product
// identity in spec.md section 4.7.1, from two already-inner sides.
func quadProduct[T any](ai, bi *innerBlock[T], aShape, bShape Shape) map[Position][]pair[T] {
	mk := func(aPos, bPos Position) pair[T] {
		return pair[T]{
			a: ai.childAt(aPos), b: bi.childAt(bPos),
			aShape: ai.GetChildShape(aPos, aShape),
			bShape: bi.GetChildShape(bPos, bShape),
		}
	}
	return map[Position][]pair[T]{
		NW: {mk(NW, NW), mk(NE, SW)},
		NE: {mk(NW, NE), mk(NE, SE)},
		SW: {mk(SW, NW), mk(SE, SW)},
		SE: {mk(SW, NE), mk(SE, SE)},
	}
}

// runLeafMultiply implements spec.md section 4.7.2: multiply every leaf
// pair, accumulate the partials through the DCSC accumulator, and install
// the result (or empty, if it turned out to have no nonzeros). Each
// leaf-pair product is an independent unit of work, so the pairs are run
// through internal/task's priority queue (C13, §4.10) instead of a plain
// loop: larger pairs (by combined nonzero count) run first, via the
// queue's re-entrant enqueue-from-within-a-task pattern.
func runLeafMultiply[T any](ps []pair[T], destBC blockContainer[T], destPos Position, destShape Shape, sr Semiring[T], cfg Config) error {
	partials := make([]leafNode[T], len(ps))
	errs := make([]error, len(ps))

	q := task.NewQueue()
	q.Enqueue(task.Func{Run: func() {
		for i, p := range ps {
			aLeaf, ok := p.a.(leafNode[T])
			if !ok {
				invariantViolation("expected leaf node on a-side, got kind %v", p.a.kind())
			}
			bLeaf, ok := p.b.(leafNode[T])
			if !ok {
				invariantViolation("expected leaf node on b-side, got kind %v", p.b.kind())
			}
			q.Enqueue(task.Func{
				Prio: int64(aLeaf.Nnn()) + int64(bLeaf.Nnn()),
				Run: func() {
					partials[i], errs[i] = multiplyLeaves[T](aLeaf, bLeaf, destShape, sr, cfg)
				},
			})
		}
	}})
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	result, err := collapseLeaves[T](partials, destShape, sr, cfg)
	if err != nil {
		return err
	}
	if result.Nnn() == 0 {
		destBC.setChildAt(destPos, emptyNodeFor[T]())
	} else {
		destBC.setChildAt(destPos, result)
	}
	return nil
}

// collapseLeaves merges every partial-product leaf for one destination
// block through internal/dcsc.Accumulator, dispatching on the destination
// shape's own leaf index width (spec.md section 4.7.2's ret_index_width).
func collapseLeaves[T any](partials []leafNode[T], destShape Shape, sr Semiring[T], cfg Config) (leafNode[T], error) {
	switch bitwidth.For(int64(destShape.NRows), int64(destShape.NCols)) {
	case bitwidth.W16:
		return collapseLeavesTyped[int16, T](partials, destShape, sr, cfg)
	case bitwidth.W32:
		return collapseLeavesTyped[int32, T](partials, destShape, sr, cfg)
	default:
		return collapseLeavesTyped[int64, T](partials, destShape, sr, cfg)
	}
}

func collapseLeavesTyped[IT bitwidth.Index, T any](partials []leafNode[T], destShape Shape, sr Semiring[T], cfg Config) (leafNode[T], error) {
	blocks := make([]*dcsc.DCSC[IT, T], 0, len(partials))
	for _, p := range partials {
		dl, ok := p.(*dcscLeaf[IT, T])
		if !ok {
			invariantViolation("leaf multiply produced an unexpected concrete index width")
		}
		blocks = append(blocks, dl.base)
	}
	var zero T
	elemSize := int64(unsafe.Sizeof(zero))
	dense := cfg.ShouldUseDenseSpa(destShape.NRows, elemSize)
	acc := dcsc.NewAccumulator[IT, T](int64(destShape.NRows), spa.Semiring[T]{Add: sr.Add, Multiply: sr.Multiply}, dense)
	merged := acc.Collapse(blocks)
	return newDcscLeaf[IT, T](merged, destShape), nil
}

package qdmat

// Matrix is a single-root quadtree over one element type: a shape plus a
// shared-ownership root block container holding the root node, per
// spec.md section 4.1's {shape, root_bc} pair.
type Matrix[T any] struct {
	shape Shape
	root  *rootContainer[T]
}

// GetShape returns the matrix's declared dimensions.
func (m *Matrix[T]) GetShape() Shape {
	if m == nil {
		return Shape{}
	}
	return m.shape
}

// GetNnn returns the total number of stored nonzeros across every leaf in
// the tree.
func (m *Matrix[T]) GetNnn() int64 {
	if m == nil {
		return 0
	}
	return nnnOf[T](m.root.childAt(NW))
}

func nnnOf[T any](n node[T]) int64 {
	switch v := n.(type) {
	case nil:
		return 0
	case emptyNode[T]:
		return 0
	case futureNode[T]:
		invariantViolation("encountered future node while counting nonzeros")
		return 0
	case *innerBlock[T]:
		var total int64
		for _, pos := range allPositions {
			total += nnnOf[T](v.childAt(pos))
		}
		return total
	case leafNode[T]:
		return int64(v.Nnn())
	default:
		invariantViolation("unknown node kind in nnnOf")
		return 0
	}
}

// DumpTuples streams every stored (row, col, value) nonzero in the matrix,
// in the tree's natural (depth-first, quadrant order NW,NE,SW,SE)
// traversal order, stopping early if yield returns false.
func (m *Matrix[T]) DumpTuples(yield func(Tuple[T]) bool) {
	if m == nil {
		return
	}
	walk[T](m.root.childAt(NW), Offset{}, m.shape, yield)
}

func walk[T any](n node[T], offset Offset, shape Shape, yield func(Tuple[T]) bool) bool {
	switch v := n.(type) {
	case nil:
		return true
	case emptyNode[T]:
		return true
	case futureNode[T]:
		invariantViolation("encountered future node while dumping tuples")
		return false
	case *innerBlock[T]:
		for _, pos := range allPositions {
			childOff := v.GetChildOffsets(pos, offset)
			childShape := v.GetChildShape(pos, shape)
			if !walk[T](v.childAt(pos), childOff, childShape, yield) {
				return false
			}
		}
		return true
	case leafNode[T]:
		cont := true
		v.Columns(func(col int64, rows []int64, values []T) bool {
			for i, r := range rows {
				t := Tuple[T]{Row: offset.Row + r, Col: offset.Col + col, Val: values[i]}
				if !yield(t) {
					cont = false
					return false
				}
			}
			return true
		})
		return cont
	default:
		invariantViolation("unknown node kind in walk")
		return false
	}
}

// NewMatrix builds an empty matrix of the given shape.
func NewMatrix[T any](shape Shape) (*Matrix[T], error) {
	if !shape.IsPositive() {
		return nil, ErrDimensionMismatch
	}
	return &Matrix[T]{shape: shape, root: newRootContainer[T](shape)}, nil
}

// MatrixFromTuples builds a matrix of the given shape from stream, per
// spec.md section 4.9's construction contract (C11).
func MatrixFromTuples[T any](shape Shape, stream TupleStream[T], sr Semiring[T], cfg Config) (*Matrix[T], error) {
	if !shape.IsPositive() {
		return nil, ErrDimensionMismatch
	}
	m := &Matrix[T]{shape: shape, root: newRootContainer[T](shape)}
	child, err := subdivide[T](drainStream(stream), shape, cfg, sr)
	if err != nil {
		return nil, err
	}
	m.root.setChildAt(NW, child)
	return m, nil
}

// Identity builds the n x n identity matrix, using one as the
// multiplicative identity of the caller's semiring (1 for PlusTimes, true
// for OrAnd, 0 for MinPlus). Semiring does not itself carry this value
// since it differs in kind from Zero (additive identity) and several
// semirings share one Go element type with different "one"s.
func Identity[T any](n Index, one T, sr Semiring[T], cfg Config) (*Matrix[T], error) {
	if n <= 0 {
		return nil, ErrDimensionMismatch
	}
	tuples := make([]Tuple[T], n)
	for i := Index(0); i < n; i++ {
		tuples[i] = Tuple[T]{Row: i, Col: i, Val: one}
	}
	return MatrixFromTuples[T](Shape{NRows: n, NCols: n}, SliceStream(tuples), sr, cfg)
}

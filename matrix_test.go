package qdmat_test

import (
	"sort"
	"testing"

	"github.com/qdmat/qdmat"
	"github.com/stretchr/testify/require"
)

func dump[T any](t *testing.T, m *qdmat.Matrix[T]) []qdmat.Tuple[T] {
	t.Helper()
	var out []qdmat.Tuple[T]
	m.DumpTuples(func(tup qdmat.Tuple[T]) bool {
		out = append(out, tup)
		return true
	})
	return out
}

func sortTuples[T any](tuples []qdmat.Tuple[T]) {
	sort.Slice(tuples, func(i, j int) bool {
		if tuples[i].Row != tuples[j].Row {
			return tuples[i].Row < tuples[j].Row
		}
		return tuples[i].Col < tuples[j].Col
	})
}

func requireSameTuples(t *testing.T, want, got []qdmat.Tuple[float64]) {
	t.Helper()
	sortTuples(want)
	sortTuples(got)
	require.Equal(t, want, got)
}

func buildFloat(t *testing.T, shape qdmat.Shape, tuples []qdmat.Tuple[float64]) *qdmat.Matrix[float64] {
	t.Helper()
	m, err := qdmat.MatrixFromTuples[float64](shape, qdmat.SliceStream(tuples), qdmat.PlusTimes[float64](), qdmat.DefaultConfig())
	require.NoError(t, err)
	return m
}

func TestScenarioEmptyTimesEmpty(t *testing.T) {
	shape := qdmat.Shape{NRows: 10, NCols: 10}
	a := buildFloat(t, shape, nil)
	b := buildFloat(t, shape, nil)

	c, err := qdmat.Multiply[float64](a, b, qdmat.PlusTimes[float64](), qdmat.DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, shape, c.GetShape())
	require.EqualValues(t, 0, c.GetNnn())
}

func TestScenarioIdentitySquared(t *testing.T) {
	cfg := qdmat.DefaultConfig()
	sr := qdmat.PlusTimes[float64]()
	a, err := qdmat.Identity[float64](10, 1, sr, cfg)
	require.NoError(t, err)

	c, err := qdmat.Multiply[float64](a, a, sr, cfg)
	require.NoError(t, err)

	want := make([]qdmat.Tuple[float64], 10)
	for i := range want {
		want[i] = qdmat.Tuple[float64]{Row: int64(i), Col: int64(i), Val: 1}
	}
	requireSameTuples(t, want, dump(t, c))
}

func TestScenarioAllOnesSquared(t *testing.T) {
	var tuples []qdmat.Tuple[float64]
	for i := int64(0); i < 4; i++ {
		for j := int64(0); j < 4; j++ {
			tuples = append(tuples, qdmat.Tuple[float64]{Row: i, Col: j, Val: 1})
		}
	}
	shape := qdmat.Shape{NRows: 4, NCols: 4}
	a := buildFloat(t, shape, tuples)

	c, err := qdmat.Multiply[float64](a, a, qdmat.PlusTimes[float64](), qdmat.DefaultConfig())
	require.NoError(t, err)

	var want []qdmat.Tuple[float64]
	for i := int64(0); i < 4; i++ {
		for j := int64(0); j < 4; j++ {
			want = append(want, qdmat.Tuple[float64]{Row: i, Col: j, Val: 4})
		}
	}
	requireSameTuples(t, want, dump(t, c))
}

func TestScenarioKepnerGilbertTimesIdentity(t *testing.T) {
	edges := []qdmat.Tuple[float64]{
		{Row: 1, Col: 0, Val: 1}, {Row: 3, Col: 0, Val: 1},
		{Row: 4, Col: 1, Val: 1}, {Row: 6, Col: 1, Val: 1},
		{Row: 5, Col: 2, Val: 1},
		{Row: 0, Col: 3, Val: 1}, {Row: 2, Col: 3, Val: 1},
		{Row: 5, Col: 4, Val: 1},
		{Row: 2, Col: 5, Val: 1},
		{Row: 2, Col: 6, Val: 1}, {Row: 3, Col: 6, Val: 1}, {Row: 4, Col: 6, Val: 1},
	}
	shape := qdmat.Shape{NRows: 7, NCols: 7}
	a := buildFloat(t, shape, edges)

	cfg := qdmat.DefaultConfig()
	sr := qdmat.PlusTimes[float64]()
	b, err := qdmat.Identity[float64](7, 1, sr, cfg)
	require.NoError(t, err)

	c, err := qdmat.Multiply[float64](a, b, sr, cfg)
	require.NoError(t, err)
	require.EqualValues(t, 12, c.GetNnn())
	requireSameTuples(t, append([]qdmat.Tuple[float64]{}, edges...), dump(t, c))
}

func TestScenarioVectorDotProduct(t *testing.T) {
	var row, col []qdmat.Tuple[float64]
	for i := int64(0); i < 16; i++ {
		row = append(row, qdmat.Tuple[float64]{Row: 0, Col: i, Val: 1})
		col = append(col, qdmat.Tuple[float64]{Row: i, Col: 0, Val: 1})
	}
	a := buildFloat(t, qdmat.Shape{NRows: 1, NCols: 16}, row)
	b := buildFloat(t, qdmat.Shape{NRows: 16, NCols: 1}, col)

	c, err := qdmat.Multiply[float64](a, b, qdmat.PlusTimes[float64](), qdmat.DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, qdmat.Shape{NRows: 1, NCols: 1}, c.GetShape())
	requireSameTuples(t, []qdmat.Tuple[float64]{{Row: 0, Col: 0, Val: 16}}, dump(t, c))
}

func TestScenarioVectorCrossProduct(t *testing.T) {
	var col, row []qdmat.Tuple[float64]
	for i := int64(0); i < 16; i++ {
		col = append(col, qdmat.Tuple[float64]{Row: i, Col: 0, Val: 1})
		row = append(row, qdmat.Tuple[float64]{Row: 0, Col: i, Val: 1})
	}
	a := buildFloat(t, qdmat.Shape{NRows: 16, NCols: 1}, col)
	b := buildFloat(t, qdmat.Shape{NRows: 1, NCols: 16}, row)

	c, err := qdmat.Multiply[float64](a, b, qdmat.PlusTimes[float64](), qdmat.DefaultConfig())
	require.NoError(t, err)

	var want []qdmat.Tuple[float64]
	for i := int64(0); i < 16; i++ {
		for j := int64(0); j < 16; j++ {
			want = append(want, qdmat.Tuple[float64]{Row: i, Col: j, Val: 1})
		}
	}
	requireSameTuples(t, want, dump(t, c))
}

func TestDimensionMismatchIsFatal(t *testing.T) {
	a := buildFloat(t, qdmat.Shape{NRows: 3, NCols: 4}, nil)
	b := buildFloat(t, qdmat.Shape{NRows: 5, NCols: 2}, nil)
	_, err := qdmat.Multiply[float64](a, b, qdmat.PlusTimes[float64](), qdmat.DefaultConfig())
	require.ErrorIs(t, err, qdmat.ErrDimensionMismatch)
}

func TestNilMatrixRejected(t *testing.T) {
	a := buildFloat(t, qdmat.Shape{NRows: 2, NCols: 2}, nil)
	_, err := qdmat.Multiply[float64](nil, a, qdmat.PlusTimes[float64](), qdmat.DefaultConfig())
	require.ErrorIs(t, err, qdmat.ErrNilMatrix)
}

func TestConstructionCollapsesDuplicates(t *testing.T) {
	tuples := []qdmat.Tuple[float64]{
		{Row: 1, Col: 1, Val: 3},
		{Row: 1, Col: 1, Val: 4},
	}
	m := buildFloat(t, qdmat.Shape{NRows: 2, NCols: 2}, tuples)
	requireSameTuples(t, []qdmat.Tuple[float64]{{Row: 1, Col: 1, Val: 7}}, dump(t, m))
}

func TestLargeLeafForcesSubdivision(t *testing.T) {
	cfg := qdmat.DefaultConfig()
	cfg.LeafSplitThreshold = 4

	var tuples []qdmat.Tuple[float64]
	for i := int64(0); i < 20; i++ {
		tuples = append(tuples, qdmat.Tuple[float64]{Row: i, Col: i, Val: float64(i + 1)})
	}
	m, err := qdmat.MatrixFromTuples[float64](qdmat.Shape{NRows: 20, NCols: 20}, qdmat.SliceStream(tuples), qdmat.PlusTimes[float64](), cfg)
	require.NoError(t, err)
	require.EqualValues(t, 20, m.GetNnn())
	requireSameTuples(t, append([]qdmat.Tuple[float64]{}, tuples...), dump(t, m))

	sq, err := qdmat.Multiply[float64](m, m, qdmat.PlusTimes[float64](), cfg)
	require.NoError(t, err)
	want := make([]qdmat.Tuple[float64], 20)
	for i := int64(0); i < 20; i++ {
		v := float64(i + 1)
		want[i] = qdmat.Tuple[float64]{Row: i, Col: i, Val: v * v}
	}
	requireSameTuples(t, want, dump(t, sq))
}

// TestMixedLeafAndInnerMultiply forces one operand to stay a single DCSC leaf
// while the other is subdivided into a real inner-block tree, exercising the
// shadow-subdivision path that lets a leaf stand in for a missing inner block
// during recursion.
func TestMixedLeafAndInnerMultiply(t *testing.T) {
	var tuples []qdmat.Tuple[float64]
	for i := int64(0); i < 20; i++ {
		tuples = append(tuples, qdmat.Tuple[float64]{Row: i, Col: i, Val: float64(i + 1)})
	}
	shape := qdmat.Shape{NRows: 20, NCols: 20}

	splitCfg := qdmat.DefaultConfig()
	splitCfg.LeafSplitThreshold = 4
	subdivided, err := qdmat.MatrixFromTuples[float64](shape, qdmat.SliceStream(append([]qdmat.Tuple[float64]{}, tuples...)), qdmat.PlusTimes[float64](), splitCfg)
	require.NoError(t, err)

	wholeCfg := qdmat.DefaultConfig()
	asLeaf, err := qdmat.MatrixFromTuples[float64](shape, qdmat.SliceStream(append([]qdmat.Tuple[float64]{}, tuples...)), qdmat.PlusTimes[float64](), wholeCfg)
	require.NoError(t, err)

	sq, err := qdmat.Multiply[float64](subdivided, asLeaf, qdmat.PlusTimes[float64](), splitCfg)
	require.NoError(t, err)

	want := make([]qdmat.Tuple[float64], 20)
	for i := int64(0); i < 20; i++ {
		v := float64(i + 1)
		want[i] = qdmat.Tuple[float64]{Row: i, Col: i, Val: v * v}
	}
	requireSameTuples(t, want, dump(t, sq))
}

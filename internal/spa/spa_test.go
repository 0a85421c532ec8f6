package spa_test

import (
	"testing"

	"github.com/qdmat/qdmat/internal/spa"
	"github.com/stretchr/testify/require"
)

func intSemiring() spa.Semiring[int64] {
	return spa.Semiring[int64]{
		Add:      func(a, b int64) int64 { return a + b },
		Multiply: func(a, b int64) int64 { return a * b },
	}
}

func runBoth(t *testing.T, nrows int64, fn func(t *testing.T, s spa.SpA[int64])) {
	t.Run("dense", func(t *testing.T) { fn(t, spa.New(nrows, intSemiring(), true)) })
	t.Run("sparse", func(t *testing.T) { fn(t, spa.New(nrows, intSemiring(), false)) })
}

func TestScatterAccumulates(t *testing.T) {
	runBoth(t, 10, func(t *testing.T, s spa.SpA[int64]) {
		require.True(t, s.IsEmpty())
		s.Scatter([]int64{3, 1, 3}, []int64{10, 20, 5})
		require.False(t, s.IsEmpty())

		rows, vals := s.EmplaceBackResult(nil, nil)
		require.Equal(t, []int64{1, 3}, rows)
		require.Equal(t, []int64{20, 15}, vals)
	})
}

func TestScatterMulScalesBeforeAdd(t *testing.T) {
	runBoth(t, 10, func(t *testing.T, s spa.SpA[int64]) {
		s.ScatterMul([]int64{2, 5, 2}, []int64{3, 4, 7}, 10)
		rows, vals := s.EmplaceBackResult(nil, nil)
		require.Equal(t, []int64{2, 5}, rows)
		require.Equal(t, []int64{100, 40}, vals) // (3+7)*10, 4*10
	})
}

func TestClearResetsOnlyTouchedRows(t *testing.T) {
	runBoth(t, 10, func(t *testing.T, s spa.SpA[int64]) {
		s.Scatter([]int64{4}, []int64{99})
		s.Clear()
		require.True(t, s.IsEmpty())
		s.Scatter([]int64{4}, []int64{1})
		rows, vals := s.EmplaceBackResult(nil, nil)
		require.Equal(t, []int64{4}, rows)
		require.Equal(t, []int64{1}, vals) // not 100, proving the old value was cleared
	})
}

func TestShouldUseDense(t *testing.T) {
	require.True(t, spa.ShouldUseDense(100, 8, 1000, 10000))
	require.False(t, spa.ShouldUseDense(2000, 8, 1000, 1_000_000))
	require.False(t, spa.ShouldUseDense(100, 8, 1000, 100)) // bytes cap too small
}

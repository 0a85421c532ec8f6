package shadow_test

import (
	"testing"

	"github.com/qdmat/qdmat/internal/dcsc"
	"github.com/qdmat/qdmat/internal/shadow"
	"github.com/stretchr/testify/require"
)

// base is a 6x6 block with columns 0,2,3,5 populated.
func base(t *testing.T) *dcsc.DCSC[int32, int64] {
	t.Helper()
	b := dcsc.NewBuilder[int32, int64]()
	require.NoError(t, b.AddColumnFromSpa(0, []int64{0, 4}, []int64{1, 2}))
	require.NoError(t, b.AddColumnFromSpa(2, []int64{1}, []int64{3}))
	require.NoError(t, b.AddColumnFromSpa(3, []int64{0, 3, 5}, []int64{4, 5, 6}))
	require.NoError(t, b.AddColumnFromSpa(5, []int64{5}, []int64{7}))
	return b.Finish()
}

func TestFullWindowIsIdentity(t *testing.T) {
	d := base(t)
	w := shadow.New[int32, int64](d, 0, d.NumCols(), 0, 6, 0)

	type tup struct{ col int64; rows []int64; vals []int64 }
	var got []tup
	w.Columns(func(col int64, rows []int64, values []int64) bool {
		got = append(got, tup{col, append([]int64{}, rows...), append([]int64{}, values...)})
		return true
	})
	require.Equal(t, []tup{
		{0, []int64{0, 4}, []int64{1, 2}},
		{2, []int64{1}, []int64{3}},
		{3, []int64{0, 3, 5}, []int64{4, 5, 6}},
		{5, []int64{5}, []int64{7}},
	}, got)
}

func TestRowWindowFiltersAndTranslates(t *testing.T) {
	d := base(t)
	// rows [3,6) only, columns all.
	w := shadow.New[int32, int64](d, 0, d.NumCols(), 3, 3, 0)

	local, rows, vals, ok := w.Column(3)
	require.True(t, ok)
	require.EqualValues(t, 3, local)
	require.Equal(t, []int64{0, 2}, rows) // base rows 3,5 minus offset 3
	require.Equal(t, []int64{5, 6}, vals)

	_, _, _, ok = w.Column(2)
	require.False(t, ok, "column 2's only row (1) falls outside [3,6)")
}

func TestColumnOffsetTranslatesColumnNumbering(t *testing.T) {
	d := base(t)
	// window starting at base column position 1 (col 2), offset by 2.
	w := shadow.New[int32, int64](d, 1, d.NumCols(), 0, 6, 2)
	local, rows, vals, ok := w.Column(0) // local col 0 == base col 2
	require.True(t, ok)
	require.EqualValues(t, 0, local)
	require.Equal(t, []int64{1}, rows)
	require.Equal(t, []int64{3}, vals)
}

func TestAdvancePastEmptyColumnRange(t *testing.T) {
	d := base(t)
	// rows [1,3): base column 0's rows {0,4} don't intersect; column 2's row
	// {1} does.
	w := shadow.New[int32, int64](d, 0, d.NumCols(), 1, 2, 0)
	begin, _ := w.ColPosRange()
	require.Equal(t, 1, begin, "leading empty column 0 must be skipped")
}

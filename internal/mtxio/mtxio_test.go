package mtxio_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/qdmat/qdmat/internal/mtxio"
	"github.com/stretchr/testify/require"
)

type collectWarner struct{ msgs []string }

func (c *collectWarner) Warn(msg string) { c.msgs = append(c.msgs, msg) }

func parseFloat(fields []string) (float64, error) {
	if len(fields) == 0 {
		return 1, nil // pattern matrix
	}
	return strconv.ParseFloat(fields[0], 64)
}

const sample = `%%MatrixMarket matrix coordinate real general
% a comment line
3 3 3
1 1 1.5
2 3 2.5
3 3 -1
`

func TestReaderParsesHeaderAndTuples(t *testing.T) {
	warn := &collectWarner{}
	r, err := mtxio.NewReader(strings.NewReader(sample), parseFloat, warn)
	require.NoError(t, err)

	nrows, ncols := r.Shape()
	require.EqualValues(t, 3, nrows)
	require.EqualValues(t, 3, ncols)
	require.EqualValues(t, 3, r.NNZHint())

	var got []mtxio.Tuple[float64]
	for {
		tup, ok := r.Next()
		if !ok {
			break
		}
		got = append(got, tup)
	}
	require.Equal(t, []mtxio.Tuple[float64]{
		{Row: 0, Col: 0, Val: 1.5},
		{Row: 1, Col: 2, Val: 2.5},
		{Row: 2, Col: 2, Val: -1},
	}, got)
	require.Empty(t, warn.msgs)
}

func TestReaderWarnsAndSkipsOutOfRangeIndex(t *testing.T) {
	const in = `%%MatrixMarket matrix coordinate real general
2 2 2
1 1 1.0
5 5 9.0
`
	warn := &collectWarner{}
	r, err := mtxio.NewReader(strings.NewReader(in), parseFloat, warn)
	require.NoError(t, err)

	var got []mtxio.Tuple[float64]
	for {
		tup, ok := r.Next()
		if !ok {
			break
		}
		got = append(got, tup)
	}
	require.Len(t, got, 1)
	require.Len(t, warn.msgs, 1)
}

func TestReaderRejectsSymmetric(t *testing.T) {
	const in = "%%MatrixMarket matrix coordinate real symmetric\n1 1 1\n1 1 2.0\n"
	_, err := mtxio.NewReader(strings.NewReader(in), parseFloat, &collectWarner{})
	require.Error(t, err)
}

func TestWriterRoundTrips(t *testing.T) {
	var sb strings.Builder
	w, err := mtxio.NewWriter(&sb, 2, 2, 2, "real", func(v float64) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	})
	require.NoError(t, err)
	require.NoError(t, w.WriteTuple(0, 0, 1.5))
	require.NoError(t, w.WriteTuple(1, 1, -2))
	require.NoError(t, w.Flush())

	warn := &collectWarner{}
	r, err := mtxio.NewReader(strings.NewReader(sb.String()), parseFloat, warn)
	require.NoError(t, err)
	var got []mtxio.Tuple[float64]
	for {
		tup, ok := r.Next()
		if !ok {
			break
		}
		got = append(got, tup)
	}
	require.Equal(t, []mtxio.Tuple[float64]{{0, 0, 1.5}, {1, 1, -2}}, got)
}

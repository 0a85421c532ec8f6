package bitwidth_test

import (
	"testing"

	"github.com/qdmat/qdmat/internal/bitwidth"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	cases := []struct {
		nrows, ncols int64
		want         bitwidth.Width
	}{
		{1, 1, bitwidth.W16},
		{10, 10, bitwidth.W16},
		{32767, 1, bitwidth.W16},
		{32768, 1, bitwidth.W32},
		{1 << 20, 1 << 20, bitwidth.W32},
		{1 << 32, 1, bitwidth.W64},
	}
	for _, c := range cases {
		require.Equal(t, c.want, bitwidth.For(c.nrows, c.ncols), "shape %dx%d", c.nrows, c.ncols)
	}
}

func TestDiscriminatingBit(t *testing.T) {
	cases := []struct {
		nrows, ncols int64
		want         int64
	}{
		{1, 1, 1},
		{2, 2, 1},
		{4, 4, 2},
		{5, 4, 4},
		{10, 10, 8},
		{16, 16, 8},
		{17, 1, 16},
	}
	for _, c := range cases {
		got := bitwidth.DiscriminatingBit(c.nrows, c.ncols)
		require.Equal(t, c.want, got, "shape %dx%d", c.nrows, c.ncols)
		require.True(t, bitwidth.IsPowerOfTwo(got))
	}
}

package qdmat

import "github.com/qdmat/qdmat/internal/spa"

// Config carries the tuning knobs from spec.md section 6. The zero value is
// not meaningful; use DefaultConfig.
type Config struct {
	// LeafSplitThreshold is the maximum nonzero count a leaf may hold
	// during construction before it is subdivided further.
	LeafSplitThreshold int32

	// DenseSpaMaxCount and DenseSpaMaxBytes bound the dense Sparse
	// Accumulator: a column of nrows rows uses the dense path iff
	// nrows <= DenseSpaMaxCount && nrows*sizeof(reduceType) <= DenseSpaMaxBytes.
	DenseSpaMaxCount int64
	DenseSpaMaxBytes int64

	// TempAllocator recycles the []int64 row-index scratch buffers that
	// leaf multiply allocates and discards on every call — the
	// "short-lived temporaries" allocator role from spec.md section 6. The
	// DCSC accumulator and shadow-window translation allocate their scratch
	// without it. It is never used for the
	// long-lived leaf storage handed into the tree (see doc comment on
	// Allocator below for why that role stays un-pooled here).
	TempAllocator *Int64Pool
}

// DefaultConfig returns the spec.md section 6 defaults.
func DefaultConfig() Config {
	return Config{
		LeafSplitThreshold: 10240,
		DenseSpaMaxCount:   100 * 1024 * 1024,
		DenseSpaMaxBytes:   10 * 1024 * 1024,
		TempAllocator:      NewInt64Pool(),
	}
}

// ShouldUseDenseSpa is the dense-vs-sparse decision predicate from
// spec.md sections 4.4/4.5, parameterized by the reduce type's size.
func (c Config) ShouldUseDenseSpa(nrows int64, elemSize int64) bool {
	return spa.ShouldUseDense(nrows, elemSize, c.DenseSpaMaxCount, c.DenseSpaMaxBytes)
}

func (c Config) tempAllocator() *Int64Pool {
	if c.TempAllocator == nil {
		return NewInt64Pool()
	}
	return c.TempAllocator
}

// Allocator is the long-lived-leaf allocation role named in spec.md
// section 6. Leaves are immutable once attached to the tree and must
// outlive the call that built them, so — unlike TempAllocator — there is
// nothing to safely recycle mid-multiply: this module leaves that role to
// Go's garbage collector rather than invent a custom arena, and the type
// exists only so callers who do want one (e.g. a custom bump allocator
// feeding DCSC.Values) have a named extension point to implement against.
type Allocator interface {
	// Alloc returns a slice of length n, which may be a freshly allocated
	// region or a sub-slice of a larger pre-reserved arena.
	Alloc(n int) []byte
}

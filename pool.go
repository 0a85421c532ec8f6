package qdmat

import "sync"

// Int64Pool is a type-safe wrapper around sync.Pool specialized for []int64
// scratch buffers. Adapted from the teacher's node pool (there specialized
// for *node[V]; here for the row-index scratch that leaf multiply
// allocates and discards on every call). A nil *Int64Pool is valid and
// simply allocates fresh
// slices, mirroring that pool's nil-receiver behavior on Get/Put.
//
// This is the concrete form of the "TempAllocator" role from spec.md
// section 6: short-lived scratch reused across the many sibling calls one
// Multiply makes, never touching the long-lived leaves themselves.
type Int64Pool struct {
	pool sync.Pool
}

// NewInt64Pool returns a ready-to-use pool.
func NewInt64Pool() *Int64Pool {
	return &Int64Pool{}
}

// Get returns a zero-length []int64 with at least the requested capacity,
// reused from the pool when possible.
func (p *Int64Pool) Get(capHint int) []int64 {
	if p == nil {
		return make([]int64, 0, capHint)
	}
	if v := p.pool.Get(); v != nil {
		buf := v.([]int64)[:0]
		if cap(buf) >= capHint {
			return buf
		}
	}
	return make([]int64, 0, capHint)
}

// Put returns buf to the pool for reuse. The caller must not use buf again.
func (p *Int64Pool) Put(buf []int64) {
	if p == nil || buf == nil {
		return
	}
	p.pool.Put(buf[:0]) //nolint:staticcheck // intentionally retaining backing array for reuse
}

package dcsc

import (
	"container/heap"

	"github.com/qdmat/qdmat/internal/bitwidth"
	"github.com/qdmat/qdmat/internal/spa"
)

// Accumulator reduces a multiset of partial-product DCSC leaves, all
// claiming the same destination shape, into one column-sorted leaf via a
// column-synchronous k-way merge. The priority queue over "each block's
// current column" is implemented with container/heap, the same shape
// lvlath's graph/dijkstra.go and graph/prim_kruskal.go use for their own
// priority-ordered work: a slice of items plus a heap.Interface wrapper.
type Accumulator[IT bitwidth.Index, T any] struct {
	nrows int64
	sr    spa.Semiring[T]
	dense bool
}

// NewAccumulator prepares an accumulator for a dest block with nrows rows.
func NewAccumulator[IT bitwidth.Index, T any](nrows int64, sr spa.Semiring[T], dense bool) *Accumulator[IT, T] {
	return &Accumulator[IT, T]{nrows: nrows, sr: sr, dense: dense}
}

// cursor tracks one input block's current (unfinished) column position.
type cursor[IT bitwidth.Index, T any] struct {
	block *DCSC[IT, T]
	pos   int // index into block.ColInd
}

func (c *cursor[IT, T]) col() int64 { return int64(c.block.ColInd[c.pos]) }
func (c *cursor[IT, T]) done() bool { return c.pos >= len(c.block.ColInd) }

// cursorHeap is a min-heap of cursors ordered by current column.
type cursorHeap[IT bitwidth.Index, T any] []*cursor[IT, T]

func (h cursorHeap[IT, T]) Len() int            { return len(h) }
func (h cursorHeap[IT, T]) Less(i, j int) bool  { return h[i].col() < h[j].col() }
func (h cursorHeap[IT, T]) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *cursorHeap[IT, T]) Push(x any)         { *h = append(*h, x.(*cursor[IT, T])) }
func (h *cursorHeap[IT, T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Collapse performs the merge described in spec.md section 4.5: single
// non-empty input is returned unchanged (fast path); otherwise a fresh SpA
// of size nrows absorbs one destination column at a time in ascending
// column order, scattering every input block's contribution to that column
// exactly once.
func (a *Accumulator[IT, T]) Collapse(blocks []*DCSC[IT, T]) *DCSC[IT, T] {
	nonEmpty := blocks[:0:0]
	for _, b := range blocks {
		if b != nil && b.Nnn() > 0 {
			nonEmpty = append(nonEmpty, b)
		}
	}
	if len(nonEmpty) == 0 {
		return &DCSC[IT, T]{ColPtr: []int32{0}}
	}
	if len(nonEmpty) == 1 {
		return nonEmpty[0]
	}

	h := make(cursorHeap[IT, T], 0, len(nonEmpty))
	for _, b := range nonEmpty {
		h = append(h, &cursor[IT, T]{block: b, pos: 0})
	}
	heap.Init(&h)

	s := spa.New[T](a.nrows, a.sr, a.dense)
	out := NewBuilder[IT, T]()

	for h.Len() > 0 {
		top := heap.Pop(&h).(*cursor[IT, T])
		col := top.col()
		ref := top.block.refAt(top.pos)
		rows, vals := top.block.Rows(ref)
		s.Scatter(rows, vals)

		top.pos++
		if !top.done() {
			heap.Push(&h, top)
		}

		// Flush the accumulated column once no remaining block can still
		// contribute to it, i.e. the next-smallest current column is
		// strictly greater than col (or the heap is exhausted).
		if h.Len() == 0 || h[0].col() > col {
			if !s.IsEmpty() {
				rows, vals := s.EmplaceBackResult(nil, nil)
				_ = out.AddColumnFromSpa(col, rows, vals)
			}
			s.Clear()
		}
	}
	return out.Finish()
}

// Package task implements the executor contract from spec.md section 4.10:
// enqueue-and-run, priority ordered, re-entrant (a running task may enqueue
// more tasks onto the same queue).
//
// The priority queue is a container/heap.Interface over a slice of pending
// jobs, the same structure lvlath's graph/dijkstra.go and
// graph/prim_kruskal.go build for their own priority-ordered traversal
// work.
package task

import "container/heap"

// Task is one unit of recursive work. Priority is called on every heap
// comparison while the task is pending; larger values run first.
type Task interface {
	Execute()
	Priority() int64
}

// Queue runs tasks to completion in priority order. It is not safe for
// concurrent use from multiple goroutines; a parallel executor is a
// separate, explicitly out-of-scope extension point (spec.md section 5).
type Queue struct {
	pending taskHeap
	running bool
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue adds t to the queue. If no task is currently being drained by
// this Queue, Enqueue itself drives the run loop: it runs t, then pops and
// runs whatever else is pending (including tasks newly enqueued by t or by
// tasks it enqueues), until the queue is empty. A call to Enqueue made by a
// task's own Execute (re-entrant enqueue) only pushes onto the heap — the
// outermost Enqueue call owns the run loop.
func (q *Queue) Enqueue(t Task) {
	heap.Push(&q.pending, t)
	if q.running {
		return
	}
	q.running = true
	defer func() { q.running = false }()

	for q.pending.Len() > 0 {
		next := heap.Pop(&q.pending).(Task)
		next.Execute()
	}
}

// taskHeap is a max-heap by Priority (larger priority runs first).
type taskHeap []Task

func (h taskHeap) Len() int            { return len(h) }
func (h taskHeap) Less(i, j int) bool  { return h[i].Priority() > h[j].Priority() }
func (h taskHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x any)         { *h = append(*h, x.(Task)) }
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Func adapts a plain function plus a fixed priority into a Task.
type Func struct {
	Run  func()
	Prio int64
}

func (f Func) Execute()        { f.Run() }
func (f Func) Priority() int64 { return f.Prio }

package concurqueue

import (
	"container/heap"
	"context"
	"sync"
)

const queueInitialCap = 256

// queued is a heap entry. It carries the task together with its
// attempt count, so the retry budget travels with the queue entry and
// the Task itself stays immutable across re-enqueues.
type queued struct {
	task    Task
	attempt int
	seq     uint64
	index   int
}

// taskHeap — min-heap by (priority, seq).
type taskHeap []*queued

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].task.Priority == h[j].task.Priority {
		return h[i].seq < h[j].seq
	}
	return h[i].task.Priority < h[j].task.Priority
}
func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	it := x.(*queued)
	it.index = len(*h)
	*h = append(*h, it)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*h = old[:n-1]
	return it
}

// PriorityQueue is an unbounded, internally-synchronized blocking
// queue ordered by task priority; lower numeric priority dequeues
// first. Within equal priority, entries dequeue in insertion order
// (a monotonic sequence number is the secondary heap key). That
// FIFO-within-priority guarantee is local to this queue; nothing
// weaker holds between enqueue order and processing order elsewhere
// in the system.
type PriorityQueue struct {
	mu     sync.Mutex
	items  taskHeap
	seq    uint64
	notify chan struct{}
}

func NewPriorityQueue() *PriorityQueue {
	q := &PriorityQueue{
		items:  make(taskHeap, 0, queueInitialCap),
		notify: make(chan struct{}, 1),
	}
	heap.Init(&q.items)
	return q
}

// Enqueue inserts the task at the given attempt count. It never
// blocks and never fails: capacity is unbounded.
func (q *PriorityQueue) Enqueue(task Task, attempt int) {
	q.mu.Lock()
	q.seq++
	heap.Push(&q.items, &queued{task: task, attempt: attempt, seq: q.seq})
	q.mu.Unlock()
	q.wake()
}

// Dequeue removes and returns the most urgent task together with its
// attempt count. It blocks until an item is available or ctx is done,
// in which case it returns ctx.Err().
func (q *PriorityQueue) Dequeue(ctx context.Context) (Task, int, error) {
	for {
		q.mu.Lock()
		if q.items.Len() > 0 {
			it := heap.Pop(&q.items).(*queued)
			more := q.items.Len() > 0
			q.mu.Unlock()
			if more {
				// pass the wakeup on to the next waiter
				q.wake()
			}
			return it.task, it.attempt, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return Task{}, 0, ctx.Err()
		case <-q.notify:
		}
	}
}

// Len returns an instantaneous count for observability. Under
// concurrent mutation it is stale immediately; never use it for
// correctness decisions.
func (q *PriorityQueue) Len() int {
	q.mu.Lock()
	n := q.items.Len()
	q.mu.Unlock()
	return n
}

func (q *PriorityQueue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

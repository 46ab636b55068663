package concurqueue

import (
	"sync/atomic"
)

// Metrics is the lock-free counter block shared by producers, workers,
// and the monitor.
//
// Writes happen on hot paths (every task submission and completion);
// reads are cold-path observation from the monitor and the final
// shutdown report.
type Metrics struct {
	// completed is the number of tasks that reached COMPLETED.
	// Incremented exactly once per completed task.
	completed atomic.Uint64

	_ [56]byte // padding to avoid false sharing

	// submitted is the number of tasks ever handed to the queue by
	// producers. Re-enqueues on retry do not count.
	submitted atomic.Uint64

	_ [56]byte

	// activeWorkers is the number of workers currently executing a
	// task (not blocked on dequeue).
	activeWorkers atomic.Int32
}

func NewMetrics() *Metrics { return &Metrics{} }

// Completed returns the total number of completed tasks.
func (m *Metrics) Completed() uint64 { return m.completed.Load() }

// Submitted returns the total number of producer-submitted tasks.
func (m *Metrics) Submitted() uint64 { return m.submitted.Load() }

// ActiveWorkers returns the number of workers executing right now.
func (m *Metrics) ActiveWorkers() int32 { return m.activeWorkers.Load() }

// IncCompleted increments the completed counter by one.
func (m *Metrics) IncCompleted() { m.completed.Add(1) }

// IncSubmitted increments the submitted counter by one.
func (m *Metrics) IncSubmitted() { m.submitted.Add(1) }

func (m *Metrics) workerStarted()  { m.activeWorkers.Add(1) }
func (m *Metrics) workerFinished() { m.activeWorkers.Add(-1) }

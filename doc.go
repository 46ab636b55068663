// Package concurqueue implements a bounded-lifetime, in-memory
// priority task-processing pipeline.
//
// Architecture overview
//
// The pipeline is composed of four concurrent roles sharing two
// internally-synchronized structures:
//
//   1. Producers generate prioritized tasks at a fixed cadence and
//      push them onto a shared priority queue.
//
//   2. Workers block on the queue, execute tasks with a simulated
//      randomized duration, and re-enqueue failed tasks up to a
//      bounded number of retries.
//
//   3. A single monitor periodically reports queue depth, worker
//      activity, a full status histogram, and stalled tasks.
//
//   4. The System orchestrator owns construction and a strict
//      five-phase shutdown: stop monitor, stop producers, drain the
//      queue, stop workers, emit a final report.
//
// Shared state
//
// The PriorityQueue and the Tracker are the only objects mutated by
// more than one role. Both synchronize internally; callers never hold
// or see locks. Producers and workers only write statuses, the monitor
// only reads snapshots, and a small padded atomic block carries the
// completed/submitted counters and the active-worker gauge.
//
// Ordering
//
// The queue dequeues strictly by ascending priority value (lower is
// more urgent) and, within equal priority, by insertion order. Status
// transitions for a single task are totally ordered because exactly
// one goroutine drives the task at any moment; no ordering holds
// between distinct tasks.
//
// Cancellation
//
// Every blocking point (dequeue, interval sleeps) takes a
// context.Context and observes cancellation promptly. Shutdown phases
// that fail to quiesce within their timeout are logged and skipped,
// never escalated; Shutdown always completes all five phases and is
// safe to call repeatedly from any goroutine.
//
// Nothing in this package survives the process: there is no
// persistence and no delivery guarantee for queued or in-flight tasks
// once the process exits.
package concurqueue

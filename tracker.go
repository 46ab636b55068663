package concurqueue

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// statusRecorder is the write-side view of the Tracker that producers
// and workers depend on.
type statusRecorder interface {
	Record(id uuid.UUID, status TaskStatus)
}

// Tracker maps task IDs to their current status and, while a task is
// PROCESSING, to the start time of the current attempt. Entries are
// never removed: the tracker is the full audit surface for the run,
// not a cache.
//
// All methods are safe for concurrent use. Reads may be stale by the
// time the caller inspects them but never observe a torn entry.
type Tracker struct {
	mu         sync.RWMutex
	statuses   map[uuid.UUID]TaskStatus
	startTimes map[uuid.UUID]time.Time

	now func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		statuses:   make(map[uuid.UUID]TaskStatus),
		startTimes: make(map[uuid.UUID]time.Time),
		now:        time.Now,
	}
}

// Record upserts the current status for id. Unknown IDs are inserted,
// and re-recording the same status is harmless. Recording
// StatusProcessing additionally stamps the attempt start time,
// overwriting the stamp of any earlier attempt; stale stamps are kept
// for other statuses so stall detection stays meaningful across
// retries.
func (t *Tracker) Record(id uuid.UUID, status TaskStatus) {
	t.mu.Lock()
	t.statuses[id] = status
	if status == StatusProcessing {
		t.startTimes[id] = t.now()
	}
	t.mu.Unlock()
}

// Status returns the current status for id and whether id is known.
func (t *Tracker) Status(id uuid.UUID) (TaskStatus, bool) {
	t.mu.RLock()
	s, ok := t.statuses[id]
	t.mu.RUnlock()
	return s, ok
}

// StartTime returns the start of the most recent PROCESSING attempt
// for id. The value is only meaningful while the task's status is
// StatusProcessing.
func (t *Tracker) StartTime(id uuid.UUID) (time.Time, bool) {
	t.mu.RLock()
	ts, ok := t.startTimes[id]
	t.mu.RUnlock()
	return ts, ok
}

// Snapshot returns a point-in-time copy of the full status mapping.
// The copy is consistent per entry, not across the whole map: writers
// running concurrently may or may not be reflected.
func (t *Tracker) Snapshot() map[uuid.UUID]TaskStatus {
	t.mu.RLock()
	out := make(map[uuid.UUID]TaskStatus, len(t.statuses))
	for id, s := range t.statuses {
		out[id] = s
	}
	t.mu.RUnlock()
	return out
}

// Len returns the number of tasks ever recorded.
func (t *Tracker) Len() int {
	t.mu.RLock()
	n := len(t.statuses)
	t.mu.RUnlock()
	return n
}

package concurqueue

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		runtime.Gosched()
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not satisfied before timeout")
}

// spyRecorder records every status transition per task, in order,
// optionally forwarding to a real Tracker.
type spyRecorder struct {
	mu          sync.Mutex
	inner       *Tracker
	transitions map[uuid.UUID][]TaskStatus
}

func newSpyRecorder(inner *Tracker) *spyRecorder {
	return &spyRecorder{
		inner:       inner,
		transitions: make(map[uuid.UUID][]TaskStatus),
	}
}

func (s *spyRecorder) Record(id uuid.UUID, status TaskStatus) {
	s.mu.Lock()
	s.transitions[id] = append(s.transitions[id], status)
	s.mu.Unlock()
	if s.inner != nil {
		s.inner.Record(id, status)
	}
}

func (s *spyRecorder) history(id uuid.UUID) []TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TaskStatus, len(s.transitions[id]))
	copy(out, s.transitions[id])
	return out
}

func (s *spyRecorder) count(id uuid.UUID, status TaskStatus) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, st := range s.transitions[id] {
		if st == status {
			n++
		}
	}
	return n
}

// validTransition reports whether the state machine allows moving
// from one recorded status to the next.
func validTransition(from, to TaskStatus) bool {
	switch from {
	case StatusSubmitted:
		return to == StatusProcessing
	case StatusProcessing:
		return to == StatusCompleted || to == StatusFailed
	case StatusFailed:
		return to == StatusRetried
	case StatusRetried:
		return to == StatusProcessing
	default:
		return false
	}
}

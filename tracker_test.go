package concurqueue

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestTrackerRecordAndStatus(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	id := uuid.New()

	_, ok := tr.Status(id)
	require.False(t, ok)

	tr.Record(id, StatusSubmitted)
	got, ok := tr.Status(id)
	require.True(t, ok)
	require.Equal(t, StatusSubmitted, got)

	// re-recording the same status is a no-op, not an error
	tr.Record(id, StatusSubmitted)
	got, _ = tr.Status(id)
	require.Equal(t, StatusSubmitted, got)
	require.Equal(t, 1, tr.Len())
}

func TestTrackerProcessingStampsStartTime(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	id := uuid.New()

	first := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Minute)

	now := first
	tr.now = func() time.Time { return now }

	tr.Record(id, StatusSubmitted)
	_, ok := tr.StartTime(id)
	require.False(t, ok, "only PROCESSING should stamp a start time")

	tr.Record(id, StatusProcessing)
	start, ok := tr.StartTime(id)
	require.True(t, ok)
	require.Equal(t, first, start)

	// a later attempt overwrites the stamp
	tr.Record(id, StatusFailed)
	tr.Record(id, StatusRetried)
	now = second
	tr.Record(id, StatusProcessing)
	start, _ = tr.StartTime(id)
	require.Equal(t, second, start)
}

func TestTrackerStartTimeSurvivesTerminalStatus(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	id := uuid.New()

	tr.Record(id, StatusProcessing)
	tr.Record(id, StatusCompleted)

	// stale stamps are kept, never cleared
	_, ok := tr.StartTime(id)
	require.True(t, ok)
}

func TestTrackerSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	id := uuid.New()
	tr.Record(id, StatusSubmitted)

	snap := tr.Snapshot()
	require.Equal(t, map[uuid.UUID]TaskStatus{id: StatusSubmitted}, snap)

	tr.Record(id, StatusProcessing)
	require.Equal(t, StatusSubmitted, snap[id], "snapshot must not follow later writes")
}

func TestTrackerConcurrentWritersAndReaders(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	const writers = 8
	const perWriter = 200

	ids := make([]uuid.UUID, writers*perWriter)
	for i := range ids {
		ids[i] = uuid.New()
	}

	var writeWG sync.WaitGroup
	for w := range writers {
		writeWG.Add(1)
		go func(w int) {
			defer writeWG.Done()
			for i := range perWriter {
				id := ids[w*perWriter+i]
				tr.Record(id, StatusSubmitted)
				tr.Record(id, StatusProcessing)
				tr.Record(id, StatusCompleted)
			}
		}(w)
	}

	stop := make(chan struct{})
	var readWG sync.WaitGroup
	readWG.Add(1)
	go func() {
		defer readWG.Done()
		for {
			select {
			case <-stop:
				return
			default:
				snap := tr.Snapshot()
				for _, status := range snap {
					switch status {
					case StatusSubmitted, StatusProcessing, StatusCompleted:
					default:
						t.Errorf("torn or invalid status observed: %v", status)
						return
					}
				}
			}
		}
	}()

	writeWG.Wait()
	close(stop)
	readWG.Wait()

	require.Equal(t, len(ids), tr.Len())

	for _, id := range ids {
		status, ok := tr.Status(id)
		require.True(t, ok)
		require.Equal(t, StatusCompleted, status)
	}
}

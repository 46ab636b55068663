package concurqueue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMonitorReportOnEmptySystem(t *testing.T) {
	t.Parallel()

	m := NewMonitor(NewPriorityQueue(), NewTracker(), NewMetrics(), time.Second, 5*time.Second, zap.NewNop())
	report := m.Report()

	require.Equal(t, 0, report.QueueDepth)
	require.Equal(t, int32(0), report.ActiveWorkers)
	require.Equal(t, uint64(0), report.Completed)
	require.Len(t, report.StatusCounts, len(Statuses()), "histogram must cover every status")
	for _, s := range Statuses() {
		count, ok := report.StatusCounts[s]
		require.True(t, ok, "missing histogram entry for %v", s)
		require.Equal(t, 0, count)
	}
	require.Empty(t, report.Stalled)
}

func TestMonitorHistogramCountsEveryStatus(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	q := NewPriorityQueue()
	metrics := NewMetrics()

	statuses := []TaskStatus{
		StatusSubmitted, StatusSubmitted,
		StatusProcessing,
		StatusCompleted, StatusCompleted, StatusCompleted,
		StatusFailed,
	}
	for _, s := range statuses {
		tr.Record(NewTask("t", 1, "").ID, s)
	}

	m := NewMonitor(q, tr, metrics, time.Second, time.Hour, zap.NewNop())
	report := m.Report()

	require.Equal(t, 2, report.StatusCounts[StatusSubmitted])
	require.Equal(t, 1, report.StatusCounts[StatusProcessing])
	require.Equal(t, 3, report.StatusCounts[StatusCompleted])
	require.Equal(t, 1, report.StatusCounts[StatusFailed])
	require.Equal(t, 0, report.StatusCounts[StatusRetried])
}

func TestMonitorDetectsStalledTasks(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	past := time.Now().Add(-time.Minute)
	tr.now = func() time.Time { return past }

	stalled := NewTask("stalled", 1, "")
	tr.Record(stalled.ID, StatusProcessing)

	tr.now = time.Now
	fresh := NewTask("fresh", 1, "")
	tr.Record(fresh.ID, StatusProcessing)

	// terminal tasks are never stalled, whatever their stamp says
	doneLongAgo := NewTask("done", 1, "")
	tr.now = func() time.Time { return past }
	tr.Record(doneLongAgo.ID, StatusProcessing)
	tr.Record(doneLongAgo.ID, StatusCompleted)
	tr.now = time.Now

	m := NewMonitor(NewPriorityQueue(), tr, NewMetrics(), time.Second, 5*time.Second, zap.NewNop())
	report := m.Report()

	require.Equal(t, []string{stalled.ID.String()}, idStrings(report))
}

func idStrings(r Report) []string {
	out := make([]string, 0, len(r.Stalled))
	for _, id := range r.Stalled {
		out = append(out, id.String())
	}
	return out
}

func TestMonitorStopsOnCancellation(t *testing.T) {
	t.Parallel()

	m := NewMonitor(NewPriorityQueue(), NewTracker(), NewMetrics(), 10*time.Millisecond, time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Run(ctx)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop on cancellation")
	}
}

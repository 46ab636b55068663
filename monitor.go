package concurqueue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Report is one consistent observation of system health. The
// histogram always contains every TaskStatus value, zero counts
// included. Stalled lists tasks sitting in PROCESSING longer than the
// stall threshold at snapshot time.
type Report struct {
	Timestamp     time.Time
	QueueDepth    int
	ActiveWorkers int32
	Completed     uint64
	Submitted     uint64
	StatusCounts  map[TaskStatus]int
	Stalled       []uuid.UUID
}

// Monitor periodically reports queue depth, worker activity, the full
// status histogram, and stalled tasks. It is strictly read-only with
// respect to task state: everything it reports comes from one tracker
// snapshot per cycle.
type Monitor struct {
	queue   *PriorityQueue
	tracker *Tracker
	metrics *Metrics
	log     *zap.Logger

	interval       time.Duration
	stallThreshold time.Duration

	now func() time.Time
}

func NewMonitor(queue *PriorityQueue, tracker *Tracker, metrics *Metrics, interval, stallThreshold time.Duration, log *zap.Logger) *Monitor {
	return &Monitor{
		queue:          queue,
		tracker:        tracker,
		metrics:        metrics,
		log:            log.Named("monitor"),
		interval:       interval,
		stallThreshold: stallThreshold,
		now:            time.Now,
	}
}

// Run emits a report every interval until ctx is cancelled.
// Cancellation stops future reports; a report under construction is
// always finished and logged whole.
func (m *Monitor) Run(ctx context.Context) {
	m.log.Info("monitor started", zap.Duration("interval", m.interval))

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("monitor stopping")
			return
		case <-ticker.C:
			m.logReport(m.Report())
		}
	}
}

// Report builds a point-in-time health report. Safe to call
// concurrently with the running monitor; the shutdown sequence uses
// it for the final report.
func (m *Monitor) Report() Report {
	snapshot := m.tracker.Snapshot()
	now := m.now()

	counts := make(map[TaskStatus]int, len(Statuses()))
	for _, s := range Statuses() {
		counts[s] = 0
	}

	var stalled []uuid.UUID
	for id, status := range snapshot {
		counts[status]++
		if status != StatusProcessing {
			continue
		}
		if start, ok := m.tracker.StartTime(id); ok && now.Sub(start) > m.stallThreshold {
			stalled = append(stalled, id)
		}
	}

	return Report{
		Timestamp:     now,
		QueueDepth:    m.queue.Len(),
		ActiveWorkers: m.metrics.ActiveWorkers(),
		Completed:     m.metrics.Completed(),
		Submitted:     m.metrics.Submitted(),
		StatusCounts:  counts,
		Stalled:       stalled,
	}
}

func (m *Monitor) logReport(r Report) {
	fields := []zap.Field{
		zap.Int("queue_depth", r.QueueDepth),
		zap.Int32("active_workers", r.ActiveWorkers),
		zap.Uint64("completed", r.Completed),
		zap.Uint64("submitted", r.Submitted),
	}
	for _, s := range Statuses() {
		fields = append(fields, zap.Int(s.String(), r.StatusCounts[s]))
	}
	m.log.Info("status report", fields...)

	for _, id := range r.Stalled {
		m.log.Warn("task appears stalled",
			zap.String("task", id.String()[:8]),
			zap.Duration("threshold", m.stallThreshold),
		)
	}
}

package concurqueue

import (
	"context"
	"fmt"
	"sync"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	"go.uber.org/zap"
)

// System owns the queue, the tracker, the metrics block, and the
// three role groups (producers, workers, monitor). It sequences
// startup and the five-phase shutdown protocol.
type System struct {
	opts    Options
	queue   *PriorityQueue
	tracker *Tracker
	metrics *Metrics
	monitor *Monitor
	log     *zap.Logger

	producers []*Producer
	workers   []*Worker

	monitorWG  sync.WaitGroup
	producerWG sync.WaitGroup
	workerWG   sync.WaitGroup

	cancelMonitor   context.CancelFunc
	cancelProducers context.CancelFunc
	cancelWorkers   context.CancelFunc
	cancelForce     context.CancelFunc

	shutdownOnce sync.Once
	final        Report
}

// NewSystem builds an idle system from opts. Zero fields are filled
// with package defaults; see Options.
func NewSystem(opts Options, log *zap.Logger) *System {
	opts.FillDefaults()
	if log == nil {
		log = zap.NewNop()
	}

	s := &System{
		opts:    opts,
		queue:   NewPriorityQueue(),
		tracker: NewTracker(),
		metrics: NewMetrics(),
		log:     log.Named("system"),
	}
	s.monitor = NewMonitor(s.queue, s.tracker, s.metrics, opts.MonitorInterval, opts.StallThreshold, log)

	for i := 1; i <= opts.Producers; i++ {
		name := fmt.Sprintf("Producer-%d", i)
		s.producers = append(s.producers,
			NewProducer(name, s.queue, s.tracker, s.metrics, opts.TasksPerProducer, opts.ProduceInterval, log))
	}
	for i := 1; i <= opts.Workers; i++ {
		s.workers = append(s.workers, NewWorker(i, s.queue, s.tracker, s.metrics, opts, log))
	}
	return s
}

// Queue exposes the shared queue for observation.
func (s *System) Queue() *PriorityQueue { return s.queue }

// Tracker exposes the shared status tracker for observation.
func (s *System) Tracker() *Tracker { return s.tracker }

// Metrics exposes the shared counters for observation.
func (s *System) Metrics() *Metrics { return s.metrics }

// Start launches all producers, workers, and the monitor. It is meant
// to be called exactly once per System.
func (s *System) Start() {
	forceCtx, cancelForce := context.WithCancel(context.Background())
	workerCtx, cancelWorkers := context.WithCancel(forceCtx)
	producerCtx, cancelProducers := context.WithCancel(context.Background())
	monitorCtx, cancelMonitor := context.WithCancel(context.Background())

	s.cancelForce = cancelForce
	s.cancelWorkers = cancelWorkers
	s.cancelProducers = cancelProducers
	s.cancelMonitor = cancelMonitor

	s.monitorWG.Add(1)
	go func() {
		defer s.monitorWG.Done()
		s.monitor.Run(monitorCtx)
	}()

	for _, w := range s.workers {
		w := w
		s.workerWG.Add(1)
		go func() {
			defer s.workerWG.Done()
			w.Run(workerCtx, forceCtx)
		}()
	}

	for _, p := range s.producers {
		p := p
		s.producerWG.Add(1)
		go func() {
			defer s.producerWG.Done()
			p.Run(producerCtx)
		}()
	}

	s.log.Info("system started",
		zap.Int("producers", len(s.producers)),
		zap.Int("workers", len(s.workers)),
	)
}

// Shutdown runs the five-phase stop sequence and returns the final
// report:
//
//  1. stop the monitor, wait up to MonitorStopTimeout;
//  2. stop the producers, wait up to ProducerStopTimeout;
//  3. drain: poll queue depth until empty, backing off between polls
//     (bounded by DrainTimeout when non-zero);
//  4. stop worker intake, wait up to WorkerStopTimeout for in-flight
//     tasks to finish, then force-interrupt stragglers;
//  5. build the final report and log the full per-task snapshot.
//
// A phase missing its timeout is logged as a warning; shutdown always
// proceeds through all five phases and never returns an error.
// Shutdown is safe to call from any goroutine and idempotent: repeat
// calls return the report built by the first.
func (s *System) Shutdown() Report {
	s.shutdownOnce.Do(func() {
		s.log.Info("initiating shutdown")

		s.stopMonitor()
		s.stopProducers()
		s.drainQueue()
		s.stopWorkers()
		s.final = s.finalReport()
	})
	return s.final
}

func (s *System) stopMonitor() {
	if s.cancelMonitor == nil {
		return
	}
	s.cancelMonitor()
	if !waitTimeout(&s.monitorWG, s.opts.MonitorStopTimeout) {
		s.log.Warn("monitor did not stop in time",
			zap.Duration("timeout", s.opts.MonitorStopTimeout))
		return
	}
	s.log.Info("monitor stopped")
}

func (s *System) stopProducers() {
	if s.cancelProducers == nil {
		return
	}
	s.cancelProducers()
	if !waitTimeout(&s.producerWG, s.opts.ProducerStopTimeout) {
		s.log.Warn("producers did not stop in time",
			zap.Duration("timeout", s.opts.ProducerStopTimeout))
		return
	}
	s.log.Info("producers stopped")
}

// drainQueue waits for workers to empty the queue. No producers feed
// it at this point, so depth is monotonically consumed apart from
// retry re-enqueues. The poll interval grows via backoff; with a zero
// DrainTimeout the wait is unbounded.
func (s *System) drainQueue() {
	bo := boff.New(s.opts.DrainPollInitial, s.opts.DrainPollMax, time.Now().UnixNano())
	deadline := time.Time{}
	if s.opts.DrainTimeout > 0 {
		deadline = time.Now().Add(s.opts.DrainTimeout)
	}

	for {
		depth := s.queue.Len()
		if depth == 0 {
			s.log.Info("queue drained")
			return
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			s.log.Warn("queue drain timed out",
				zap.Int("queue_depth", depth),
				zap.Duration("timeout", s.opts.DrainTimeout))
			return
		}
		s.log.Info("waiting for queue to drain", zap.Int("queue_depth", depth))
		time.Sleep(bo.Next())
	}
}

func (s *System) stopWorkers() {
	if s.cancelWorkers == nil {
		return
	}
	s.cancelWorkers()
	if !waitTimeout(&s.workerWG, s.opts.WorkerStopTimeout) {
		s.log.Warn("workers did not stop in time, forcing",
			zap.Duration("timeout", s.opts.WorkerStopTimeout))
	}
	// release the force context either way; interrupts any straggling
	// in-flight attempt
	s.cancelForce()
	s.workerWG.Wait()
	s.log.Info("workers stopped")
}

func (s *System) finalReport() Report {
	report := s.monitor.Report()
	s.log.Info("shutdown complete",
		zap.Uint64("completed", report.Completed),
		zap.Uint64("submitted", report.Submitted),
	)
	for id, status := range s.tracker.Snapshot() {
		s.log.Info("final task status",
			zap.String("task", id.String()[:8]),
			zap.String("status", status.String()),
		)
	}
	return report
}

// waitTimeout waits on wg for at most d and reports whether the group
// finished in time.
func waitTimeout(wg *sync.WaitGroup, d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		defer close(done)
		wg.Wait()
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

package concurqueue

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Worker dequeues and processes tasks until its intake context is
// cancelled. Failure handling is purely local: a worker coordinates
// with the rest of the system only through the queue, the recorder,
// and the metrics block.
type Worker struct {
	queue    *PriorityQueue
	recorder statusRecorder
	metrics  *Metrics
	log      *zap.Logger

	maxRetries    int
	failureRate   float64
	minProcessing time.Duration
	maxProcessing time.Duration

	// rnd drives both the simulated duration and the simulated
	// failure roll. Injectable so tests can force deterministic
	// outcomes. Not safe for concurrent use; every Worker owns its
	// own source.
	rnd func() float64
}

func NewWorker(id int, queue *PriorityQueue, recorder statusRecorder, metrics *Metrics, opts Options, log *zap.Logger) *Worker {
	r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))
	return &Worker{
		queue:         queue,
		recorder:      recorder,
		metrics:       metrics,
		log:           log.Named("worker").With(zap.Int("worker", id)),
		maxRetries:    opts.MaxRetries,
		failureRate:   opts.FailureRate,
		minProcessing: opts.MinProcessing,
		maxProcessing: opts.MaxProcessing,
		rnd:           r.Float64,
	}
}

// Run processes tasks until ctx is cancelled. ctx only governs the
// blocking dequeue: once a task has been picked up, the attempt runs
// to completion even if ctx is cancelled meanwhile. force interrupts
// in-flight execution as well; an attempt cut short by force is
// marked FAILED and never retried, since a retry would race with
// shutdown.
func (w *Worker) Run(ctx, force context.Context) {
	w.log.Info("worker started")
	for {
		task, attempt, err := w.queue.Dequeue(ctx)
		if err != nil {
			w.log.Info("worker stopping", zap.Error(err))
			return
		}
		w.processTask(force, task, attempt)
	}
}

func (w *Worker) processTask(force context.Context, task Task, attempt int) {
	w.metrics.workerStarted()
	defer w.metrics.workerFinished()
	defer func() {
		if r := recover(); r != nil {
			// a panicking task must not take the worker down
			w.recorder.Record(task.ID, StatusFailed)
			w.log.Error("task panicked", zap.String("task", task.ShortID()), zap.Any("panic", r))
		}
	}()

	log := w.log.With(
		zap.String("task", task.ShortID()),
		zap.Int("priority", task.Priority),
		zap.Int("attempt", attempt),
	)
	log.Info("task started")
	w.recorder.Record(task.ID, StatusProcessing)

	if err := w.simulateExecution(force); err != nil {
		// interrupted by forced shutdown mid-execution
		w.recorder.Record(task.ID, StatusFailed)
		log.Warn("task interrupted", zap.Error(err))
		return
	}

	if w.rnd() < w.failureRate {
		if attempt < w.maxRetries {
			log.Warn("simulated failure, re-queueing")
			w.recorder.Record(task.ID, StatusFailed)
			w.queue.Enqueue(task, attempt+1)
			w.recorder.Record(task.ID, StatusRetried)
			return
		}
		// retry budget exhausted, drop the task
		w.recorder.Record(task.ID, StatusFailed)
		log.Error("task failed permanently", zap.Int("retries", w.maxRetries))
		return
	}

	w.recorder.Record(task.ID, StatusCompleted)
	w.metrics.IncCompleted()
	log.Info("task completed")
}

// simulateExecution stands in for real computation: a uniformly
// random sleep in [minProcessing, maxProcessing), interruptible only
// by the force context.
func (w *Worker) simulateExecution(force context.Context) error {
	d := w.minProcessing
	if spread := w.maxProcessing - w.minProcessing; spread > 0 {
		d += time.Duration(w.rnd() * float64(spread))
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-force.Done():
		return force.Err()
	}
}

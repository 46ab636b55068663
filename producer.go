package concurqueue

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Priority tiers assigned by the default generation policy.
const (
	PriorityHigh   = 1
	PriorityMedium = 5
	PriorityLow    = 10
)

// Producer generates a fixed number of tasks at a fixed cadence and
// enqueues them. The priority of each task is decided by its sequence
// number within this producer: every 3rd task is high priority, every
// 5th medium, the rest low. The rest of the system does not depend on
// this policy, only on the resulting priority values.
type Producer struct {
	queue    *PriorityQueue
	recorder statusRecorder
	metrics  *Metrics
	log      *zap.Logger

	name     string
	count    int
	interval time.Duration
}

func NewProducer(name string, queue *PriorityQueue, recorder statusRecorder, metrics *Metrics, count int, interval time.Duration, log *zap.Logger) *Producer {
	return &Producer{
		queue:    queue,
		recorder: recorder,
		metrics:  metrics,
		log:      log.Named("producer").With(zap.String("name", name)),
		name:     name,
		count:    count,
		interval: interval,
	}
}

// Run generates tasks until the count is reached or ctx is cancelled.
// Each task is enqueued first and recorded SUBMITTED second, so a
// task is never visible as submitted before a worker could reach it.
// Cancellation mid-sleep exits promptly; tasks already enqueued stay
// enqueued.
func (p *Producer) Run(ctx context.Context) {
	p.log.Info("producer started",
		zap.Int("tasks", p.count),
		zap.Duration("interval", p.interval),
	)

	// armed per iteration; created stopped so the first Reset cannot
	// observe a stale tick
	timer := time.NewTimer(p.interval)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for i := 1; i <= p.count; i++ {
		if ctx.Err() != nil {
			p.log.Warn("producer cancelled", zap.Int("produced", i-1))
			return
		}

		task := p.createTask(i)
		p.queue.Enqueue(task, 0)
		p.recorder.Record(task.ID, StatusSubmitted)
		p.metrics.IncSubmitted()

		p.log.Info("task submitted",
			zap.String("task", task.ShortID()),
			zap.Int("priority", task.Priority),
			zap.Int("queue_depth", p.queue.Len()),
		)

		if i == p.count {
			break
		}

		timer.Reset(p.interval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			p.log.Warn("producer cancelled", zap.Int("produced", i))
			return
		}
	}

	p.log.Info("producer finished", zap.Int("produced", p.count))
}

func (p *Producer) createTask(seq int) Task {
	switch {
	case seq%3 == 0:
		return NewTask(
			fmt.Sprintf("HighPriorityTask-%s-%d", p.name, seq),
			PriorityHigh,
			fmt.Sprintf("Payload for High Priority Task %d", seq),
		)
	case seq%5 == 0:
		return NewTask(
			fmt.Sprintf("MediumPriorityTask-%s-%d", p.name, seq),
			PriorityMedium,
			fmt.Sprintf("Payload for Medium Priority Task %d", seq),
		)
	default:
		return NewTask(
			fmt.Sprintf("LowPriorityTask-%s-%d", p.name, seq),
			PriorityLow,
			fmt.Sprintf("Payload for Low Priority Task %d", seq),
		)
	}
}

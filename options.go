package concurqueue

import (
	"time"
)

const (
	DefaultProducers        = 2
	DefaultWorkers          = 5
	DefaultTasksPerProducer = 10

	defaultProduceInterval = 1 * time.Second
	defaultMonitorInterval = 5 * time.Second
	defaultStallThreshold  = 5 * time.Second

	defaultMaxRetries  = 3
	defaultFailureRate = 0.1

	defaultMinProcessing    = 500 * time.Millisecond
	defaultProcessingSpread = 1500 * time.Millisecond

	defaultMonitorStopTimeout  = 3 * time.Second
	defaultProducerStopTimeout = 5 * time.Second
	defaultWorkerStopTimeout   = 30 * time.Second

	defaultDrainPollInitial = 2 * time.Second
	defaultDrainPollMax     = 10 * time.Second
)

// Options configure a System.
//
// All zero or negative values are replaced with package defaults by
// FillDefaults, except DrainTimeout and FailureRate: a DrainTimeout of
// zero means the drain phase waits indefinitely, and FailureRate is
// only defaulted when negative so that tests can force it to exactly
// zero.
type Options struct {
	Producers        int
	Workers          int
	TasksPerProducer int

	// ProduceInterval is the pause between consecutive tasks from a
	// single producer. MonitorInterval is the reporting cadence.
	ProduceInterval time.Duration
	MonitorInterval time.Duration

	// StallThreshold is how long a task may sit in PROCESSING before
	// the monitor flags it as stalled.
	StallThreshold time.Duration

	// MaxRetries bounds FAILED→RETRIED cycles per task. FailureRate
	// is the probability of a simulated transient failure per
	// execution attempt.
	MaxRetries  int
	FailureRate float64

	// Simulated execution duration is uniform in
	// [MinProcessing, MaxProcessing).
	MinProcessing time.Duration
	MaxProcessing time.Duration

	// Per-phase shutdown timeouts. A phase that misses its timeout is
	// logged and force-stopped, never fatal.
	MonitorStopTimeout  time.Duration
	ProducerStopTimeout time.Duration
	WorkerStopTimeout   time.Duration

	// Drain polling starts at DrainPollInitial and backs off up to
	// DrainPollMax between queue-depth checks. DrainTimeout bounds
	// the whole drain phase; zero waits indefinitely, like the
	// original design.
	DrainPollInitial time.Duration
	DrainPollMax     time.Duration
	DrainTimeout     time.Duration
}

func (o *Options) FillDefaults() {
	if o.Producers <= 0 {
		o.Producers = DefaultProducers
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.TasksPerProducer <= 0 {
		o.TasksPerProducer = DefaultTasksPerProducer
	}
	if o.ProduceInterval <= 0 {
		o.ProduceInterval = defaultProduceInterval
	}
	if o.MonitorInterval <= 0 {
		o.MonitorInterval = defaultMonitorInterval
	}
	if o.StallThreshold <= 0 {
		o.StallThreshold = defaultStallThreshold
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetries
	}
	if o.FailureRate < 0 {
		o.FailureRate = defaultFailureRate
	}
	if o.MinProcessing <= 0 {
		o.MinProcessing = defaultMinProcessing
	}
	if o.MaxProcessing <= o.MinProcessing {
		o.MaxProcessing = o.MinProcessing + defaultProcessingSpread
	}
	if o.MonitorStopTimeout <= 0 {
		o.MonitorStopTimeout = defaultMonitorStopTimeout
	}
	if o.ProducerStopTimeout <= 0 {
		o.ProducerStopTimeout = defaultProducerStopTimeout
	}
	if o.WorkerStopTimeout <= 0 {
		o.WorkerStopTimeout = defaultWorkerStopTimeout
	}
	if o.DrainPollInitial <= 0 {
		o.DrainPollInitial = defaultDrainPollInitial
	}
	if o.DrainPollMax <= 0 {
		o.DrainPollMax = defaultDrainPollMax
	}
}

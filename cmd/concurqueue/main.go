package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	concurqueue "github.com/baaki20/ConcurQueue"
)

func main() {
	var (
		producers        = flag.Int("producers", concurqueue.DefaultProducers, "number of producers")
		workers          = flag.Int("workers", concurqueue.DefaultWorkers, "number of workers")
		tasksPerProducer = flag.Int("tasks", concurqueue.DefaultTasksPerProducer, "tasks per producer")
		produceInterval  = flag.Duration("produce-interval", time.Second, "pause between tasks per producer")
		monitorInterval  = flag.Duration("monitor-interval", 5*time.Second, "status report cadence")
		failureRate      = flag.Float64("failure-rate", 0.1, "probability of simulated task failure")
		extraRuntime     = flag.Duration("extra-runtime", 10*time.Second, "time to keep running after producers finish")
		dev              = flag.Bool("dev", true, "use console-friendly logging")
	)
	flag.Parse()

	log, err := newLogger(*dev)
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	opts := concurqueue.Options{
		Producers:        *producers,
		Workers:          *workers,
		TasksPerProducer: *tasksPerProducer,
		ProduceInterval:  *produceInterval,
		MonitorInterval:  *monitorInterval,
		FailureRate:      *failureRate,
	}

	system := concurqueue.NewSystem(opts, log)
	system.Start()

	// run long enough for every producer to finish, plus slack for
	// the workers to catch up, unless interrupted first
	runtime := time.Duration(*tasksPerProducer) * *produceInterval
	runtime += *extraRuntime

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("system running", zap.Duration("runtime", runtime))

	select {
	case <-time.After(runtime):
	case <-ctx.Done():
		log.Warn("interrupted, shutting down early")
	}

	report := system.Shutdown()
	log.Info("done",
		zap.Uint64("completed", report.Completed),
		zap.Uint64("submitted", report.Submitted),
	)
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

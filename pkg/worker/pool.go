package worker

import (
	"context"
	"sync"

	"github.com/kastlewatch/kastlewatch/pkg/metrics"
	"github.com/kastlewatch/kastlewatch/pkg/monitor"
	"github.com/kastlewatch/kastlewatch/pkg/resource"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
)

var log = logf.Log.WithName("worker")

const (
	// DefaultConcurrency is the default number of goroutines processing
	// monitors.
	DefaultConcurrency = 8

	// DefaultQueueSize is the default number of monitors that can wait for
	// processing.
	DefaultQueueSize = 256
)

// Submitter accepts monitors for asynchronous processing.
type Submitter interface {
	// Submit enqueues monitor. It never blocks and returns false if the
	// monitor was not accepted.
	Submit(monitor resource.Checkable) bool
}

// Pool is a bounded queue that is drained by a fixed number of goroutines
// which hand every monitor to a monitor.Service.
type Pool struct {
	service     monitor.Service
	queue       chan resource.Checkable
	concurrency int
}

// NewPool creates a new *Pool. Non-positive values for concurrency and
// queueSize are replaced with the defaults.
func NewPool(service monitor.Service, concurrency, queueSize int) *Pool {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	return &Pool{
		service:     service,
		queue:       make(chan resource.Checkable, queueSize),
		concurrency: concurrency,
	}
}

// Submit implements Submitter.
func (p *Pool) Submit(monitor resource.Checkable) bool {
	select {
	case p.queue <- monitor:
		metrics.WorkerQueueDepth.Set(float64(len(p.queue)))
		return true
	default:
		return false
	}
}

// Start runs the processing goroutines until ctx is cancelled. Monitors
// that are still queued at that point are discarded. Start blocks until all
// in-flight monitors were processed.
func (p *Pool) Start(ctx context.Context) error {
	log.Info("starting worker pool", "concurrency", p.concurrency, "queueSize", cap(p.queue))

	var wg sync.WaitGroup

	for i := 0; i < p.concurrency; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			p.run(ctx)
		}()
	}

	wg.Wait()

	log.Info("worker pool stopped")

	return nil
}

func (p *Pool) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-p.queue:
			metrics.WorkerQueueDepth.Set(float64(len(p.queue)))
			p.service.Process(ctx, m)
		}
	}
}

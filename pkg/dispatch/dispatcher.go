// Package dispatch hands monitors over from the controller to the worker.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/kastlewatch/kastlewatch/pkg/metrics"
	"github.com/kastlewatch/kastlewatch/pkg/resource"
	"github.com/pkg/errors"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
)

var log = logf.Log.WithName("dispatcher")

const (
	// DefaultWorkers is the default number of concurrent senders.
	DefaultWorkers = 4

	// DefaultQueueSize is the default capacity of the dispatch queue.
	DefaultQueueSize = 1024

	// DefaultTimeout is the default timeout of a single submission.
	DefaultTimeout = 10 * time.Second
)

// Dispatcher submits monitors to the worker for checking.
type Dispatcher interface {
	// Dispatch enqueues monitor of given kind for submission. It never
	// blocks and returns false if the monitor was dropped.
	Dispatch(kind resource.Kind, monitor resource.Checkable) bool
}

type request struct {
	kind    resource.Kind
	monitor resource.Checkable
}

// HTTPDispatcher submits monitors to the worker via HTTP. It implements
// manager.Runnable: submissions only happen while it is started.
type HTTPDispatcher struct {
	baseURL string
	client  *http.Client
	queue   chan request
	workers int
}

// Options configure an *HTTPDispatcher.
type Options struct {
	// BaseURL of the worker.
	BaseURL string

	// Workers is the number of concurrent senders.
	Workers int

	// QueueSize is the capacity of the dispatch queue.
	QueueSize int

	// Timeout bounds a single submission.
	Timeout time.Duration

	// Transport is used for requests to the worker. Defaults to
	// http.DefaultTransport if nil.
	Transport http.RoundTripper
}

// NewHTTPDispatcher creates a new *HTTPDispatcher. Zero values in options are
// replaced with the defaults.
func NewHTTPDispatcher(options Options) *HTTPDispatcher {
	if options.Workers <= 0 {
		options.Workers = DefaultWorkers
	}

	if options.QueueSize <= 0 {
		options.QueueSize = DefaultQueueSize
	}

	if options.Timeout <= 0 {
		options.Timeout = DefaultTimeout
	}

	if options.Transport == nil {
		options.Transport = http.DefaultTransport
	}

	return &HTTPDispatcher{
		baseURL: options.BaseURL,
		client: &http.Client{
			Transport: options.Transport,
			Timeout:   options.Timeout,
		},
		queue:   make(chan request, options.QueueSize),
		workers: options.Workers,
	}
}

// Dispatch implements Dispatcher.
func (d *HTTPDispatcher) Dispatch(kind resource.Kind, monitor resource.Checkable) bool {
	select {
	case d.queue <- request{kind: kind, monitor: monitor}:
		return true
	default:
		metrics.DispatchesTotal.WithLabelValues(kind.Kind, metrics.ResultDropped).Inc()
		log.Info("dispatch queue full, dropping monitor", "kind", kind.Kind, "namespace", monitor.GetNamespace(), "name", monitor.GetName())
		return false
	}
}

// Start runs the senders until ctx is cancelled. It implements
// manager.Runnable.
func (d *HTTPDispatcher) Start(ctx context.Context) error {
	log.Info("starting dispatcher", "workerURL", d.baseURL, "senders", d.workers)

	var wg sync.WaitGroup

	for i := 0; i < d.workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for {
				select {
				case <-ctx.Done():
					return
				case req := <-d.queue:
					d.handle(ctx, req)
				}
			}
		}()
	}

	wg.Wait()

	return nil
}

func (d *HTTPDispatcher) handle(ctx context.Context, req request) {
	log := log.WithValues("kind", req.kind.Kind, "namespace", req.monitor.GetNamespace(), "name", req.monitor.GetName())

	err := d.send(ctx, req)
	if err != nil {
		metrics.DispatchesTotal.WithLabelValues(req.kind.Kind, metrics.ResultFailed).Inc()
		log.Error(err, "failed to submit monitor to worker")
		return
	}

	metrics.DispatchesTotal.WithLabelValues(req.kind.Kind, metrics.ResultSuccess).Inc()
	log.V(1).Info("submitted monitor to worker")
}

func (d *HTTPDispatcher) send(ctx context.Context, req request) error {
	// The object returned by the API client has no TypeMeta set, the worker
	// expects a fully qualified object.
	obj := req.monitor.DeepCopyObject()
	obj.GetObjectKind().SetGroupVersionKind(req.kind.GroupVersionKind)

	body, err := json.Marshal(obj)
	if err != nil {
		return errors.Wrap(err, "failed to marshal monitor")
	}

	url := resource.WorkerURL(d.baseURL, req.kind)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "failed to build request for %s", url)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return errors.Wrapf(err, "request to %s failed", url)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("worker at %s responded with status %d", url, resp.StatusCode)
	}

	return nil
}

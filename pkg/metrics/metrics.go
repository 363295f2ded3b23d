// Package metrics contains the Prometheus collectors of the controller and
// the worker. All collectors are registered with the controller-runtime
// registry so that they are served together with the built-in controller
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"
)

const namespace = "kastlewatch"

var (
	// ValidationErrorsTotal counts objects rejected during reconciliation.
	ValidationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Total number of objects that failed validation.",
		},
		[]string{"kind", "namespace", "name"},
	)

	// DispatchesTotal counts submissions from the controller to the worker.
	DispatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Total number of monitor submissions to the worker by result.",
		},
		[]string{"kind", "result"},
	)

	// ChecksTotal counts executed checks by resulting state.
	ChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Total number of executed checks by resulting state.",
		},
		[]string{"kind", "state"},
	)

	// CheckDurationSeconds observes the duration of checks.
	CheckDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Duration of checks in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// StateTransitionsTotal counts monitor state changes.
	StateTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Total number of monitor state transitions.",
		},
		[]string{"kind", "from", "to"},
	)

	// StatusPatchErrorsTotal counts failed status updates.
	StatusPatchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_patch_errors_total",
			Help:      "Total number of failed monitor status updates.",
		},
		[]string{"kind"},
	)

	// NotificationsTotal counts notification deliveries by result.
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Total number of notification deliveries by notifier kind and result.",
		},
		[]string{"kind", "result"},
	)

	// WorkerRequestsTotal counts monitors received by the worker ingress.
	WorkerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_requests_total",
			Help:      "Total number of monitors received by the worker by kind and result.",
		},
		[]string{"kind", "result"},
	)

	// WorkerQueueDepth is the number of units of work waiting in the worker
	// queue.
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "worker_queue_depth",
			Help:      "Number of checks waiting to be processed by the worker.",
		},
	)
)

// Result label values.
const (
	ResultSuccess  = "success"
	ResultFailed   = "failed"
	ResultDropped  = "dropped"
	ResultRejected = "rejected"
)

func init() {
	ctrlmetrics.Registry.MustRegister(
		ValidationErrorsTotal,
		DispatchesTotal,
		ChecksTotal,
		CheckDurationSeconds,
		StateTransitionsTotal,
		StatusPatchErrorsTotal,
		NotificationsTotal,
		WorkerRequestsTotal,
		WorkerQueueDepth,
	)
}

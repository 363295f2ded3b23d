package config

import (
	"net"
	"os"
	"strconv"

	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"
)

// Settings contains the configuration of the controller and the worker. It
// can be provided via flags and via a settings file.
type Settings struct {
	Controller ControllerSettings `json:"controller"`
	Worker     WorkerSettings     `json:"worker"`

	// MetricsAddr is the bind address of the controller metrics endpoint.
	MetricsAddr string `json:"metricsAddr"`

	// HealthProbeAddr is the bind address of the controller health probes.
	HealthProbeAddr string `json:"healthProbeAddr"`
}

// ControllerSettings configure the controller.
type ControllerSettings struct {
	// BaseURL is the base URL of the worker. If not specified, the value
	// will be read from the KASTLEWATCH_WORKER_URL environment variable.
	BaseURL string `json:"baseURL"`

	// DispatchQueueSize is the capacity of the queue of monitors waiting
	// for submission to the worker.
	DispatchQueueSize int `json:"dispatchQueueSize"`

	// DispatchWorkers is the number of concurrent submissions.
	DispatchWorkers int `json:"dispatchWorkers"`

	// DispatchTimeout bounds a single submission to the worker.
	DispatchTimeout metav1.Duration `json:"dispatchTimeout"`

	// MaxConcurrentReconciles per kind.
	MaxConcurrentReconciles int `json:"maxConcurrentReconciles"`
}

// WorkerSettings configure the worker.
type WorkerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`

	// Concurrency is the number of monitors checked concurrently.
	Concurrency int `json:"concurrency"`

	// QueueSize is the number of monitors that can wait for a check. The
	// worker rejects monitors while the queue is full.
	QueueSize int `json:"queueSize"`

	// NotifyConcurrency limits concurrent notification deliveries per
	// state change.
	NotifyConcurrency int `json:"notifyConcurrency"`

	// WebhookTimeout bounds a single notification delivery.
	WebhookTimeout metav1.Duration `json:"webhookTimeout"`
}

// Addr returns the address the worker listens on.
func (s WorkerSettings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// ReadSettings reads the settings from given file. Unknown fields are
// rejected.
func ReadSettings(filename string) (*Settings, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var settings Settings

	err = yaml.UnmarshalStrict(buf, &settings)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid settings file %s", filename)
	}

	return &settings, nil
}

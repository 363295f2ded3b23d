package v1alpha1

import (
	"time"

	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// MonitorErrorRequeueInterval is the fixed interval after which a monitor
	// that failed reconciliation is revisited, regardless of the error.
	MonitorErrorRequeueInterval = 5 * time.Second

	// NotifierErrorRequeueInterval is the fixed interval after which a
	// notifier that failed reconciliation is revisited.
	NotifierErrorRequeueInterval = 60 * time.Second

	// NotifierRequeueInterval is the interval in which notifiers are
	// revisited. Notifiers are passive, no checks run against them.
	NotifierRequeueInterval = time.Hour
)

// MonitorState is the health state of a monitored target.
// +kubebuilder:validation:Enum=Healthy;Warning;Critical;NoData
type MonitorState string

const (
	// MonitorStateHealthy means the target is reachable and healthy.
	MonitorStateHealthy MonitorState = "Healthy"

	// MonitorStateWarning means the target is reachable but degraded. No
	// check kind produces it yet.
	MonitorStateWarning MonitorState = "Warning"

	// MonitorStateCritical means the target was determined to be unreachable
	// or unhealthy.
	MonitorStateCritical MonitorState = "Critical"

	// MonitorStateNoData means that no check result is available, either
	// because no check ran yet or because the check itself failed.
	MonitorStateNoData MonitorState = "NoData"
)

// Color returns the RGB color code that is used to render the state in
// notifications.
func (s MonitorState) Color() int {
	switch s {
	case MonitorStateHealthy:
		return 0x00FF00
	case MonitorStateWarning:
		return 0xFFFF00
	case MonitorStateCritical:
		return 0xFF0000
	default:
		return 0x808080
	}
}

// MonitorConfig configures the monitoring behaviour. It is shared by all
// monitor kinds.
type MonitorConfig struct {
	// Timeout in seconds for a single check attempt.
	// +kubebuilder:validation:Minimum=1
	Timeout int32 `json:"timeout"`

	// Retries is the number of additional check attempts before the target
	// is considered Critical.
	// +kubebuilder:validation:Minimum=0
	Retries int32 `json:"retries"`

	// PollingFrequency is the number of seconds between two checks.
	// +kubebuilder:validation:Minimum=1
	PollingFrequency int32 `json:"pollingFrequency"`

	// NotifiersMatchLabels selects the notifiers in the monitor's namespace
	// that receive state change notifications. No notifications are sent if
	// empty.
	// +optional
	NotifiersMatchLabels map[string]string `json:"notifiersMatchLabels,omitempty"`
}

// TimeoutDuration returns the check timeout as time.Duration.
func (c MonitorConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// PollingInterval returns the polling frequency as time.Duration.
func (c MonitorConfig) PollingInterval() time.Duration {
	return time.Duration(c.PollingFrequency) * time.Second
}

// Validate returns an error if the config cannot be used for checks.
func (c MonitorConfig) Validate() error {
	if c.Timeout < 1 {
		return errors.Errorf("monitorConfig.timeout must be at least 1, got %d", c.Timeout)
	}

	if c.Retries < 0 {
		return errors.Errorf("monitorConfig.retries must not be negative, got %d", c.Retries)
	}

	if c.PollingFrequency < 1 {
		return errors.Errorf("monitorConfig.pollingFrequency must be at least 1, got %d", c.PollingFrequency)
	}

	return nil
}

// MonitorStatus is the observed state of a monitor. LastChecked and State
// are always written together.
type MonitorStatus struct {
	// LastChecked is the time of the last check.
	// +optional
	LastChecked *metav1.Time `json:"lastChecked,omitempty"`

	// State is the result of the last check.
	State MonitorState `json:"state"`
}

// StateOf returns the state recorded in status. A missing status or state
// yields NoData.
func StateOf(status *MonitorStatus) MonitorState {
	if status == nil || status.State == "" {
		return MonitorStateNoData
	}

	return status.State
}

// SecretKeySelector references a key of a secret in the namespace of the
// referencing object.
type SecretKeySelector struct {
	// Name of the secret.
	Name string `json:"name"`

	// Key within the secret.
	Key string `json:"key"`
}

// Validate returns an error if the selector is incomplete.
func (s SecretKeySelector) Validate() error {
	if s.Name == "" {
		return errors.New("secret name must not be empty")
	}

	if s.Key == "" {
		return errors.New("secret key must not be empty")
	}

	return nil
}

// namespaceOrDefault returns ns or "default" if ns is empty.
func namespaceOrDefault(ns string) string {
	if ns == "" {
		return metav1.NamespaceDefault
	}

	return ns
}

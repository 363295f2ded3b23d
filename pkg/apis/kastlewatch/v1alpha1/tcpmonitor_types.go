package v1alpha1

import (
	"context"
	"time"

	"github.com/kastlewatch/kastlewatch/pkg/clients"
	"github.com/kastlewatch/kastlewatch/pkg/probe"
	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// TCPMonitorSpec defines a TCP port to monitor.
type TCPMonitorSpec struct {
	// Host is the hostname or IP address of the target.
	Host string `json:"host"`

	// Port is the TCP port to connect to.
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:validation:Maximum=65535
	Port int32 `json:"port"`

	// MonitorConfig configures the monitoring behaviour.
	MonitorConfig MonitorConfig `json:"monitorConfig"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status

// TCPMonitor checks whether a TCP connection to a target can be established.
type TCPMonitor struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   TCPMonitorSpec `json:"spec"`
	Status *MonitorStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// TCPMonitorList contains a list of TCPMonitor.
type TCPMonitorList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []TCPMonitor `json:"items"`
}

func init() {
	SchemeBuilder.Register(&TCPMonitor{}, &TCPMonitorList{})
}

// SuccessPolicy returns the polling interval.
func (m *TCPMonitor) SuccessPolicy() time.Duration {
	return m.Spec.MonitorConfig.PollingInterval()
}

// ErrorPolicy returns a short fixed interval regardless of the error.
func (m *TCPMonitor) ErrorPolicy(_ error) time.Duration {
	return MonitorErrorRequeueInterval
}

// Validate rejects monitors that cannot be checked.
func (m *TCPMonitor) Validate() error {
	if m.Spec.Host == "" {
		return errors.New("spec.host must not be empty")
	}

	if m.Spec.Port < 1 || m.Spec.Port > 65535 {
		return errors.Errorf("spec.port must be in range 1-65535, got %d", m.Spec.Port)
	}

	return m.Spec.MonitorConfig.Validate()
}

// MonitorConfig returns the monitor configuration.
func (m *TCPMonitor) MonitorConfig() MonitorConfig {
	return m.Spec.MonitorConfig
}

// MonitorStatus returns the current status or nil if none was recorded yet.
func (m *TCPMonitor) MonitorStatus() *MonitorStatus {
	return m.Status
}

// Check tries to connect to host:port. The target is Healthy if any of the
// configured attempts succeeds and Critical otherwise.
func (m *TCPMonitor) Check(ctx context.Context, _ *clients.Clients) (MonitorState, error) {
	config := m.Spec.MonitorConfig

	open, err := probe.Retry(ctx, config.Retries, func(ctx context.Context) (bool, error) {
		return probe.TCP(ctx, m.Spec.Host, m.Spec.Port, config.TimeoutDuration()), nil
	})
	if err != nil {
		return MonitorStateNoData, err
	}

	if open {
		return MonitorStateHealthy, nil
	}

	return MonitorStateCritical, nil
}

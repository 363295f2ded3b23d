package v1alpha1

import (
	"context"
	"net/url"
	"time"

	"github.com/kastlewatch/kastlewatch/pkg/clients"
	"github.com/kastlewatch/kastlewatch/pkg/probe"
	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// HTTPMethod is the request method used by an HTTPMonitor.
// +kubebuilder:validation:Enum=GET;POST
type HTTPMethod string

const (
	HTTPMethodGet  HTTPMethod = "GET"
	HTTPMethodPost HTTPMethod = "POST"
)

// HTTPMonitorSpec defines an HTTP endpoint to monitor.
type HTTPMonitorSpec struct {
	// URL is the URL to check.
	URL string `json:"url"`

	// Method is the request method.
	Method HTTPMethod `json:"method"`

	// StatusCode is the list of status codes considered healthy. Any 2xx
	// code is accepted if empty.
	// +optional
	StatusCode []int32 `json:"statusCode,omitempty"`

	// Base64Data is the base64 encoded request body.
	// +optional
	Base64Data string `json:"base64Data,omitempty"`

	// MonitorConfig configures the monitoring behaviour.
	MonitorConfig MonitorConfig `json:"monitorConfig"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status

// HTTPMonitor checks whether an HTTP endpoint answers with an acceptable
// status code.
type HTTPMonitor struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   HTTPMonitorSpec `json:"spec"`
	Status *MonitorStatus  `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// HTTPMonitorList contains a list of HTTPMonitor.
type HTTPMonitorList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []HTTPMonitor `json:"items"`
}

func init() {
	SchemeBuilder.Register(&HTTPMonitor{}, &HTTPMonitorList{})
}

// SuccessPolicy returns the polling interval.
func (m *HTTPMonitor) SuccessPolicy() time.Duration {
	return m.Spec.MonitorConfig.PollingInterval()
}

// ErrorPolicy returns a short fixed interval regardless of the error.
func (m *HTTPMonitor) ErrorPolicy(_ error) time.Duration {
	return MonitorErrorRequeueInterval
}

// Validate rejects monitors that cannot be checked. It never performs
// network activity.
func (m *HTTPMonitor) Validate() error {
	u, err := url.Parse(m.Spec.URL)
	if err != nil {
		return errors.Wrapf(err, "spec.url is invalid")
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Errorf("spec.url must use http or https, got %q", m.Spec.URL)
	}

	if u.Host == "" {
		return errors.Errorf("spec.url must contain a host, got %q", m.Spec.URL)
	}

	switch m.Spec.Method {
	case HTTPMethodGet, HTTPMethodPost:
	default:
		return errors.Errorf("spec.method must be one of GET, POST, got %q", m.Spec.Method)
	}

	for _, code := range m.Spec.StatusCode {
		if code < 100 || code > 599 {
			return errors.Errorf("spec.statusCode contains invalid HTTP status code %d", code)
		}
	}

	if m.Spec.Base64Data != "" {
		if _, err := probe.DecodeBody(m.Spec.Base64Data); err != nil {
			return errors.Wrap(err, "spec.base64Data")
		}
	}

	return m.Spec.MonitorConfig.Validate()
}

// MonitorConfig returns the monitor configuration.
func (m *HTTPMonitor) MonitorConfig() MonitorConfig {
	return m.Spec.MonitorConfig
}

// MonitorStatus returns the current status or nil if none was recorded yet.
func (m *HTTPMonitor) MonitorStatus() *MonitorStatus {
	return m.Status
}

// Check sends the configured request. The target is Healthy if any of the
// configured attempts yields an acceptable status code and Critical
// otherwise.
func (m *HTTPMonitor) Check(ctx context.Context, c *clients.Clients) (MonitorState, error) {
	config := m.Spec.MonitorConfig

	req := probe.HTTPRequest{
		Method:             string(m.Spec.Method),
		URL:                m.Spec.URL,
		AllowedStatusCodes: m.Spec.StatusCode,
	}

	if m.Spec.Base64Data != "" {
		body, err := probe.DecodeBody(m.Spec.Base64Data)
		if err != nil {
			return MonitorStateNoData, err
		}

		req.Body = body
	}

	httpClient := c.HTTPClient(config.TimeoutDuration())

	healthy, err := probe.Retry(ctx, config.Retries, func(ctx context.Context) (bool, error) {
		return probe.HTTP(ctx, httpClient, req)
	})
	if err != nil {
		return MonitorStateNoData, err
	}

	if healthy {
		return MonitorStateHealthy, nil
	}

	return MonitorStateCritical, nil
}

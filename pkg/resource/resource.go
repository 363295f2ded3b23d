// Package resource defines the capabilities that monitor and notifier kinds
// implement and the static table of supported kinds. The controller, the
// worker and the notification fan-out are written against these
// capabilities only.
package resource

import (
	"context"
	"time"

	"github.com/kastlewatch/kastlewatch/pkg/apis/kastlewatch/v1alpha1"
	"github.com/kastlewatch/kastlewatch/pkg/clients"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Reconcilable is implemented by every kind that is watched by the
// controller.
type Reconcilable interface {
	client.Object

	// SuccessPolicy returns the interval after which the object is
	// revisited after a successful reconciliation.
	SuccessPolicy() time.Duration

	// ErrorPolicy returns the interval after which the object is revisited
	// after a failed reconciliation. It must be short and fixed.
	ErrorPolicy(err error) time.Duration

	// Validate returns an error if the object is malformed. It must not
	// perform any network activity.
	Validate() error
}

// Checkable is implemented by monitor kinds.
type Checkable interface {
	Reconcilable

	// Check probes the monitored target. An error means that the check
	// could not be executed, not that the target is unhealthy.
	Check(ctx context.Context, c *clients.Clients) (v1alpha1.MonitorState, error)

	// MonitorConfig returns the monitor configuration.
	MonitorConfig() v1alpha1.MonitorConfig

	// MonitorStatus returns the current status or nil.
	MonitorStatus() *v1alpha1.MonitorStatus
}

// Notifiable is implemented by notifier kinds.
type Notifiable interface {
	Reconcilable

	// Notify delivers the state change of the named monitor.
	Notify(ctx context.Context, c *clients.Clients, monitorName string, oldState, newState v1alpha1.MonitorState) error
}

var (
	_ Checkable  = &v1alpha1.TCPMonitor{}
	_ Checkable  = &v1alpha1.HTTPMonitor{}
	_ Notifiable = &v1alpha1.DiscordNotifier{}
)

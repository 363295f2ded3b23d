package resource

import (
	"fmt"
	"strings"

	"github.com/kastlewatch/kastlewatch/pkg/apis/kastlewatch/v1alpha1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Kind describes a supported resource kind.
type Kind struct {
	schema.GroupVersionKind

	// New returns a new empty object of the kind.
	New func() Reconcilable

	// NewList returns a new empty list of the kind.
	NewList func() client.ObjectList
}

// Path returns the worker path for the kind: /{version}/{lowercased kind}.
func (k Kind) Path() string {
	return fmt.Sprintf("/%s/%s", k.Version, strings.ToLower(k.Kind))
}

// NewCheckable returns a new empty object of the kind. It panics if the kind
// is not a monitor kind.
func (k Kind) NewCheckable() Checkable {
	return k.New().(Checkable)
}

var (
	// TCPMonitorKind is the TCPMonitor kind.
	TCPMonitorKind = Kind{
		GroupVersionKind: v1alpha1.GroupVersion.WithKind("TCPMonitor"),
		New:              func() Reconcilable { return &v1alpha1.TCPMonitor{} },
		NewList:          func() client.ObjectList { return &v1alpha1.TCPMonitorList{} },
	}

	// HTTPMonitorKind is the HTTPMonitor kind.
	HTTPMonitorKind = Kind{
		GroupVersionKind: v1alpha1.GroupVersion.WithKind("HTTPMonitor"),
		New:              func() Reconcilable { return &v1alpha1.HTTPMonitor{} },
		NewList:          func() client.ObjectList { return &v1alpha1.HTTPMonitorList{} },
	}

	// DiscordNotifierKind is the DiscordNotifier kind.
	DiscordNotifierKind = Kind{
		GroupVersionKind: v1alpha1.GroupVersion.WithKind("DiscordNotifier"),
		New:              func() Reconcilable { return &v1alpha1.DiscordNotifier{} },
		NewList:          func() client.ObjectList { return &v1alpha1.DiscordNotifierList{} },
	}
)

// Monitors contains all monitor kinds. Objects created by their New func
// implement Checkable.
var Monitors = []Kind{TCPMonitorKind, HTTPMonitorKind}

// Notifiers contains all notifier kinds. Objects created by their New func
// implement Notifiable.
var Notifiers = []Kind{DiscordNotifierKind}

// IsMonitor returns true if k is one of Monitors.
func IsMonitor(k Kind) bool {
	for _, m := range Monitors {
		if m.GroupVersionKind == k.GroupVersionKind {
			return true
		}
	}

	return false
}

// WorkerURL returns the URL of the worker endpoint that accepts objects of
// kind k: {base}/{version}/{lowercased kind}.
func WorkerURL(base string, k Kind) string {
	return strings.TrimRight(base, "/") + k.Path()
}

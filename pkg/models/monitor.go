package models

import (
	"github.com/kastlewatch/kastlewatch/pkg/apis/kastlewatch/v1alpha1"
)

// Notification is a container for a monitor state change that should be
// delivered to all matching notifiers.
type Notification struct {
	// MonitorName is the name of the monitor that changed state.
	MonitorName string

	// Namespace is the namespace of the monitor. Only notifiers in the same
	// namespace are considered.
	Namespace string

	// MatchLabels selects the notifiers. No notifier is selected if empty.
	MatchLabels map[string]string

	// OldState is the state before the check.
	OldState v1alpha1.MonitorState

	// NewState is the state determined by the check.
	NewState v1alpha1.MonitorState
}

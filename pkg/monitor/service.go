package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/kastlewatch/kastlewatch/pkg/apis/kastlewatch/v1alpha1"
	"github.com/kastlewatch/kastlewatch/pkg/clients"
	"github.com/kastlewatch/kastlewatch/pkg/metrics"
	"github.com/kastlewatch/kastlewatch/pkg/models"
	"github.com/kastlewatch/kastlewatch/pkg/notifier"
	"github.com/kastlewatch/kastlewatch/pkg/resource"
	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
)

var log = logf.Log.WithName("monitor-service")

// ReasonStateChange is the reason of events emitted on state transitions.
const ReasonStateChange = "StateChange"

// Service defines the interface for a service that executes monitor checks
// and records their outcome.
type Service interface {
	// Process checks the monitor, persists the resulting state in the
	// monitor status and, if the state changed, emits an event and notifies
	// the selected notifiers. Process never fails: all errors are logged.
	Process(ctx context.Context, monitor resource.Checkable)
}

type service struct {
	clients  *clients.Clients
	fanout   notifier.Fanout
	recorder EventRecorder
	now      func() time.Time
}

// NewService creates a new Service.
func NewService(c *clients.Clients, fanout notifier.Fanout) Service {
	return &service{
		clients:  c,
		fanout:   fanout,
		recorder: NewEventRecorder(c.Client),
		now:      time.Now,
	}
}

// Process implements Service.
func (s *service) Process(ctx context.Context, monitor resource.Checkable) {
	kind := s.kindOf(monitor)
	namespace := namespaceOf(monitor)
	name := monitor.GetName()

	log := log.WithValues("kind", kind, "namespace", namespace, "name", name)

	log.V(1).Info("processing monitor")

	oldState := v1alpha1.StateOf(monitor.MonitorStatus())
	newState := s.check(ctx, log, kind, monitor)

	err := s.patchStatus(ctx, monitor, namespace, newState)
	if err != nil {
		metrics.StatusPatchErrorsTotal.WithLabelValues(kind).Inc()
		log.Error(err, "failed to update monitor status")
	} else {
		log.V(1).Info("monitor status updated", "state", newState)
	}

	if oldState == newState {
		return
	}

	metrics.StateTransitionsTotal.WithLabelValues(kind, string(oldState), string(newState)).Inc()
	log.Info("monitor state changed", "from", oldState, "to", newState)

	err = s.recordStateChange(ctx, monitor, namespace, oldState, newState)
	if err != nil {
		log.Error(err, "failed to record state change event")
	}

	err = s.fanout.Notify(ctx, &models.Notification{
		MonitorName: name,
		Namespace:   namespace,
		MatchLabels: monitor.MonitorConfig().NotifiersMatchLabels,
		OldState:    oldState,
		NewState:    newState,
	})
	if err != nil {
		log.Error(err, "failed to notify")
	}
}

// check runs the monitor check. Execution errors yield NoData: the state
// could not be determined, which is different from Critical.
func (s *service) check(ctx context.Context, log logr.Logger, kind string, monitor resource.Checkable) v1alpha1.MonitorState {
	start := time.Now()

	state, err := monitor.Check(ctx, s.clients)

	metrics.CheckDurationSeconds.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	if err != nil {
		log.Error(err, "check failed")
		state = v1alpha1.MonitorStateNoData
	}

	metrics.ChecksTotal.WithLabelValues(kind, string(state)).Inc()
	log.V(1).Info("check complete", "state", state)

	return state
}

// patchStatus replaces lastChecked and state using a merge patch on the
// status subresource. The monitor spec is never touched.
func (s *service) patchStatus(ctx context.Context, monitor resource.Checkable, namespace string, state v1alpha1.MonitorState) error {
	patch := map[string]interface{}{
		"status": &v1alpha1.MonitorStatus{
			LastChecked: &metav1.Time{Time: s.now()},
			State:       state,
		},
	}

	data, err := json.Marshal(patch)
	if err != nil {
		return errors.Wrap(err, "failed to marshal status patch")
	}

	// Operate on a copy: Patch overwrites the object with the server
	// response, but the caller's object must keep the observed status.
	obj := monitor.DeepCopyObject().(client.Object)
	obj.SetNamespace(namespace)

	err = s.clients.Client.Status().Patch(ctx, obj, client.RawPatch(types.MergePatchType, data))

	return errors.Wrapf(err, "failed to patch status of %s/%s", namespace, monitor.GetName())
}

func (s *service) recordStateChange(ctx context.Context, monitor resource.Checkable, namespace string, oldState, newState v1alpha1.MonitorState) error {
	eventType := corev1.EventTypeWarning
	if newState == v1alpha1.MonitorStateHealthy {
		eventType = corev1.EventTypeNormal
	}

	message := fmt.Sprintf("Monitor state changed from %s to %s", oldState, newState)

	gvk, err := s.clients.Client.GroupVersionKindFor(monitor)
	if err != nil {
		return errors.Wrap(err, "failed to determine GroupVersionKind of monitor")
	}

	return s.recorder.Event(ctx, &ObjectReference{
		GroupVersionKind: gvk,
		Namespace:        namespace,
		Name:             monitor.GetName(),
		UID:              monitor.GetUID(),
	}, eventType, ReasonStateChange, message)
}

func (s *service) kindOf(monitor resource.Checkable) string {
	gvk, err := s.clients.Client.GroupVersionKindFor(monitor)
	if err != nil {
		return fmt.Sprintf("%T", monitor)
	}

	return gvk.Kind
}

func namespaceOf(obj client.Object) string {
	if ns := obj.GetNamespace(); ns != "" {
		return ns
	}

	return metav1.NamespaceDefault
}

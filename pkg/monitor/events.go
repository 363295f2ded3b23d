package monitor

import (
	"context"
	"time"

	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// EventSourceComponent is the source component of emitted events.
const EventSourceComponent = "kastlewatch-worker"

// ObjectReference identifies the object an event is about.
type ObjectReference struct {
	schema.GroupVersionKind

	Namespace string
	Name      string
	UID       types.UID
}

// EventRecorder records lifecycle events for monitors.
type EventRecorder interface {
	// Event creates an event of eventType for ref.
	Event(ctx context.Context, ref *ObjectReference, eventType, reason, message string) error
}

type eventRecorder struct {
	client client.Client
	now    func() time.Time
}

// NewEventRecorder creates an EventRecorder that creates core/v1 events
// through c.
func NewEventRecorder(c client.Client) EventRecorder {
	return &eventRecorder{
		client: c,
		now:    time.Now,
	}
}

// Event implements EventRecorder.
func (r *eventRecorder) Event(ctx context.Context, ref *ObjectReference, eventType, reason, message string) error {
	now := metav1.NewTime(r.now())

	event := &corev1.Event{
		ObjectMeta: metav1.ObjectMeta{
			GenerateName: ref.Name + "-",
			Namespace:    ref.Namespace,
		},
		InvolvedObject: corev1.ObjectReference{
			APIVersion: ref.GroupVersion().String(),
			Kind:       ref.Kind,
			Name:       ref.Name,
			Namespace:  ref.Namespace,
			UID:        ref.UID,
		},
		Reason:         reason,
		Message:        message,
		Type:           eventType,
		Source:         corev1.EventSource{Component: EventSourceComponent},
		FirstTimestamp: now,
		LastTimestamp:  now,
		Count:          1,
	}

	err := r.client.Create(ctx, event)
	if err != nil {
		return errors.Wrapf(err, "failed to create event for %s %s/%s", ref.Kind, ref.Namespace, ref.Name)
	}

	return nil
}

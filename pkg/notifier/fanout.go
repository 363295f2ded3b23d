// Package notifier delivers monitor state changes to the notifiers selected
// by the monitor.
package notifier

import (
	"context"

	"github.com/kastlewatch/kastlewatch/pkg/clients"
	"github.com/kastlewatch/kastlewatch/pkg/metrics"
	"github.com/kastlewatch/kastlewatch/pkg/models"
	"github.com/kastlewatch/kastlewatch/pkg/resource"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	apimeta "k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/labels"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
)

var log = logf.Log.WithName("notifier")

// DefaultConcurrency is the default number of concurrent deliveries of a
// single notification.
const DefaultConcurrency = 4

// Fanout defines the interface for delivering a notification to all
// matching notifiers.
type Fanout interface {
	// Notify delivers n to every notifier in n.Namespace whose labels match
	// n.MatchLabels. A failing notifier does not prevent delivery to the
	// others. Only errors that prevented the lookup of notifiers are
	// returned.
	Notify(ctx context.Context, n *models.Notification) error
}

type fanout struct {
	clients     *clients.Clients
	kinds       []resource.Kind
	concurrency int
}

// NewFanout creates a new Fanout that resolves notifiers of all kinds in
// resource.Notifiers. Concurrency limits the number of concurrent deliveries
// per notification.
func NewFanout(c *clients.Clients, concurrency int) Fanout {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	return &fanout{
		clients:     c,
		kinds:       resource.Notifiers,
		concurrency: concurrency,
	}
}

// Notify implements Fanout.
func (f *fanout) Notify(ctx context.Context, n *models.Notification) error {
	log := log.WithValues("namespace", n.Namespace, "monitor", n.MonitorName)

	if len(n.MatchLabels) == 0 {
		log.V(1).Info("monitor does not select any notifiers")
		return nil
	}

	selector := resource.Selector(n.MatchLabels)

	var errs []error

	for _, kind := range f.kinds {
		notifiers, err := f.list(ctx, kind, n.Namespace, selector)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		log.V(1).Info("found matching notifiers", "kind", kind.Kind, "count", len(notifiers), "selector", selector.String())

		f.deliver(ctx, kind, notifiers, n)
	}

	return utilerrors.NewAggregate(errs)
}

func (f *fanout) list(ctx context.Context, kind resource.Kind, namespace string, selector labels.Selector) ([]resource.Notifiable, error) {
	list := kind.NewList()

	err := f.clients.Client.List(ctx, list, client.InNamespace(namespace), client.MatchingLabelsSelector{Selector: selector})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s in namespace %s", kind.Kind, namespace)
	}

	items, err := apimeta.ExtractList(list)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to extract %s items", kind.Kind)
	}

	notifiers := make([]resource.Notifiable, 0, len(items))

	for _, item := range items {
		notifier, ok := item.(resource.Notifiable)
		if !ok {
			return nil, errors.Errorf("%T does not implement resource.Notifiable", item)
		}

		notifiers = append(notifiers, notifier)
	}

	return notifiers, nil
}

// deliver invokes every notifier independently. Failures are logged and
// never abort the remaining deliveries.
func (f *fanout) deliver(ctx context.Context, kind resource.Kind, notifiers []resource.Notifiable, n *models.Notification) {
	var g errgroup.Group

	g.SetLimit(f.concurrency)

	for _, notifier := range notifiers {
		notifier := notifier
		g.Go(func() error {
			log := log.WithValues("kind", kind.Kind, "notifier", notifier.GetName(), "monitor", n.MonitorName)

			log.Info("sending notification", "from", n.OldState, "to", n.NewState)

			err := notifier.Notify(ctx, f.clients, n.MonitorName, n.OldState, n.NewState)
			if err != nil {
				metrics.NotificationsTotal.WithLabelValues(kind.Kind, metrics.ResultFailed).Inc()
				log.Error(err, "failed to send notification")
				return nil
			}

			metrics.NotificationsTotal.WithLabelValues(kind.Kind, metrics.ResultSuccess).Inc()
			log.V(1).Info("notification sent")

			return nil
		})
	}

	_ = g.Wait()
}

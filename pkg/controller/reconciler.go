package controller

import (
	"context"

	"github.com/kastlewatch/kastlewatch/pkg/dispatch"
	"github.com/kastlewatch/kastlewatch/pkg/metrics"
	"github.com/kastlewatch/kastlewatch/pkg/resource"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/builder"
	"sigs.k8s.io/controller-runtime/pkg/client"
	ctrlcontroller "sigs.k8s.io/controller-runtime/pkg/controller"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/manager"
	"sigs.k8s.io/controller-runtime/pkg/predicate"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"
)

var log = logf.Log.WithName("reconciler")

// Reconciler reconciles objects of a single kind. Monitors are handed over
// to the worker, notifiers are only validated.
type Reconciler struct {
	client.Client

	kind       resource.Kind
	dispatcher dispatch.Dispatcher
}

// NewReconciler creates a new *Reconciler for objects of given kind.
func NewReconciler(client client.Client, kind resource.Kind, dispatcher dispatch.Dispatcher) *Reconciler {
	return &Reconciler{
		Client:     client,
		kind:       kind,
		dispatcher: dispatcher,
	}
}

// Reconcile validates the object and, for monitors, dispatches a check to
// the worker. The object is always requeued after the interval dictated by
// its success or error policy. It implements reconcile.Reconciler.
func (r *Reconciler) Reconcile(ctx context.Context, req reconcile.Request) (reconcile.Result, error) {
	log := log.WithValues("kind", r.kind.Kind, "namespace", req.Namespace, "name", req.Name)

	obj := r.kind.New()

	err := r.Get(ctx, req.NamespacedName, obj)
	if apierrors.IsNotFound(err) {
		// Deleted objects are not reconciled any further.
		log.V(1).Info("object not found")
		return reconcile.Result{}, nil
	} else if err != nil {
		log.Error(err, "failed to get object")
		return reconcile.Result{RequeueAfter: obj.ErrorPolicy(err)}, nil
	}

	err = obj.Validate()
	if err != nil {
		metrics.ValidationErrorsTotal.WithLabelValues(r.kind.Kind, req.Namespace, req.Name).Inc()
		log.Error(err, "validation failed")

		return reconcile.Result{RequeueAfter: obj.ErrorPolicy(err)}, nil
	}

	if checkable, ok := obj.(resource.Checkable); ok && resource.IsMonitor(r.kind) {
		r.dispatcher.Dispatch(r.kind, checkable)
	}

	return reconcile.Result{RequeueAfter: obj.SuccessPolicy()}, nil
}

// eventFilter returns the predicates for watch events of kind. Status-only
// updates of monitors leave the generation untouched and must not trigger a
// check ahead of the polling frequency.
func eventFilter(kind resource.Kind) []predicate.Predicate {
	if !resource.IsMonitor(kind) {
		return nil
	}

	return []predicate.Predicate{predicate.GenerationChangedPredicate{}}
}

// SetupWithManager registers one controller per kind with mgr.
func SetupWithManager(mgr manager.Manager, kinds []resource.Kind, dispatcher dispatch.Dispatcher, maxConcurrentReconciles int) error {
	for _, kind := range kinds {
		err := builder.
			ControllerManagedBy(mgr).
			Named(kind.Kind).
			For(kind.New(), builder.WithPredicates(eventFilter(kind)...)).
			WithOptions(ctrlcontroller.Options{MaxConcurrentReconciles: maxConcurrentReconciles}).
			Complete(NewReconciler(mgr.GetClient(), kind, dispatcher))
		if err != nil {
			return err
		}
	}

	return nil
}

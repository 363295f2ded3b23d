package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kastlewatch/kastlewatch/pkg/apis/kastlewatch/v1alpha1"
	"github.com/kastlewatch/kastlewatch/pkg/clients"
	"github.com/kastlewatch/kastlewatch/pkg/config"
	"github.com/kastlewatch/kastlewatch/pkg/controller"
	"github.com/kastlewatch/kastlewatch/pkg/crd"
	"github.com/kastlewatch/kastlewatch/pkg/dispatch"
	"github.com/kastlewatch/kastlewatch/pkg/monitor"
	"github.com/kastlewatch/kastlewatch/pkg/notifier"
	"github.com/kastlewatch/kastlewatch/pkg/resource"
	"github.com/kastlewatch/kastlewatch/pkg/worker"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrlruntime "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	restconfig "sigs.k8s.io/controller-runtime/pkg/client/config"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/controller-runtime/pkg/manager"
	"sigs.k8s.io/controller-runtime/pkg/manager/signals"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"
)

var (
	debug bool

	log = logf.Log.WithName("main")
)

// NewRootCommand creates a new *cobra.Command that is used as the root command
// for kastlewatch.
func NewRootCommand() *cobra.Command {
	options := config.NewDefaultOptions()

	cmd := &cobra.Command{
		Use:           "kastlewatch",
		Short:         "Monitors TCP and HTTP endpoints declared as custom resources.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			ctrlruntime.SetLogger(zap.New(zap.UseDevMode(debug)))

			err := options.LoadSettingsFile()
			if err != nil {
				return err
			}

			return options.Validate()
		},
	}

	options.AddFlags(cmd)

	cmd.AddCommand(
		newControllerCommand(options),
		newWorkerCommand(options),
		newCRDGenCommand(),
	)

	return cmd
}

func newControllerCommand(options *config.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "controller",
		Short: "Registers the CustomResourceDefinitions and runs the controller.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return RunController(signals.SetupSignalHandler(), options)
		},
	}
}

func newWorkerCommand(options *config.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Runs the worker that checks monitors and sends notifications.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return RunWorker(signals.SetupSignalHandler(), options)
		},
	}
}

func newCRDGenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "crdgen",
		Short: "Prints the CustomResourceDefinitions as YAML.",
		Args:  cobra.NoArgs,
		// Generating CRDs requires neither logging setup nor valid options.
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := crd.Marshal(crd.Definitions())
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(out)

			return err
		},
	}
}

func main() {
	cmd := NewRootCommand()

	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	cmd.PersistentFlags().BoolVar(&debug, "debug", debug, "Enable debug logging.")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newScheme() (*runtime.Scheme, error) {
	scheme := runtime.NewScheme()

	for _, add := range []func(*runtime.Scheme) error{
		clientgoscheme.AddToScheme,
		apiextensionsv1.AddToScheme,
		v1alpha1.AddToScheme,
	} {
		if err := add(scheme); err != nil {
			return nil, errors.Wrap(err, "failed to build scheme")
		}
	}

	return scheme, nil
}

// RunController registers the CustomResourceDefinitions, sets up one
// controller per kind and initiates the controller loop.
func RunController(ctx context.Context, options *config.Options) error {
	scheme, err := newScheme()
	if err != nil {
		return err
	}

	restConfig, err := restconfig.GetConfig()
	if err != nil {
		return errors.Wrapf(err, "failed to load kubeconfig")
	}

	// The manager's cache is not running yet, CRDs are registered with a
	// direct client.
	directClient, err := client.New(restConfig, client.Options{Scheme: scheme})
	if err != nil {
		return errors.Wrapf(err, "failed to create kubernetes client")
	}

	err = crd.NewRegistrar(directClient).EnsureAll(ctx, crd.Definitions())
	if err != nil {
		return errors.Wrapf(err, "failed to register CustomResourceDefinitions")
	}

	mgr, err := manager.New(restConfig, manager.Options{
		Scheme:                 scheme,
		Metrics:                metricsserver.Options{BindAddress: options.MetricsAddr},
		HealthProbeBindAddress: options.HealthProbeAddr,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to create controller manager")
	}

	err = mgr.AddHealthzCheck("healthz", healthz.Ping)
	if err != nil {
		return errors.Wrapf(err, "failed to add health check")
	}

	err = mgr.AddReadyzCheck("readyz", healthz.Ping)
	if err != nil {
		return errors.Wrapf(err, "failed to add readiness check")
	}

	dispatcher := dispatch.NewHTTPDispatcher(dispatch.Options{
		BaseURL:   options.Controller.BaseURL,
		Workers:   options.Controller.DispatchWorkers,
		QueueSize: options.Controller.DispatchQueueSize,
		Timeout:   options.Controller.DispatchTimeout.Duration,
	})

	err = mgr.Add(dispatcher)
	if err != nil {
		return errors.Wrapf(err, "failed to add dispatcher")
	}

	kinds := append(append([]resource.Kind{}, resource.Monitors...), resource.Notifiers...)

	err = controller.SetupWithManager(mgr, kinds, dispatcher, options.Controller.MaxConcurrentReconciles)
	if err != nil {
		return errors.Wrapf(err, "failed to create controllers")
	}

	log.Info("starting controller", "workerURL", options.Controller.BaseURL)

	err = mgr.Start(ctx)
	if err != nil {
		return errors.Wrapf(err, "unable to run manager")
	}

	return nil
}

// RunWorker runs the worker server and the worker pool until ctx is
// cancelled or one of them fails.
func RunWorker(ctx context.Context, options *config.Options) error {
	scheme, err := newScheme()
	if err != nil {
		return err
	}

	restConfig, err := restconfig.GetConfig()
	if err != nil {
		return errors.Wrapf(err, "failed to load kubeconfig")
	}

	// Secrets are read on every notification, no cache is involved.
	c, err := client.New(restConfig, client.Options{Scheme: scheme})
	if err != nil {
		return errors.Wrapf(err, "failed to create kubernetes client")
	}

	cs := &clients.Clients{
		Client:         c,
		WebhookTimeout: options.Worker.WebhookTimeout.Duration,
	}

	svc := monitor.NewService(cs, notifier.NewFanout(cs, options.Worker.NotifyConcurrency))
	pool := worker.NewPool(svc, options.Worker.Concurrency, options.Worker.QueueSize)
	server := worker.NewServer(pool)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return pool.Start(ctx)
	})

	g.Go(func() error {
		return server.Run(ctx, options.Worker.Addr())
	})

	return g.Wait()
}

package config

import (
	"net/url"
	"os"
	"time"

	"dario.cat/mergo"
	"github.com/kastlewatch/kastlewatch/pkg/dispatch"
	"github.com/kastlewatch/kastlewatch/pkg/notifier"
	"github.com/kastlewatch/kastlewatch/pkg/worker"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Options holds the options of the kastlewatch commands.
type Options struct {
	Settings

	// SettingsFile is the path of an optional settings file whose values
	// take precedence over flags.
	SettingsFile string
}

// NewDefaultOptions creates a new *Options with default values.
func NewDefaultOptions() *Options {
	baseURL := os.Getenv("KASTLEWATCH_WORKER_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &Options{
		Settings: Settings{
			Controller: ControllerSettings{
				BaseURL:                 baseURL,
				DispatchQueueSize:       dispatch.DefaultQueueSize,
				DispatchWorkers:         dispatch.DefaultWorkers,
				DispatchTimeout:         metav1.Duration{Duration: dispatch.DefaultTimeout},
				MaxConcurrentReconciles: 1,
			},
			Worker: WorkerSettings{
				Host:              "0.0.0.0",
				Port:              8080,
				Concurrency:       worker.DefaultConcurrency,
				QueueSize:         worker.DefaultQueueSize,
				NotifyConcurrency: notifier.DefaultConcurrency,
				WebhookTimeout:    metav1.Duration{Duration: 10 * time.Second},
			},
			MetricsAddr:     ":8081",
			HealthProbeAddr: ":8082",
		},
	}
}

// AddFlags adds flags for all options to cmd.
func (o *Options) AddFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVar(&o.SettingsFile, "config", o.SettingsFile, "Path to a settings file. Values from the file take precedence over flags.")
	flags.StringVar(&o.MetricsAddr, "metrics-addr", o.MetricsAddr, "Bind address of the controller metrics endpoint.")
	flags.StringVar(&o.HealthProbeAddr, "health-probe-addr", o.HealthProbeAddr, "Bind address of the controller health probes.")

	flags.StringVar(&o.Controller.BaseURL, "worker-url", o.Controller.BaseURL, "Base URL of the worker.")
	flags.IntVar(&o.Controller.DispatchQueueSize, "dispatch-queue-size", o.Controller.DispatchQueueSize, "Number of monitors that can wait for submission to the worker.")
	flags.IntVar(&o.Controller.DispatchWorkers, "dispatch-workers", o.Controller.DispatchWorkers, "Number of concurrent submissions to the worker.")
	flags.DurationVar(&o.Controller.DispatchTimeout.Duration, "dispatch-timeout", o.Controller.DispatchTimeout.Duration, "Timeout of a single submission to the worker.")
	flags.IntVar(&o.Controller.MaxConcurrentReconciles, "max-concurrent-reconciles", o.Controller.MaxConcurrentReconciles, "Maximum number of concurrent reconciles per kind.")

	flags.StringVar(&o.Worker.Host, "worker-host", o.Worker.Host, "Host the worker listens on.")
	flags.IntVar(&o.Worker.Port, "worker-port", o.Worker.Port, "Port the worker listens on.")
	flags.IntVar(&o.Worker.Concurrency, "worker-concurrency", o.Worker.Concurrency, "Number of monitors checked concurrently.")
	flags.IntVar(&o.Worker.QueueSize, "worker-queue-size", o.Worker.QueueSize, "Number of monitors that can wait for a check.")
	flags.IntVar(&o.Worker.NotifyConcurrency, "notify-concurrency", o.Worker.NotifyConcurrency, "Maximum number of concurrent notification deliveries per state change.")
	flags.DurationVar(&o.Worker.WebhookTimeout.Duration, "webhook-timeout", o.Worker.WebhookTimeout.Duration, "Timeout of a single notification delivery.")
}

// Validate validates options.
func (o *Options) Validate() error {
	u, err := url.Parse(o.Controller.BaseURL)
	if err != nil {
		return errors.Wrapf(err, "invalid worker URL %q", o.Controller.BaseURL)
	}

	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return errors.Errorf("worker URL %q must be an absolute http(s) URL", o.Controller.BaseURL)
	}

	if o.Controller.DispatchQueueSize < 1 {
		return errors.New("dispatch queue size must be greater than 0")
	}

	if o.Controller.DispatchWorkers < 1 {
		return errors.New("dispatch workers must be greater than 0")
	}

	if o.Controller.DispatchTimeout.Duration < 0 {
		return errors.New("dispatch timeout must not be negative")
	}

	if o.Controller.MaxConcurrentReconciles < 1 {
		return errors.New("max concurrent reconciles must be greater than 0")
	}

	if o.Worker.Port < 1 || o.Worker.Port > 65535 {
		return errors.Errorf("worker port must be in range 1-65535, got %d", o.Worker.Port)
	}

	if o.Worker.Concurrency < 1 {
		return errors.New("worker concurrency must be greater than 0")
	}

	if o.Worker.QueueSize < 1 {
		return errors.New("worker queue size must be greater than 0")
	}

	if o.Worker.NotifyConcurrency < 1 {
		return errors.New("notify concurrency must be greater than 0")
	}

	if o.Worker.WebhookTimeout.Duration < 0 {
		return errors.New("webhook timeout must not be negative")
	}

	return nil
}

// LoadSettingsFile merges the settings from SettingsFile over the current
// values. Only non-zero values of the file take effect. It is a no-op if no
// settings file is configured.
func (o *Options) LoadSettingsFile() error {
	if o.SettingsFile == "" {
		return nil
	}

	settings, err := ReadSettings(o.SettingsFile)
	if err != nil {
		return errors.Wrapf(err, "failed to load settings from file")
	}

	err = mergo.Merge(&o.Settings, *settings, mergo.WithOverride)
	if err != nil {
		return errors.Wrapf(err, "failed to merge settings")
	}

	return nil
}

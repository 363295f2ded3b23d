// Package clients holds the process wide clients that are shared by the
// checks and notifiers.
package clients

import (
	"context"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

var (
	// ErrSecretKeyNotFound is returned by SecretValue if the secret exists
	// but does not contain the requested key.
	ErrSecretKeyNotFound = errors.New("secret key not found")

	// ErrNoKubernetesClient is returned by SecretValue if no Kubernetes
	// client was configured.
	ErrNoKubernetesClient = errors.New("no kubernetes client configured")
)

// Clients bundles the clients that checks and notifiers use to talk to the
// outside world. It is constructed once at startup and must not be mutated
// afterwards.
type Clients struct {
	// Client is used to read secrets.
	Client client.Client

	// Transport is used for all outbound HTTP requests. Defaults to
	// http.DefaultTransport if nil.
	Transport http.RoundTripper

	// WebhookTimeout bounds notification deliveries. No timeout if zero.
	WebhookTimeout time.Duration
}

// HTTPClient returns an *http.Client using the shared transport with the
// given timeout.
func (c *Clients) HTTPClient(timeout time.Duration) *http.Client {
	transport := c.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// WebhookClient returns the *http.Client used for notification delivery.
func (c *Clients) WebhookClient() *http.Client {
	return c.HTTPClient(c.WebhookTimeout)
}

// SecretValue reads key of the secret namespace/name and returns it as
// string. The secret is read on every call.
func (c *Clients) SecretValue(ctx context.Context, namespace, name, key string) (string, error) {
	if c.Client == nil {
		return "", ErrNoKubernetesClient
	}

	secret := &corev1.Secret{}

	err := c.Client.Get(ctx, types.NamespacedName{Namespace: namespace, Name: name}, secret)
	if err != nil {
		return "", errors.Wrapf(err, "failed to get secret %s/%s", namespace, name)
	}

	value, found := secret.Data[key]
	if !found {
		stringValue, found := secret.StringData[key]
		if !found {
			return "", errors.Wrapf(ErrSecretKeyNotFound, "key %q in secret %s/%s", key, namespace, name)
		}

		value = []byte(stringValue)
	}

	if !utf8.Valid(value) {
		return "", errors.Errorf("value of key %q in secret %s/%s is not valid UTF-8", key, namespace, name)
	}

	return string(value), nil
}

package notifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/kastlewatch/kastlewatch/pkg/apis/kastlewatch/v1alpha1"
	"github.com/kastlewatch/kastlewatch/pkg/clients"
	"github.com/kastlewatch/kastlewatch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
)

type webhook struct {
	*httptest.Server
	calls int32
}

func newWebhook(t *testing.T, status int) *webhook {
	w := &webhook{}
	w.Server = httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&w.calls, 1)
		rw.WriteHeader(status)
	}))
	t.Cleanup(w.Close)

	return w
}

func (w *webhook) Calls() int32 {
	return atomic.LoadInt32(&w.calls)
}

func newScheme(t *testing.T) *runtime.Scheme {
	scheme := runtime.NewScheme()
	require.NoError(t, corev1.AddToScheme(scheme))
	require.NoError(t, v1alpha1.AddToScheme(scheme))

	return scheme
}

func newNotifier(name, namespace, secret string, labels map[string]string) *v1alpha1.DiscordNotifier {
	return &v1alpha1.DiscordNotifier{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels:    labels,
		},
		Spec: v1alpha1.DiscordNotifierSpec{
			WebhookSecretRef: v1alpha1.SecretKeySelector{Name: secret, Key: "url"},
		},
	}
}

func newSecret(name, namespace, url string) *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Data:       map[string][]byte{"url": []byte(url)},
	}
}

func TestFanout_Notify(t *testing.T) {
	ok := newWebhook(t, http.StatusNoContent)
	broken := newWebhook(t, http.StatusInternalServerError)
	other := newWebhook(t, http.StatusNoContent)
	unmatched := newWebhook(t, http.StatusNoContent)

	objects := []client.Object{
		newSecret("ok", "ops", ok.URL),
		newSecret("broken", "ops", broken.URL),
		newSecret("unmatched", "ops", unmatched.URL),
		newSecret("other", "dev", other.URL),
		newNotifier("broken", "ops", "broken", map[string]string{"team": "ops", "severity": "page"}),
		newNotifier("missing-secret", "ops", "does-not-exist", map[string]string{"team": "ops", "severity": "page"}),
		newNotifier("ok", "ops", "ok", map[string]string{"team": "ops", "severity": "page", "extra": "label"}),
		newNotifier("unmatched", "ops", "unmatched", map[string]string{"team": "ops"}),
		newNotifier("other-namespace", "dev", "other", map[string]string{"team": "ops", "severity": "page"}),
	}

	c := &clients.Clients{
		Client: fake.NewClientBuilder().WithScheme(newScheme(t)).WithObjects(objects...).Build(),
	}

	f := NewFanout(c, 2)

	err := f.Notify(context.Background(), &models.Notification{
		MonitorName: "web",
		Namespace:   "ops",
		MatchLabels: map[string]string{"team": "ops", "severity": "page"},
		OldState:    v1alpha1.MonitorStateHealthy,
		NewState:    v1alpha1.MonitorStateCritical,
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), ok.Calls(), "matching notifier must be notified despite failing siblings")
	assert.Equal(t, int32(1), broken.Calls(), "failing notifier is attempted exactly once")
	assert.Equal(t, int32(0), unmatched.Calls(), "notifier with subset of labels must not be notified")
	assert.Equal(t, int32(0), other.Calls(), "notifiers in other namespaces must not be notified")
}

func TestFanout_Notify_NoSelector(t *testing.T) {
	hook := newWebhook(t, http.StatusNoContent)

	c := &clients.Clients{
		Client: fake.NewClientBuilder().WithScheme(newScheme(t)).WithObjects(
			newSecret("hook", "ops", hook.URL),
			newNotifier("hook", "ops", "hook", nil),
		).Build(),
	}

	for _, matchLabels := range []map[string]string{nil, {}} {
		err := NewFanout(c, 0).Notify(context.Background(), &models.Notification{
			MonitorName: "web",
			Namespace:   "ops",
			MatchLabels: matchLabels,
			OldState:    v1alpha1.MonitorStateNoData,
			NewState:    v1alpha1.MonitorStateHealthy,
		})
		require.NoError(t, err)
	}

	assert.Equal(t, int32(0), hook.Calls())
}

func TestFanout_Notify_ListError(t *testing.T) {
	// The scheme does not know the notifier kinds, listing must fail.
	scheme := runtime.NewScheme()
	require.NoError(t, corev1.AddToScheme(scheme))

	c := &clients.Clients{
		Client: fake.NewClientBuilder().WithScheme(scheme).Build(),
	}

	err := NewFanout(c, 1).Notify(context.Background(), &models.Notification{
		MonitorName: "web",
		Namespace:   "ops",
		MatchLabels: map[string]string{"team": "ops"},
		OldState:    v1alpha1.MonitorStateNoData,
		NewState:    v1alpha1.MonitorStateHealthy,
	})
	require.Error(t, err)
}

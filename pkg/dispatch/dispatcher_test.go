package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/kastlewatch/kastlewatch/pkg/apis/kastlewatch/v1alpha1"
	"github.com/kastlewatch/kastlewatch/pkg/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type received struct {
	path    string
	monitor v1alpha1.TCPMonitor
}

func newTCPMonitor() *v1alpha1.TCPMonitor {
	return &v1alpha1.TCPMonitor{
		ObjectMeta: metav1.ObjectMeta{Name: "db", Namespace: "ops"},
		Spec: v1alpha1.TCPMonitorSpec{
			Host: "db.example",
			Port: 5432,
			MonitorConfig: v1alpha1.MonitorConfig{
				Timeout:          1,
				PollingFrequency: 10,
			},
		},
	}
}

func TestHTTPDispatcher_Dispatch(t *testing.T) {
	requests := make(chan received, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var m v1alpha1.TCPMonitor
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		requests <- received{path: r.URL.Path, monitor: m}
	}))
	defer server.Close()

	d := NewHTTPDispatcher(Options{BaseURL: server.URL + "/", Workers: 1})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = d.Start(ctx)
	}()

	monitor := newTCPMonitor()

	require.True(t, d.Dispatch(resource.TCPMonitorKind, monitor))

	select {
	case r := <-requests:
		assert.Equal(t, "/v1alpha1/tcpmonitor", r.path)
		assert.Equal(t, "kastlewatch.io/v1alpha1", r.monitor.APIVersion)
		assert.Equal(t, "TCPMonitor", r.monitor.Kind)
		assert.Equal(t, "db", r.monitor.Name)
		assert.Empty(t, cmp.Diff(monitor.Spec, r.monitor.Spec))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for submission")
	}

	// The dispatched object itself is left untouched.
	assert.Empty(t, monitor.Kind)
}

func TestHTTPDispatcher_DropsWhenQueueIsFull(t *testing.T) {
	d := NewHTTPDispatcher(Options{BaseURL: "http://worker", QueueSize: 1})

	assert.True(t, d.Dispatch(resource.TCPMonitorKind, newTCPMonitor()))
	assert.False(t, d.Dispatch(resource.TCPMonitorKind, newTCPMonitor()))
}

func TestHTTPDispatcher_send(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		expectError bool
	}{
		{
			name:   "accepted",
			status: http.StatusOK,
		},
		{
			name:        "queue full at worker",
			status:      http.StatusServiceUnavailable,
			expectError: true,
		},
		{
			name:        "bad request",
			status:      http.StatusBadRequest,
			expectError: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(test.status)
			}))
			defer server.Close()

			d := NewHTTPDispatcher(Options{BaseURL: server.URL})

			err := d.send(context.Background(), request{kind: resource.TCPMonitorKind, monitor: newTCPMonitor()})
			if test.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestHTTPDispatcher_sendUnreachableWorker(t *testing.T) {
	d := NewHTTPDispatcher(Options{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})

	err := d.send(context.Background(), request{kind: resource.HTTPMonitorKind, monitor: &v1alpha1.HTTPMonitor{}})
	require.Error(t, err)
}

package worker

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kastlewatch/kastlewatch/pkg/apis/kastlewatch/v1alpha1"
	"github.com/kastlewatch/kastlewatch/pkg/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fakeSubmitter struct {
	mock.Mock
}

func (s *fakeSubmitter) Submit(monitor resource.Checkable) bool {
	args := s.Called(monitor)

	return args.Bool(0)
}

func TestServer(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		setup          func(*fakeSubmitter)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "healthz",
			method:         http.MethodGet,
			path:           "/healthz",
			expectedStatus: http.StatusOK,
			expectedBody:   "OK",
		},
		{
			name:           "readyz",
			method:         http.MethodGet,
			path:           "/readyz",
			expectedStatus: http.StatusOK,
			expectedBody:   "OK",
		},
		{
			name:   "tcp monitor is submitted",
			method: http.MethodPost,
			path:   "/v1alpha1/tcpmonitor",
			body: `{"apiVersion":"kastlewatch.io/v1alpha1","kind":"TCPMonitor",
				"metadata":{"name":"db","namespace":"ops"},
				"spec":{"host":"db.example","port":5432,"monitorConfig":{"timeout":1,"retries":0,"pollingFrequency":10}},
				"status":{"state":"Critical"}}`,
			setup: func(s *fakeSubmitter) {
				s.On("Submit", mock.MatchedBy(func(m resource.Checkable) bool {
					tcp, ok := m.(*v1alpha1.TCPMonitor)
					return ok &&
						tcp.Name == "db" &&
						tcp.Spec.Port == 5432 &&
						tcp.Spec.MonitorConfig.PollingFrequency == 10 &&
						v1alpha1.StateOf(tcp.Status) == v1alpha1.MonitorStateCritical
				})).Return(true)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "http monitor is submitted",
			method: http.MethodPost,
			path:   "/v1alpha1/httpmonitor",
			body: `{"metadata":{"name":"web","namespace":"ops"},
				"spec":{"url":"https://example.com","method":"GET","monitorConfig":{"timeout":1,"retries":0,"pollingFrequency":10}}}`,
			setup: func(s *fakeSubmitter) {
				s.On("Submit", mock.MatchedBy(func(m resource.Checkable) bool {
					h, ok := m.(*v1alpha1.HTTPMonitor)
					return ok && h.Spec.URL == "https://example.com"
				})).Return(true)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "malformed json is rejected",
			method:         http.MethodPost,
			path:           "/v1alpha1/tcpmonitor",
			body:           `{"spec":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "full queue",
			method: http.MethodPost,
			path:   "/v1alpha1/tcpmonitor",
			body:   `{"metadata":{"name":"db"},"spec":{"host":"db","port":1,"monitorConfig":{"timeout":1,"pollingFrequency":1}}}`,
			setup: func(s *fakeSubmitter) {
				s.On("Submit", mock.Anything).Return(false)
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "notifiers have no worker route",
			method:         http.MethodPost,
			path:           "/v1alpha1/discordnotifier",
			body:           `{}`,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "metrics",
			method:         http.MethodGet,
			path:           "/metrics",
			expectedStatus: http.StatusOK,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			submitter := &fakeSubmitter{}

			if test.setup != nil {
				test.setup(submitter)
			}

			server := NewServer(submitter)

			req := httptest.NewRequest(test.method, test.path, strings.NewReader(test.body))
			req.Header.Set("Content-Type", "application/json")

			rec := httptest.NewRecorder()

			server.Handler().ServeHTTP(rec, req)

			assert.Equal(t, test.expectedStatus, rec.Code)

			if test.expectedBody != "" {
				assert.Equal(t, test.expectedBody, rec.Body.String())
			}

			submitter.AssertExpectations(t)
		})
	}
}

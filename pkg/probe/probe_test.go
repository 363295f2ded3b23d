package probe

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/wait"
)

func init() {
	RetryBackoff = wait.Backoff{Duration: time.Millisecond, Factor: 1}
}

func TestTCP(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	port := int32(l.Addr().(*net.TCPAddr).Port)

	assert.True(t, TCP(context.Background(), "127.0.0.1", port, time.Second))

	closed, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	closedPort := int32(closed.Addr().(*net.TCPAddr).Port)
	require.NoError(t, closed.Close())

	assert.False(t, TCP(context.Background(), "127.0.0.1", closedPort, time.Second))
}

func TestHTTP(t *testing.T) {
	var receivedBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		receivedBody = string(body)

		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/created":
			w.WriteHeader(http.StatusCreated)
		case "/redirect":
			w.WriteHeader(http.StatusNotModified)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	tests := []struct {
		name        string
		req         HTTPRequest
		expected    bool
		expectedErr bool
	}{
		{
			name:     "2xx is accepted by default",
			req:      HTTPRequest{Method: http.MethodGet, URL: server.URL + "/created"},
			expected: true,
		},
		{
			name:     "404 is rejected by default",
			req:      HTTPRequest{Method: http.MethodGet, URL: server.URL + "/missing"},
			expected: false,
		},
		{
			name:     "explicitly allowed status code",
			req:      HTTPRequest{Method: http.MethodGet, URL: server.URL + "/missing", AllowedStatusCodes: []int32{404}},
			expected: true,
		},
		{
			name:     "2xx not in allowed set",
			req:      HTTPRequest{Method: http.MethodGet, URL: server.URL + "/ok", AllowedStatusCodes: []int32{304}},
			expected: false,
		},
		{
			name:     "3xx in allowed set",
			req:      HTTPRequest{Method: http.MethodGet, URL: server.URL + "/redirect", AllowedStatusCodes: []int32{304}},
			expected: true,
		},
		{
			name:     "post with body",
			req:      HTTPRequest{Method: http.MethodPost, URL: server.URL + "/ok", Body: []byte("ping")},
			expected: true,
		},
		{
			name:     "unreachable target is not an error",
			req:      HTTPRequest{Method: http.MethodGet, URL: "http://127.0.0.1:1/"},
			expected: false,
		},
		{
			name:        "request that cannot be built",
			req:         HTTPRequest{Method: "BAD METHOD", URL: server.URL},
			expectedErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			receivedBody = ""

			ok, err := HTTP(context.Background(), &http.Client{Timeout: time.Second}, test.req)
			if test.expectedErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.expected, ok)

			if len(test.req.Body) > 0 {
				assert.Equal(t, string(test.req.Body), receivedBody)
			}
		})
	}
}

func TestStatusAccepted(t *testing.T) {
	assert.True(t, StatusAccepted(200, nil))
	assert.True(t, StatusAccepted(299, nil))
	assert.False(t, StatusAccepted(300, nil))
	assert.False(t, StatusAccepted(199, nil))
	assert.True(t, StatusAccepted(503, []int32{200, 503}))
	assert.False(t, StatusAccepted(200, []int32{503}))
}

func TestDecodeBody(t *testing.T) {
	body, err := DecodeBody("aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), body)

	body, err = DecodeBody("")
	require.NoError(t, err)
	assert.Empty(t, body)

	_, err = DecodeBody("not base64!")
	require.Error(t, err)
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name             string
		retries          int32
		results          []bool
		err              error
		expected         bool
		expectedErr      bool
		expectedAttempts int
	}{
		{
			name:             "success on first attempt",
			retries:          3,
			results:          []bool{true},
			expected:         true,
			expectedAttempts: 1,
		},
		{
			name:             "success after retries",
			retries:          3,
			results:          []bool{false, false, true},
			expected:         true,
			expectedAttempts: 3,
		},
		{
			name:             "exhausted retries",
			retries:          2,
			results:          []bool{false, false, false, true},
			expected:         false,
			expectedAttempts: 3,
		},
		{
			name:             "no retries",
			retries:          0,
			results:          []bool{false, true},
			expected:         false,
			expectedAttempts: 1,
		},
		{
			name:             "error aborts",
			retries:          3,
			err:              errors.New("boom"),
			expectedErr:      true,
			expectedAttempts: 1,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			attempts := 0

			ok, err := Retry(context.Background(), test.retries, func(context.Context) (bool, error) {
				attempts++

				if test.err != nil {
					return false, test.err
				}

				return test.results[attempts-1], nil
			})

			if test.expectedErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, test.expected, ok)
			}

			assert.Equal(t, test.expectedAttempts, attempts)
		})
	}
}

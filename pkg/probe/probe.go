// Package probe contains the network checks that back the monitor kinds.
// Probes never fail on an unreachable target: unreachable is a valid
// result. Errors are reserved for probes that could not be executed at all.
package probe

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/wait"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
)

var log = logf.Log.WithName("probe")

// maxDrainBytes limits how much of a response body is read before the
// connection is released.
const maxDrainBytes = 64 << 10

// RetryBackoff is the backoff between two attempts of the same check.
var RetryBackoff = wait.Backoff{
	Duration: 500 * time.Millisecond,
	Factor:   2,
	Jitter:   0.1,
	Cap:      5 * time.Second,
}

// TCP reports whether a TCP connection to host:port can be established
// within timeout.
func TCP(ctx context.Context, host string, port int32, timeout time.Duration) bool {
	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))

	dialer := &net.Dialer{Timeout: timeout}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		log.V(1).Info("tcp connection failed", "address", addr, "error", err.Error())
		return false
	}

	_ = conn.Close()

	return true
}

// HTTPRequest describes a single HTTP check.
type HTTPRequest struct {
	Method string
	URL    string
	Body   []byte

	// AllowedStatusCodes is the set of response codes considered healthy.
	// Any 2xx code is accepted if empty.
	AllowedStatusCodes []int32
}

// HTTP performs req with client and reports whether the response status is
// acceptable. Transport failures (timeouts, refused connections, TLS errors)
// yield false. An error is only returned if the request cannot be built.
func HTTP(ctx context.Context, client *http.Client, req HTTPRequest) (bool, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return false, errors.Wrapf(err, "failed to build %s request for %s", req.Method, req.URL)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		log.V(1).Info("http request failed", "method", req.Method, "url", req.URL, "error", err.Error())
		return false, nil
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	return StatusAccepted(resp.StatusCode, req.AllowedStatusCodes), nil
}

// StatusAccepted reports whether code is contained in allowed, or, if
// allowed is empty, whether code is a 2xx code.
func StatusAccepted(code int, allowed []int32) bool {
	if len(allowed) == 0 {
		return code >= 200 && code < 300
	}

	for _, c := range allowed {
		if int(c) == code {
			return true
		}
	}

	return false
}

// DecodeBody decodes a standard base64 encoded request body.
func DecodeBody(data string) ([]byte, error) {
	body, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, errors.Wrap(err, "invalid base64 data")
	}

	return body, nil
}

// Retry runs fn up to retries+1 times until it reports success. Attempts
// are spaced by RetryBackoff. The result is false if no attempt succeeded
// or ctx was cancelled. Errors returned by fn abort the retries.
func Retry(ctx context.Context, retries int32, fn func(context.Context) (bool, error)) (bool, error) {
	backoff := RetryBackoff
	backoff.Steps = int(retries) + 1

	attempt := 0

	err := wait.ExponentialBackoffWithContext(ctx, backoff, func(ctx context.Context) (bool, error) {
		attempt++

		ok, err := fn(ctx)
		if err == nil && !ok && attempt < backoff.Steps {
			log.V(1).Info("check attempt failed, retrying", "attempt", attempt, "attempts", backoff.Steps)
		}

		return ok, err
	})

	switch {
	case err == nil:
		return true, nil
	case wait.Interrupted(err):
		return false, nil
	default:
		return false, err
	}
}

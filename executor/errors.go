package executor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// TimeoutError means the target did not produce a response within the
// configured timeout.
type TimeoutError struct {
	URL     string
	Timeout time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out after %s", e.URL, e.Timeout)
}

// ConnectionError means the connection could not be established at all:
// connection refused, DNS failure, unreachable host.
type ConnectionError struct {
	URL string
	Err error
}

func (e ConnectionError) Error() string {
	return fmt.Sprintf("connection to %s failed: %s", e.URL, e.Err)
}

func (e ConnectionError) Unwrap() error { return e.Err }

// TransportError is any other network-layer failure while sending the request
// or reading the response.
type TransportError struct {
	URL string
	Err error
}

func (e TransportError) Error() string {
	return fmt.Sprintf("transport error for %s: %s", e.URL, e.Err)
}

func (e TransportError) Unwrap() error { return e.Err }

func classifyError(url string, timeout time.Duration, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutError{URL: url, Timeout: timeout}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return TimeoutError{URL: url, Timeout: timeout}
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ConnectionError{URL: url, Err: dnsErr}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ConnectionError{URL: url, Err: opErr}
	}
	return TransportError{URL: url, Err: err}
}

package executor

import (
	"bytes"
	"context"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/restcheck/restcheck/testdef"
)

// DefaultTimeout bounds a request when the test case does not declare its own
// timeout.
const DefaultTimeout = time.Second * 30

// Response is the raw descriptor of one HTTP response, captured for
// validation.
type Response struct {
	Status  int
	Header  http.Header
	Body    []byte
	Elapsed time.Duration
}

func (r *Response) ElapsedMS() float64 {
	return float64(r.Elapsed) / float64(time.Millisecond)
}

// Sender is the capability of issuing the request described by a test case.
// HTTPSender is the real-network implementation; tests substitute a
// fixed-response double. Implementations must issue exactly one request per
// call and must not retry.
type Sender interface {
	Send(ctx context.Context, tc *testdef.TestCase) (*Response, error)
}

// HTTPSender issues real HTTP requests. A single instance can be shared
// across test cases; it holds no per-case state.
type HTTPSender struct {
	client         *http.Client
	defaultTimeout time.Duration
}

func NewHTTPSender(defaultTimeout time.Duration) *HTTPSender {
	return NewHTTPSenderWithClient(http.DefaultClient, defaultTimeout)
}

// NewHTTPSenderWithClient uses the given client for requests. Tests use this
// with a handler-backed client so no network is involved.
func NewHTTPSenderWithClient(client *http.Client, defaultTimeout time.Duration) *HTTPSender {
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultTimeout
	}
	return &HTTPSender{client: client, defaultTimeout: defaultTimeout}
}

// Send issues the one request the case declares, bounded by the case timeout
// or the sender's default. Failures are returned as TimeoutError,
// ConnectionError, or TransportError; any HTTP status, including 4xx and 5xx,
// is a successful send.
func (s *HTTPSender) Send(ctx context.Context, tc *testdef.TestCase) (*Response, error) {
	timeout := s.defaultTimeout
	if tc.TimeoutMS.IsDefined() {
		timeout = time.Duration(tc.TimeoutMS.IntValue()) * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := s.makeRequest(ctx, tc)
	if err != nil {
		return nil, TransportError{URL: tc.URL, Err: err}
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return nil, classifyError(tc.URL, timeout, err)
	}

	var body []byte
	if resp.Body != nil {
		body, err = ioutil.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, classifyError(tc.URL, timeout, err)
		}
	}

	return &Response{
		Status:  resp.StatusCode,
		Header:  resp.Header,
		Body:    body,
		Elapsed: elapsed,
	}, nil
}

func (s *HTTPSender) makeRequest(ctx context.Context, tc *testdef.TestCase) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if tc.HasBody() {
		bodyReader = bytes.NewReader(tc.Body)
	}
	var req *http.Request
	var err error
	if bodyReader == nil {
		req, err = http.NewRequestWithContext(ctx, string(tc.Method), tc.URL, nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, string(tc.Method), tc.URL, bodyReader)
	}
	if err != nil {
		return nil, err
	}
	for name, value := range tc.Headers {
		req.Header.Set(name, value)
	}
	if tc.BodyIsJSON && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

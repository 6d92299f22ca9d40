// Package mockapi provides the fixed-response test doubles used to exercise
// the harness without a real target API: an in-process Sender double, and a
// stub HTTP server with programmable routes that records what it receives.
package mockapi

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/restcheck/restcheck/logging"
)

const incomingRequestBuffer = 100

// RequestInfo describes one request received by the stub server.
type RequestInfo struct {
	Method  string
	Path    string
	Headers http.Header
	Body    []byte
}

type routeKey struct {
	method string
	path   string
}

// Server is a stub API backed by an httptest server. Routes are registered
// with fixed responses; anything else gets a 404. Received requests are
// pushed to a buffered channel so tests can assert on what actually arrived.
type Server struct {
	server   *httptest.Server
	routes   map[routeKey]http.Handler
	requests chan RequestInfo
	logger   logging.Logger
	lock     sync.Mutex
}

func NewServer(logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NullLogger()
	}
	s := &Server{
		routes:   make(map[routeKey]http.Handler),
		requests: make(chan RequestInfo, incomingRequestBuffer),
		logger:   logger,
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	return s
}

func (s *Server) BaseURL() string {
	return s.server.URL
}

// Handle registers a fixed response for a method and path.
func (s *Server) Handle(method, path string, status int, headers http.Header, body []byte) {
	s.setRoute(method, path, httphelpers.HandlerWithResponse(status, headers, body))
}

// HandleJSON registers a fixed response whose body is the JSON encoding of
// content, served with an application/json content type.
func (s *Server) HandleJSON(method, path string, status int, content interface{}) {
	data, err := json.Marshal(content)
	if err != nil {
		panic(err) // test setup bug
	}
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	s.setRoute(method, path, httphelpers.HandlerWithResponse(status, headers, data))
}

// HandleStatus registers a fixed response with no body.
func (s *Server) HandleStatus(method, path string, status int) {
	s.setRoute(method, path, httphelpers.HandlerWithStatus(status))
}

func (s *Server) setRoute(method, path string, handler http.Handler) {
	s.lock.Lock()
	s.routes[routeKey{method: method, path: path}] = handler
	s.lock.Unlock()
}

func (s *Server) serveHTTP(w http.ResponseWriter, req *http.Request) {
	var body []byte
	if req.Body != nil {
		data, err := ioutil.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			s.logger.Printf("Unexpected error trying to read request body: %s", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body = data
	}

	info := RequestInfo{
		Method:  req.Method,
		Path:    req.URL.Path,
		Headers: req.Header,
		Body:    body,
	}
	select { // non-blocking push
	case s.requests <- info:
		break
	default:
		s.logger.Printf("Incoming request channel was full for %s", req.URL)
	}

	s.lock.Lock()
	handler := s.routes[routeKey{method: req.Method, path: req.URL.Path}]
	s.lock.Unlock()
	if handler == nil {
		s.logger.Printf("Received request for unrecognized route %s %s", req.Method, req.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	handler.ServeHTTP(w, req)
}

// AwaitRequest waits for the next request received by the server.
func (s *Server) AwaitRequest(timeout time.Duration) (RequestInfo, bool) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	select {
	case info := <-s.requests:
		return info, true
	case <-deadline.C:
		return RequestInfo{}, false
	}
}

func (s *Server) Close() {
	s.server.Close()
}

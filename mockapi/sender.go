package mockapi

import (
	"context"
	"fmt"
	"sync"

	"github.com/restcheck/restcheck/executor"
	"github.com/restcheck/restcheck/testdef"
)

// FixedResponseSender is an in-process executor.Sender double. Responses and
// errors are scripted per case name; it never touches the network.
type FixedResponseSender struct {
	responses map[string]*executor.Response
	errs      map[string]error
	calls     []string
	lock      sync.Mutex
}

func NewFixedResponseSender() *FixedResponseSender {
	return &FixedResponseSender{
		responses: make(map[string]*executor.Response),
		errs:      make(map[string]error),
	}
}

// Respond scripts the response for the named case.
func (s *FixedResponseSender) Respond(caseName string, resp *executor.Response) {
	s.lock.Lock()
	s.responses[caseName] = resp
	s.lock.Unlock()
}

// FailWith scripts a send failure for the named case.
func (s *FixedResponseSender) FailWith(caseName string, err error) {
	s.lock.Lock()
	s.errs[caseName] = err
	s.lock.Unlock()
}

func (s *FixedResponseSender) Send(ctx context.Context, tc *testdef.TestCase) (*executor.Response, error) {
	s.lock.Lock()
	s.calls = append(s.calls, tc.Name)
	err := s.errs[tc.Name]
	resp := s.responses[tc.Name]
	s.lock.Unlock()

	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("no scripted response for case %q", tc.Name)
	}
	return resp, nil
}

// Calls returns the case names sent so far, in call order.
func (s *FixedResponseSender) Calls() []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]string(nil), s.calls...)
}

package runner

import "github.com/restcheck/restcheck/logging"

// TestLogger receives progress callbacks as the runner works through the
// declared cases, so the surrounding tool can show output in real time.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, failed bool, debugOutput logging.CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                                {}
func (n nullTestLogger) TestError(TestID, error)                           {}
func (n nullTestLogger) TestFinished(TestID, bool, logging.CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                        {}

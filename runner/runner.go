// Package runner executes declared test cases strictly sequentially:
// exactly one in-flight request at a time, results recorded in declaration
// order. Cases are independent and read-only, so nothing is shared between
// them; per-case failures of any kind are recorded and never abort the run.
package runner

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/restcheck/restcheck/executor"
	"github.com/restcheck/restcheck/logging"
	"github.com/restcheck/restcheck/reporter"
	"github.com/restcheck/restcheck/testdef"
	"github.com/restcheck/restcheck/validator"
)

const maxBodyDebugLength = 2000

// TestID identifies a test case within a run, as a suite-name/case-name path.
type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// Run executes every case of every suite in declaration order and returns the
// aggregated results. A nil filter runs everything; a nil testLogger is
// quietly replaced with a no-op one.
func Run(
	ctx context.Context,
	suites []*testdef.Suite,
	sender executor.Sender,
	filter Filter,
	testLogger TestLogger,
) reporter.Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	rep := reporter.New()
	for _, suite := range suites {
		for i := range suite.Cases {
			tc := &suite.Cases[i]
			id := TestID{Path: []string{suite.Name, tc.Name}}
			if filter != nil && !filter(id) {
				testLogger.TestSkipped(id, "excluded by filter parameters")
				continue
			}
			testLogger.TestStarted(id)
			debugLogger := &logging.CapturingLogger{}
			result := runCase(ctx, tc, sender, debugLogger)
			rep.Record(result)
			if !result.Passed {
				testLogger.TestError(id, errors.New(result.FailureReason))
			}
			testLogger.TestFinished(id, !result.Passed, debugLogger.Output())
		}
	}
	return rep.Results()
}

// runCase does the whole per-case sequence: structural validation, one
// request, response validation. Every outcome, including a configuration
// error or a transport failure, becomes exactly one TestResult.
func runCase(
	ctx context.Context,
	tc *testdef.TestCase,
	sender executor.Sender,
	debugLogger logging.Logger,
) reporter.TestResult {
	result := reporter.TestResult{Case: tc, Timestamp: time.Now()}

	if err := tc.Validate(); err != nil {
		result.FailureReason = err.Error()
		return result
	}

	debugLogger.Printf("%s", executor.CurlCommand(tc))
	resp, err := sender.Send(ctx, tc)
	if err != nil {
		result.FailureReason = err.Error()
		return result
	}
	result.ActualStatus = resp.Status
	result.Elapsed = resp.Elapsed
	debugLogger.Printf("response status %d in %.1fms", resp.Status, resp.ElapsedMS())
	if len(resp.Body) > 0 {
		debugLogger.Printf("response body: %s", truncateForDebug(resp.Body))
	}

	verdict := validator.Validate(resp, tc)
	result.Passed = verdict.Passed
	result.FailureReason = verdict.Reason
	return result
}

func truncateForDebug(body []byte) string {
	if len(body) <= maxBodyDebugLength {
		return string(body)
	}
	return string(body[:maxBodyDebugLength]) + "...(truncated)"
}

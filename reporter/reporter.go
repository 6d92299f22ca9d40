// Package reporter aggregates per-case outcomes into an ordered result set
// and renders console and JSON reports. It is purely a sink: it never retries
// or filters, and results come out in exactly the order they were recorded.
package reporter

import (
	"time"

	"github.com/restcheck/restcheck/testdef"
)

// TestResult is the outcome record for one executed test case. It is created
// once per case and never mutated afterwards.
type TestResult struct {
	// Case is the test case that produced this result.
	Case *testdef.TestCase

	// ActualStatus is the HTTP status received, or zero if no response was
	// received at all.
	ActualStatus int

	// Elapsed is the wall time of the request, or zero if none was issued.
	Elapsed time.Duration

	Passed bool

	// FailureReason describes the single first violation, the transport
	// failure, or the configuration error. Empty when Passed is true.
	FailureReason string

	// Timestamp is when the case started.
	Timestamp time.Time
}

func (r TestResult) ElapsedMS() float64 {
	return float64(r.Elapsed) / float64(time.Millisecond)
}

// Results is the complete outcome of a run. Tests holds one entry per
// executed case in declaration order; Failures holds the failed subset in the
// same order.
type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Reporter accumulates results as the runner produces them. It is not
// safe for concurrent use; the runner records strictly sequentially.
type Reporter struct {
	results []TestResult
	passed  int
	failed  int
}

func New() *Reporter {
	return &Reporter{}
}

func (r *Reporter) Record(result TestResult) {
	r.results = append(r.results, result)
	if result.Passed {
		r.passed++
	} else {
		r.failed++
	}
}

func (r *Reporter) PassedCount() int { return r.passed }
func (r *Reporter) FailedCount() int { return r.failed }
func (r *Reporter) TotalCount() int  { return r.passed + r.failed }

func (r *Reporter) Results() Results {
	ret := Results{Tests: append([]TestResult(nil), r.results...)}
	for _, result := range ret.Tests {
		if !result.Passed {
			ret.Failures = append(ret.Failures, result)
		}
	}
	return ret
}

package runner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restcheck/restcheck/executor"
	"github.com/restcheck/restcheck/logging"
	"github.com/restcheck/restcheck/mockapi"
	"github.com/restcheck/restcheck/testdef"
)

func makeSuite(name string, cases ...testdef.TestCase) *testdef.Suite {
	return &testdef.Suite{Name: name, Cases: cases}
}

func getCase(name, url string, expectedStatus int) testdef.TestCase {
	return testdef.TestCase{
		Name:           name,
		Method:         testdef.GET,
		URL:            url,
		ExpectedStatus: expectedStatus,
	}
}

func scriptedResponse(status int, body string) *executor.Response {
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	return &executor.Response{
		Status:  status,
		Header:  headers,
		Body:    []byte(body),
		Elapsed: time.Millisecond * 15,
	}
}

// recordingTestLogger lets tests assert on the progress callbacks.
type recordingTestLogger struct {
	events []string
}

func (l *recordingTestLogger) TestStarted(id TestID) {
	l.events = append(l.events, "started "+id.String())
}

func (l *recordingTestLogger) TestError(id TestID, err error) {
	l.events = append(l.events, fmt.Sprintf("error %s: %s", id, err))
}

func (l *recordingTestLogger) TestFinished(id TestID, failed bool, debugOutput logging.CapturedOutput) {
	l.events = append(l.events, fmt.Sprintf("finished %s failed=%t", id, failed))
}

func (l *recordingTestLogger) TestSkipped(id TestID, reason string) {
	l.events = append(l.events, "skipped "+id.String())
}

func TestRunPassingCaseWithSchema(t *testing.T) {
	sender := mockapi.NewFixedResponseSender()
	sender.Respond("get user", scriptedResponse(200, `{"id":1,"name":"Ada"}`))

	tc := getCase("get user", "http://fake/users/1", 200)
	tc.ExpectedSchema = &testdef.Schema{Fields: []testdef.Field{
		{Name: "id", Type: testdef.NumberType},
		{Name: "name", Type: testdef.StringType, NonEmpty: true},
	}}

	results := Run(context.Background(), []*testdef.Suite{makeSuite("s", tc)}, sender, nil, nil)
	require.Len(t, results.Tests, 1)
	assert.True(t, results.Tests[0].Passed)
	assert.Equal(t, 200, results.Tests[0].ActualStatus)
	assert.True(t, results.OK())
}

func TestRunStatusMismatch(t *testing.T) {
	sender := mockapi.NewFixedResponseSender()
	sender.Respond("missing user", scriptedResponse(404, `{}`))

	suite := makeSuite("s", getCase("missing user", "http://fake/users/999999", 200))
	results := Run(context.Background(), []*testdef.Suite{suite}, sender, nil, nil)

	require.Len(t, results.Failures, 1)
	assert.Equal(t, "status mismatch: expected 200 got 404", results.Failures[0].FailureReason)
}

func TestRunContinuesPastTransportFailure(t *testing.T) {
	sender := mockapi.NewFixedResponseSender()
	sender.FailWith("unreachable", executor.ConnectionError{
		URL: "http://unreachable-host/x", Err: errors.New("connection refused"),
	})
	sender.Respond("reachable", scriptedResponse(200, `{}`))

	suite := makeSuite("s",
		getCase("unreachable", "http://unreachable-host/x", 200),
		getCase("reachable", "http://fake/ok", 200),
	)
	results := Run(context.Background(), []*testdef.Suite{suite}, sender, nil, nil)

	require.Len(t, results.Tests, 2)
	assert.False(t, results.Tests[0].Passed)
	assert.Contains(t, results.Tests[0].FailureReason, "connection to http://unreachable-host/x failed")
	assert.Equal(t, 0, results.Tests[0].ActualStatus)
	assert.True(t, results.Tests[1].Passed)
	assert.Equal(t, []string{"unreachable", "reachable"}, sender.Calls())
}

func TestRunTimeoutFailureIsRecordedAndRunProceeds(t *testing.T) {
	sender := mockapi.NewFixedResponseSender()
	sender.FailWith("slow", executor.TimeoutError{URL: "http://fake/slow", Timeout: time.Second})
	sender.Respond("fast", scriptedResponse(200, `{}`))

	suite := makeSuite("s",
		getCase("slow", "http://fake/slow", 200),
		getCase("fast", "http://fake/fast", 200),
	)
	results := Run(context.Background(), []*testdef.Suite{suite}, sender, nil, nil)

	require.Len(t, results.Tests, 2)
	assert.Contains(t, results.Tests[0].FailureReason, "timed out")
	assert.True(t, results.Tests[1].Passed)
}

func TestRunInvalidCaseNeverReachesTheSender(t *testing.T) {
	sender := mockapi.NewFixedResponseSender()
	sender.Respond("valid", scriptedResponse(200, `{}`))

	bad := getCase("bad method", "http://fake/x", 200)
	bad.Method = testdef.Method("FETCH")

	suite := makeSuite("s", bad, getCase("valid", "http://fake/y", 200))
	results := Run(context.Background(), []*testdef.Suite{suite}, sender, nil, nil)

	require.Len(t, results.Tests, 2)
	assert.False(t, results.Tests[0].Passed)
	assert.Contains(t, results.Tests[0].FailureReason, "unsupported method")
	assert.True(t, results.Tests[1].Passed)
	assert.Equal(t, []string{"valid"}, sender.Calls(), "no request may be attempted for an invalid case")
}

func TestRunResultsKeepDeclarationOrder(t *testing.T) {
	sender := mockapi.NewFixedResponseSender()
	var cases []testdef.TestCase
	for i := 1; i <= 5; i++ {
		name := fmt.Sprintf("case-%d", i)
		sender.Respond(name, scriptedResponse(200, `{}`))
		cases = append(cases, getCase(name, "http://fake/"+name, 200))
	}

	results := Run(context.Background(), []*testdef.Suite{makeSuite("s", cases...)}, sender, nil, nil)
	require.Len(t, results.Tests, 5)
	for i, r := range results.Tests {
		assert.Equal(t, fmt.Sprintf("case-%d", i+1), r.Case.Name)
	}
}

func TestRunFilterSkipsCases(t *testing.T) {
	sender := mockapi.NewFixedResponseSender()
	sender.Respond("keep", scriptedResponse(200, `{}`))
	sender.Respond("drop", scriptedResponse(200, `{}`))

	var filters RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("drop"))

	logger := &recordingTestLogger{}
	suite := makeSuite("s", getCase("keep", "http://fake/keep", 200), getCase("drop", "http://fake/drop", 200))
	results := Run(context.Background(), []*testdef.Suite{suite}, sender, filters.AsFilter, logger)

	require.Len(t, results.Tests, 1)
	assert.Equal(t, "keep", results.Tests[0].Case.Name)
	assert.Contains(t, logger.events, "skipped s/drop")
	assert.Equal(t, []string{"keep"}, sender.Calls())
}

func TestRunLoggerSeesFailureReason(t *testing.T) {
	sender := mockapi.NewFixedResponseSender()
	sender.Respond("broken", scriptedResponse(500, `{}`))

	logger := &recordingTestLogger{}
	suite := makeSuite("s", getCase("broken", "http://fake/broken", 200))
	Run(context.Background(), []*testdef.Suite{suite}, sender, nil, logger)

	assert.Equal(t, []string{
		"started s/broken",
		"error s/broken: status mismatch: expected 200 got 500",
		"finished s/broken failed=true",
	}, logger.events)
}

func TestRunAgainstStubServer(t *testing.T) {
	server := mockapi.NewServer(nil)
	defer server.Close()
	server.HandleJSON("GET", "/users/1", 200, map[string]interface{}{"id": 1, "name": "Ada"})

	ok := getCase("get user", server.BaseURL()+"/users/1", 200)
	ok.ExpectedSchema = &testdef.Schema{Fields: []testdef.Field{
		{Name: "id", Type: testdef.NumberType},
		{Name: "name", Type: testdef.StringType, NonEmpty: true},
	}}
	missing := getCase("get missing user", server.BaseURL()+"/users/999999", 200)

	sender := executor.NewHTTPSender(time.Second * 5)
	suite := makeSuite("live", ok, missing)
	results := Run(context.Background(), []*testdef.Suite{suite}, sender, nil, nil)

	require.Len(t, results.Tests, 2)
	assert.True(t, results.Tests[0].Passed)
	assert.False(t, results.Tests[1].Passed)
	assert.Equal(t, "status mismatch: expected 200 got 404", results.Tests[1].FailureReason)
}

// Package validator checks a captured HTTP response against the expectations
// a test case declares. Checks run in a fixed order and stop at the first
// violation, so every failed case has exactly one deterministic reason.
package validator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/restcheck/restcheck/executor"
	"github.com/restcheck/restcheck/testdef"
)

// Verdict is the outcome of validating one response. Reason is empty when
// Passed is true.
type Verdict struct {
	Passed bool
	Reason string
}

func pass() Verdict { return Verdict{Passed: true} }

func fail(format string, args ...interface{}) Verdict {
	return Verdict{Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the response in order: status, expected headers, body
// schema, response-time bound. The status check short-circuits everything
// else, so a case that got the wrong status never reports a schema problem.
func Validate(resp *executor.Response, tc *testdef.TestCase) Verdict {
	if resp.Status != tc.ExpectedStatus {
		return fail("status mismatch: expected %d got %d", tc.ExpectedStatus, resp.Status)
	}
	if v := checkHeaders(resp, tc); !v.Passed {
		return v
	}
	if tc.ExpectedSchema != nil {
		if v := checkSchema(resp, tc.ExpectedSchema); !v.Passed {
			return v
		}
	}
	if tc.MaxTimeMS.IsDefined() {
		limit := time.Duration(tc.MaxTimeMS.IntValue()) * time.Millisecond
		if resp.Elapsed > limit {
			return fail("response took %.1fms, exceeding the limit of %dms",
				resp.ElapsedMS(), tc.MaxTimeMS.IntValue())
		}
	}
	return pass()
}

func checkHeaders(resp *executor.Response, tc *testdef.TestCase) Verdict {
	names := make([]string, 0, len(tc.ExpectedHeaders))
	for name := range tc.ExpectedHeaders {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		expected := tc.ExpectedHeaders[name]
		actual := resp.Header.Get(name)
		if actual == "" {
			return fail("missing response header %q", name)
		}
		if !strings.Contains(actual, expected) {
			return fail("header %q mismatch: expected %q got %q", name, expected, actual)
		}
	}
	return pass()
}

func checkSchema(resp *executor.Response, schema *testdef.Schema) Verdict {
	var body ldvalue.Value
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return fail("cannot parse response body as JSON: %s", err)
	}
	if schema.JSONSchema != "" {
		if v := checkJSONSchema(resp.Body, schema.JSONSchema); !v.Passed {
			return v
		}
	}
	if len(schema.Fields) > 0 {
		return checkFields(body, schema.Fields, "")
	}
	return pass()
}

func checkJSONSchema(body []byte, schemaDoc string) Verdict {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaDoc),
		gojsonschema.NewBytesLoader(body),
	)
	if err != nil {
		return fail("cannot evaluate JSON schema: %s", err)
	}
	if !result.Valid() {
		// report only the first error so the reason stays singular
		first := result.Errors()[0]
		return fail("schema violation at %s: %s", first.Field(), first.Description())
	}
	return pass()
}

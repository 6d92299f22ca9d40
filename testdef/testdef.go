package testdef

import (
	"fmt"
	"net/url"
	"regexp"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Method is an HTTP request method declared by a test case.
type Method string

const (
	GET     Method = "GET"
	POST    Method = "POST"
	PUT     Method = "PUT"
	PATCH   Method = "PATCH"
	DELETE  Method = "DELETE"
	HEAD    Method = "HEAD"
	OPTIONS Method = "OPTIONS"
)

var allMethods = []Method{GET, POST, PUT, PATCH, DELETE, HEAD, OPTIONS}

func (m Method) IsValid() bool {
	for _, known := range allMethods {
		if m == known {
			return true
		}
	}
	return false
}

// TestCase is the declarative description of one HTTP request to issue and the
// response it is expected to produce. Instances are built by the suite loader
// and must be treated as read-only afterwards; the runner never modifies them.
type TestCase struct {
	// Name identifies the case in logs and reports.
	Name string

	// Method is the HTTP method to use. It must be one of the supported methods.
	Method Method

	// URL is the absolute request URL. The suite loader resolves relative paths
	// against a base URL before constructing the case.
	URL string

	// Headers contains request headers to send exactly as declared.
	Headers map[string]string

	// Body is the raw request body, or nil for no body.
	Body []byte

	// BodyIsJSON indicates that Body was declared as structured data. If no
	// Content-Type header is declared, the executor adds application/json.
	BodyIsJSON bool

	// ExpectedStatus is the HTTP status the response must have.
	ExpectedStatus int

	// ExpectedHeaders, if non-empty, declares response headers that must be
	// present. A declared value matches if it is a substring of the actual
	// value, so "application/json" accepts "application/json; charset=utf-8".
	ExpectedHeaders map[string]string

	// ExpectedSchema, if non-nil, declares the required shape of the response
	// body.
	ExpectedSchema *Schema

	// TimeoutMS, if defined, overrides the executor's default request timeout
	// for this case.
	TimeoutMS ldvalue.OptionalInt

	// MaxTimeMS, if defined, makes the case fail when the response takes
	// longer than this many milliseconds.
	MaxTimeMS ldvalue.OptionalInt
}

func (tc *TestCase) HasBody() bool {
	return len(tc.Body) > 0
}

// ConfigurationError means a test case is structurally invalid and no request
// should be attempted for it. The runner records it as a failure for that case
// only; other cases still run.
type ConfigurationError struct {
	CaseName string
	Problem  string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("invalid test case %q: %s", e.CaseName, e.Problem)
}

// Validate checks the structural validity of the case. It is called by the
// runner before any request is issued.
func (tc *TestCase) Validate() error {
	if tc.Name == "" {
		return ConfigurationError{CaseName: tc.Name, Problem: "case has no name"}
	}
	if !tc.Method.IsValid() {
		return ConfigurationError{CaseName: tc.Name,
			Problem: fmt.Sprintf("unsupported method %q", string(tc.Method))}
	}
	u, err := url.Parse(tc.URL)
	if err != nil {
		return ConfigurationError{CaseName: tc.Name,
			Problem: fmt.Sprintf("malformed URL %q: %s", tc.URL, err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ConfigurationError{CaseName: tc.Name,
			Problem: fmt.Sprintf("URL %q is not an absolute http or https URL", tc.URL)}
	}
	if u.Host == "" {
		return ConfigurationError{CaseName: tc.Name,
			Problem: fmt.Sprintf("URL %q has no host", tc.URL)}
	}
	if tc.ExpectedStatus < 100 || tc.ExpectedStatus > 599 {
		return ConfigurationError{CaseName: tc.Name,
			Problem: fmt.Sprintf("expected status %d is not a valid HTTP status", tc.ExpectedStatus)}
	}
	if tc.TimeoutMS.IsDefined() && tc.TimeoutMS.IntValue() <= 0 {
		return ConfigurationError{CaseName: tc.Name,
			Problem: fmt.Sprintf("timeout of %dms is not positive", tc.TimeoutMS.IntValue())}
	}
	if tc.ExpectedSchema != nil {
		if err := validateSchema(tc.ExpectedSchema); err != nil {
			return ConfigurationError{CaseName: tc.Name, Problem: err.Error()}
		}
	}
	return nil
}

func validateSchema(s *Schema) error {
	return validateFields(s.Fields)
}

func validateFields(fields []Field) error {
	for _, f := range fields {
		if f.Name == "" {
			return fmt.Errorf("schema field has no name")
		}
		if !f.Type.IsValid() {
			return fmt.Errorf("schema field %q has unknown type %q", f.Name, string(f.Type))
		}
		if f.Pattern != "" {
			if _, err := regexp.Compile(f.Pattern); err != nil {
				return fmt.Errorf("schema field %q has invalid pattern: %s", f.Name, err)
			}
		}
		if err := validateFields(f.Fields); err != nil {
			return err
		}
	}
	return nil
}

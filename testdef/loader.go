package testdef

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
	"gopkg.in/yaml.v3"
)

// Suite is an ordered list of test cases loaded from one suite file. The
// declaration order of Cases is the execution and reporting order.
type Suite struct {
	Name  string
	Cases []TestCase
}

type suiteDef struct {
	Name  string    `yaml:"name"`
	Cases []caseDef `yaml:"cases"`
}

type caseDef struct {
	Name            string            `yaml:"name"`
	Method          string            `yaml:"method"`
	URL             string            `yaml:"url"`
	Headers         map[string]string `yaml:"headers"`
	Body            interface{}       `yaml:"body"`
	ExpectedStatus  int               `yaml:"expectedStatus"`
	ExpectedHeaders map[string]string `yaml:"expectedHeaders"`
	ExpectedSchema  *Schema           `yaml:"expectedSchema"`
	TimeoutMS       *int              `yaml:"timeoutMs"`
	MaxTimeMS       *int              `yaml:"maxTimeMs"`
}

// LoadSuiteFile reads and parses one YAML suite file. If baseURL is non-empty,
// case URLs beginning with "/" are resolved against it. Parsing is lenient
// about case contents: structural problems in an individual case are detected
// later by TestCase.Validate, so one bad case does not prevent the rest of the
// suite from running.
func LoadSuiteFile(path string, baseURL string) (*Suite, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	suite, err := ParseSuite(data, baseURL)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return suite, nil
}

// ParseSuite parses YAML suite data. See LoadSuiteFile.
func ParseSuite(data []byte, baseURL string) (*Suite, error) {
	var def suiteDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, err
	}
	if len(def.Cases) == 0 {
		return nil, fmt.Errorf("suite declares no test cases")
	}
	suite := &Suite{Name: def.Name}
	for _, cd := range def.Cases {
		tc, err := makeTestCase(cd, baseURL)
		if err != nil {
			return nil, err
		}
		suite.Cases = append(suite.Cases, tc)
	}
	return suite, nil
}

func makeTestCase(cd caseDef, baseURL string) (TestCase, error) {
	tc := TestCase{
		Name:            cd.Name,
		Method:          Method(strings.ToUpper(cd.Method)),
		URL:             resolveURL(cd.URL, baseURL),
		Headers:         cd.Headers,
		ExpectedStatus:  cd.ExpectedStatus,
		ExpectedHeaders: cd.ExpectedHeaders,
		ExpectedSchema:  cd.ExpectedSchema,
	}
	if cd.TimeoutMS != nil {
		tc.TimeoutMS = ldvalue.NewOptionalInt(*cd.TimeoutMS)
	}
	if cd.MaxTimeMS != nil {
		tc.MaxTimeMS = ldvalue.NewOptionalInt(*cd.MaxTimeMS)
	}
	switch body := cd.Body.(type) {
	case nil:
	case string:
		tc.Body = []byte(body)
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return tc, fmt.Errorf("case %q has a body that cannot be represented as JSON: %w", cd.Name, err)
		}
		tc.Body = data
		tc.BodyIsJSON = true
	}
	return tc, nil
}

func resolveURL(caseURL, baseURL string) string {
	if baseURL != "" && strings.HasPrefix(caseURL, "/") {
		return strings.TrimSuffix(baseURL, "/") + caseURL
	}
	return caseURL
}

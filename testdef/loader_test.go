package testdef

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSuite = `
name: users-api
cases:
  - name: get user
    method: get
    url: /users/1
    headers:
      Accept: application/json
    expectedStatus: 200
    expectedHeaders:
      Content-Type: application/json
    expectedSchema:
      fields:
        - name: id
          type: number
        - name: name
          type: string
          nonEmpty: true
        - name: address
          type: object
          fields:
            - name: city
              type: string
    timeoutMs: 5000
    maxTimeMs: 2000
  - name: create user
    method: POST
    url: https://api.example.com/users
    body:
      name: Ada
      email: ada@example.com
    expectedStatus: 201
  - name: raw body
    method: POST
    url: /users
    body: plain text
    expectedStatus: 200
`

func TestParseSuite(t *testing.T) {
	suite, err := ParseSuite([]byte(sampleSuite), "https://api.example.com")
	require.NoError(t, err)
	assert.Equal(t, "users-api", suite.Name)
	require.Len(t, suite.Cases, 3)

	get := suite.Cases[0]
	assert.Equal(t, "get user", get.Name)
	assert.Equal(t, GET, get.Method)
	assert.Equal(t, "https://api.example.com/users/1", get.URL)
	assert.Equal(t, "application/json", get.Headers["Accept"])
	assert.Equal(t, 200, get.ExpectedStatus)
	assert.Equal(t, "application/json", get.ExpectedHeaders["Content-Type"])
	require.NotNil(t, get.ExpectedSchema)
	require.Len(t, get.ExpectedSchema.Fields, 3)
	assert.Equal(t, NumberType, get.ExpectedSchema.Fields[0].Type)
	assert.True(t, get.ExpectedSchema.Fields[1].NonEmpty)
	require.Len(t, get.ExpectedSchema.Fields[2].Fields, 1)
	assert.Equal(t, "city", get.ExpectedSchema.Fields[2].Fields[0].Name)
	require.True(t, get.TimeoutMS.IsDefined())
	assert.Equal(t, 5000, get.TimeoutMS.IntValue())
	require.True(t, get.MaxTimeMS.IsDefined())
	assert.Equal(t, 2000, get.MaxTimeMS.IntValue())

	post := suite.Cases[1]
	assert.Equal(t, POST, post.Method)
	assert.Equal(t, "https://api.example.com/users", post.URL)
	assert.True(t, post.BodyIsJSON)
	assert.JSONEq(t, `{"name": "Ada", "email": "ada@example.com"}`, string(post.Body))
	assert.False(t, post.TimeoutMS.IsDefined())

	raw := suite.Cases[2]
	assert.False(t, raw.BodyIsJSON)
	assert.Equal(t, "plain text", string(raw.Body))
}

func TestParseSuiteWithoutBaseURLLeavesRelativeURL(t *testing.T) {
	suite, err := ParseSuite([]byte(sampleSuite), "")
	require.NoError(t, err)
	// structural validation catches this later, per case, so the rest of the
	// suite still runs
	assert.Equal(t, "/users/1", suite.Cases[0].URL)
}

func TestParseSuiteRejectsMalformedYAML(t *testing.T) {
	_, err := ParseSuite([]byte("cases: [what"), "")
	assert.Error(t, err)
}

func TestParseSuiteRejectsEmptySuite(t *testing.T) {
	_, err := ParseSuite([]byte("name: empty"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no test cases")
}

func TestLoadSuiteFileDefaultsNameFromFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smoke.yaml")
	data := []byte("cases:\n  - name: ping\n    method: GET\n    url: http://example.com/ping\n    expectedStatus: 200\n")
	require.NoError(t, ioutil.WriteFile(path, data, 0600))

	suite, err := LoadSuiteFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, "smoke", suite.Name)
	require.Len(t, suite.Cases, 1)
}

func TestLoadSuiteFileMissingFile(t *testing.T) {
	_, err := LoadSuiteFile(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)
}

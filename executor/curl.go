package executor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/restcheck/restcheck/testdef"
)

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// CurlCommand renders an equivalent curl invocation for a test case, for
// debug output. Headers appear in sorted order so the output is stable.
func CurlCommand(tc *testdef.TestCase) string {
	var b commandBuilder
	b.add("curl", "-X", string(tc.Method))

	names := make([]string, 0, len(tc.Headers))
	for name := range tc.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.add("-H", fmt.Sprintf("%s: %s", name, tc.Headers[name]))
	}
	if tc.BodyIsJSON {
		if _, declared := tc.Headers["Content-Type"]; !declared {
			b.add("-H", "Content-Type: application/json")
		}
	}
	if tc.HasBody() {
		b.add("-d", string(tc.Body))
	}
	b.add(tc.URL)
	return b.String()
}

package reporter

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
)

// PrintResults writes the final console report: a tally line, then each
// failure with its reason, in declaration order.
func PrintResults(w io.Writer, results Results) {
	if results.OK() {
		_, _ = passColor.Fprintf(w, "All %d tests passed\n", len(results.Tests))
		return
	}
	_, _ = failColor.Fprintf(w, "%d of %d tests passed (%d failed)\n",
		len(results.Tests)-len(results.Failures), len(results.Tests), len(results.Failures))
	fmt.Fprintln(w)
	for _, failure := range results.Failures {
		_, _ = failColor.Fprintf(w, "FAILED: %s\n", failure.Case.Name)
		fmt.Fprintf(w, "  %s\n", failure.FailureReason)
	}
}

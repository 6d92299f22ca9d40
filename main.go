package main

import (
	"context"
	"fmt"
	"os"

	"github.com/restcheck/restcheck/executor"
	"github.com/restcheck/restcheck/reporter"
	"github.com/restcheck/restcheck/runner"
	"github.com/restcheck/restcheck/testdef"
)

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	var suites []*testdef.Suite
	for _, path := range params.suiteFiles {
		suite, err := testdef.LoadSuiteFile(path, params.baseURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot load test suite %s: %s\n", path, err)
			os.Exit(1)
		}
		suites = append(suites, suite)
	}

	fmt.Println()
	runner.PrintFilterDescription(params.filters)

	fmt.Println("Running test suite")

	sender := executor.NewHTTPSender(params.timeout)
	testLogger := &ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := runner.Run(context.Background(), suites, sender, params.filters.AsFilter, testLogger)

	fmt.Println()
	reporter.PrintResults(os.Stdout, results)

	if params.outputPath != "" {
		summary := reporter.Summarize(results)
		if err := summary.WriteFile(params.outputPath); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot write report to %s: %s\n", params.outputPath, err)
			os.Exit(1)
		}
		fmt.Printf("Detailed report written to %s\n", params.outputPath)
	}

	if !results.OK() {
		os.Exit(1)
	}
}

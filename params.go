package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/restcheck/restcheck/executor"
	"github.com/restcheck/restcheck/runner"
)

type commandParams struct {
	suiteFiles []string
	baseURL    string
	timeout    time.Duration
	filters    runner.RegexFilters
	outputPath string
	debug      bool
	debugAll   bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("restcheck", flag.ExitOnError)
	fs.StringVar(&c.baseURL, "base-url", "", "base URL that relative case URLs are resolved against")
	fs.DurationVar(&c.timeout, "timeout", executor.DefaultTimeout, "default request timeout")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.StringVar(&c.outputPath, "output", "", "file path to write the JSON report to")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	c.suiteFiles = fs.Args()
	if len(c.suiteFiles) == 0 {
		fmt.Fprintln(os.Stderr, "at least one suite file is required")
		fs.Usage()
		return false
	}
	return true
}

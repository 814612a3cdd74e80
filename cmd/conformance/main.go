package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/example/jsvm/interpreter"
	"github.com/example/jsvm/testrunner"
)

func main() {
	suites := flag.String("suites", "", "directory of YAML fixture suites")
	test262Dir := flag.String("dir", "", "path to a test262 checkout")
	filter := flag.String("filter", "", "filter test262 tests by path substring")
	limit := flag.Int("limit", 0, "maximum number of test262 tests to run (0 = all)")
	preset := flag.String("preset", "env", "language preset for test262 runs")
	timeout := flag.Duration("timeout", testrunner.DefaultTimeout, "per-script timeout")
	verbose := flag.Bool("v", false, "verbose output (print each test result as it runs)")
	flag.Parse()

	if *suites == "" && *test262Dir == "" {
		fmt.Fprintf(os.Stderr, "Usage: conformance -suites <dir> | -dir <test262>\n")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ok := true
	if *suites != "" {
		results, summary, err := testrunner.RunSuites(*suites, *timeout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		testrunner.Report(os.Stdout, "Fixture", results, summary)
		ok = ok && summary.OK()
	}

	if *test262Dir != "" {
		if _, err := os.Stat(*test262Dir); os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error: test262 directory not found at %s\n", *test262Dir)
			fmt.Fprintf(os.Stderr, "Clone it with: git clone --depth 1 https://github.com/tc39/test262 %s\n", *test262Dir)
			os.Exit(1)
		}
		p, err := interpreter.ParsePreset(*preset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		cfg := testrunner.Config{
			Test262Dir: *test262Dir,
			Filter:     *filter,
			Limit:      *limit,
			Preset:     p,
			Timeout:    *timeout,
			Verbose:    *verbose,
			Output:     os.Stdout,
		}
		start := time.Now()
		results, summary := testrunner.Run(cfg)
		if *verbose {
			// already streamed
			results = nil
		}
		testrunner.Report(os.Stdout, "Test262", results, summary)
		fmt.Fprintf(os.Stderr, "test262 finished in %s\n", time.Since(start).Round(time.Millisecond))
		ok = ok && summary.OK()
	}

	if !ok {
		os.Exit(1)
	}
}

// Package testrunner drives conformance runs: YAML fixture suites that pin
// down module.exports for small scripts, and a Test262 checkout.
package testrunner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

type Result int

const (
	Pass Result = iota
	Fail
	Skip
	Error
)

func (r Result) String() string {
	switch r {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Skip:
		return "SKIP"
	case Error:
		return "ERROR"
	}
	return "UNKNOWN"
}

type TestResult struct {
	Path    string
	Result  Result
	Message string
	Elapsed time.Duration
}

type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
	Errors  int
	Elapsed time.Duration
}

// Add counts r.
func (s *Summary) Add(r TestResult) {
	s.Total++
	switch r.Result {
	case Pass:
		s.Passed++
	case Fail:
		s.Failed++
	case Skip:
		s.Skipped++
	case Error:
		s.Errors++
	}
}

// PassRate is the share of passed tests among those not skipped.
func (s Summary) PassRate() float64 {
	ran := s.Total - s.Skipped
	if ran <= 0 {
		return 0
	}
	return float64(s.Passed) / float64(ran) * 100
}

// OK reports whether nothing failed or errored.
func (s Summary) OK() bool {
	return s.Failed == 0 && s.Errors == 0
}

// Report writes one line per result followed by the summary block.
func Report(w io.Writer, title string, results []TestResult, summary Summary) {
	for _, r := range results {
		msg := ""
		if r.Message != "" {
			msg = " " + r.Message
		}
		fmt.Fprintf(w, "%s %s%s\n", r.Result, r.Path, msg)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "=== %s Summary ===\n", title)
	fmt.Fprintf(w, "Total:   %d\n", summary.Total)
	fmt.Fprintf(w, "Passed:  %d\n", summary.Passed)
	fmt.Fprintf(w, "Failed:  %d\n", summary.Failed)
	fmt.Fprintf(w, "Skipped: %d\n", summary.Skipped)
	fmt.Fprintf(w, "Errors:  %d\n", summary.Errors)
	if summary.Total > 0 {
		fmt.Fprintf(w, "Pass rate: %.1f%% (%d/%d excluding skipped)\n",
			summary.PassRate(), summary.Passed, summary.Total-summary.Skipped)
	}
	fmt.Fprintf(w, "Elapsed: %s\n", summary.Elapsed)
}

// DefaultTimeout bounds a single script.
const DefaultTimeout = 5 * time.Second

var errTimeout = errors.New("timeout")

// withTimeout runs fn on its own goroutine and returns errTimeout if it
// takes longer than d. A script that never finishes keeps its goroutine.
func withTimeout(d time.Duration, fn func() error) error {
	if d <= 0 {
		d = DefaultTimeout
	}
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(d):
		return errTimeout
	}
}

func loadFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

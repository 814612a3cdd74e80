package testrunner

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSummaryAdd(t *testing.T) {
	var s Summary
	for _, r := range []Result{Pass, Pass, Fail, Skip, Error} {
		s.Add(TestResult{Result: r})
	}
	if s.Total != 5 || s.Passed != 2 || s.Failed != 1 || s.Skipped != 1 || s.Errors != 1 {
		t.Errorf("unexpected summary %+v", s)
	}
	if got := s.PassRate(); got != 50 {
		t.Errorf("PassRate() = %v, want 50", got)
	}
	if s.OK() {
		t.Error("summary with failures reported OK")
	}
	if (Summary{}).PassRate() != 0 {
		t.Error("empty summary should have a zero pass rate")
	}
}

func TestReport(t *testing.T) {
	results := []TestResult{
		{Path: "a/one", Result: Pass},
		{Path: "a/two", Result: Fail, Message: "exports differ"},
	}
	var s Summary
	for _, r := range results {
		s.Add(r)
	}
	var buf bytes.Buffer
	Report(&buf, "Fixture", results, s)
	out := buf.String()
	for _, want := range []string{
		"PASS a/one\n",
		"FAIL a/two exports differ\n",
		"=== Fixture Summary ===",
		"Pass rate: 50.0% (1/2 excluding skipped)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestWithTimeout(t *testing.T) {
	boom := errors.New("boom")
	if err := withTimeout(time.Second, func() error { return boom }); err != boom {
		t.Errorf("got %v, want boom", err)
	}
	block := make(chan struct{})
	defer close(block)
	err := withTimeout(10*time.Millisecond, func() error {
		<-block
		return nil
	})
	if !errors.Is(err, errTimeout) {
		t.Errorf("got %v, want timeout", err)
	}
}

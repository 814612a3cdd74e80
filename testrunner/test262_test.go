package testrunner

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseMetadata(t *testing.T) {
	src := `// Copyright
/*---
esid: sec-addition
description: >
  adds two numbers
features: [Symbol, let]
flags:
  - onlyStrict
includes: [compareArray.js]
negative:
  phase: parse
  type: SyntaxError
---*/
1 + 1;
`
	meta, err := parseMetadata(src)
	if err != nil {
		t.Fatal(err)
	}
	want := TestMetadata{
		Description: "adds two numbers\n",
		Features:    []string{"Symbol", "let"},
		Flags:       []string{"onlyStrict"},
		Includes:    []string{"compareArray.js"},
		Negative:    &NegativeExpectation{Phase: "parse", Type: "SyntaxError"},
	}
	if !reflect.DeepEqual(meta, want) {
		t.Errorf("got %+v, want %+v", meta, want)
	}
	if !meta.hasFlag("onlyStrict") || meta.hasFlag("raw") {
		t.Error("hasFlag mismatch")
	}
}

func TestParseMetadataEdges(t *testing.T) {
	meta, err := parseMetadata("1 + 1;")
	if err != nil || !reflect.DeepEqual(meta, TestMetadata{}) {
		t.Errorf("no frontmatter: got %+v, %v", meta, err)
	}
	if _, err := parseMetadata("/*--- description: x"); err == nil {
		t.Error("unterminated frontmatter accepted")
	}
	if _, err := parseMetadata("/*---\nfeatures: [a\n---*/"); err == nil {
		t.Error("malformed frontmatter accepted")
	}
}

func TestSkipReason(t *testing.T) {
	tests := []struct {
		meta TestMetadata
		skip bool
	}{
		{TestMetadata{}, false},
		{TestMetadata{Features: []string{"let", "Proxy"}}, true},
		{TestMetadata{Flags: []string{"module"}}, true},
		{TestMetadata{Flags: []string{"async"}}, true},
		{TestMetadata{Negative: &NegativeExpectation{Phase: "resolution"}}, true},
		{TestMetadata{Negative: &NegativeExpectation{Phase: "runtime", Type: "TypeError"}}, false},
	}
	for _, tt := range tests {
		if got := tt.meta.skipReason() != ""; got != tt.skip {
			t.Errorf("skipReason(%+v) skip = %v, want %v", tt.meta, got, tt.skip)
		}
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

// fakeCheckout lays out a miniature Test262 tree.
func fakeCheckout(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "harness", "sta.js"), `
function Test262Error(message) { this.message = message || ""; }
`)
	writeFile(t, filepath.Join(dir, "harness", "assert.js"), `
function assert(mustBeTrue, message) {
  if (mustBeTrue === true) return;
  throw new Test262Error(message);
}
assert.sameValue = function (actual, expected, message) {
  if (actual !== expected) throw new Test262Error(message);
};
`)
	writeFile(t, filepath.Join(dir, "test", "pass.js"), "/*---\ndescription: adds\n---*/\nassert.sameValue(1 + 1, 2);\n")
	writeFile(t, filepath.Join(dir, "test", "fail.js"), "/*---\ndescription: wrong\n---*/\nassert.sameValue(1, 2, \"nope\");\n")
	writeFile(t, filepath.Join(dir, "test", "negative.js"), "/*---\nnegative:\n  phase: parse\n  type: SyntaxError\n---*/\nvar = ;\n")
	writeFile(t, filepath.Join(dir, "test", "skip.js"), "/*---\nfeatures: [Proxy]\n---*/\nnew Proxy({}, {});\n")
	writeFile(t, filepath.Join(dir, "test", "host.js"), "/*---\ndescription: host hooks\n---*/\nassert.sameValue(typeof $262.evalScript, \"function\");\nprint(\"ignored\");\n")
	writeFile(t, filepath.Join(dir, "test", "helper_FIXTURE.js"), "throw 1;\n")
	return dir
}

func TestRunTest262(t *testing.T) {
	dir := fakeCheckout(t)
	results, summary := Run(Config{Test262Dir: dir, Output: io.Discard})

	got := make(map[string]Result)
	for _, r := range results {
		got[filepath.Base(r.Path)] = r.Result
	}
	want := map[string]Result{
		"fail.js":     Fail,
		"host.js":     Pass,
		"negative.js": Pass,
		"pass.js":     Pass,
		"skip.js":     Skip,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("results = %v, want %v", got, want)
	}
	if summary.Total != 5 || summary.Passed != 3 || summary.Failed != 1 || summary.Skipped != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestRunTest262FilterAndLimit(t *testing.T) {
	dir := fakeCheckout(t)
	results, _ := Run(Config{Test262Dir: dir, Filter: "pass", Output: io.Discard})
	if len(results) != 1 || results[0].Result != Pass {
		t.Errorf("filter: got %+v", results)
	}
	results, _ = Run(Config{Test262Dir: dir, Limit: 2, Output: io.Discard})
	if len(results) != 2 {
		t.Errorf("limit: got %d results", len(results))
	}
}

package testrunner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/jsvm/builtins"
	"github.com/example/jsvm/interpreter"
	"github.com/example/jsvm/runtime"
)

// Config selects the Test262 files to run.
type Config struct {
	Test262Dir string
	Filter     string
	Limit      int
	Preset     interpreter.Preset
	Timeout    time.Duration
	// Verbose streams each result to Output as it finishes.
	Verbose bool
	Output  io.Writer
}

// Run discovers and runs Test262 tests, returning results and a summary.
func Run(cfg Config) ([]TestResult, Summary) {
	testDir := filepath.Join(cfg.Test262Dir, "test")
	harnessDir := filepath.Join(cfg.Test262Dir, "harness")
	harness := loadFile(filepath.Join(harnessDir, "sta.js")) + "\n" +
		loadFile(filepath.Join(harnessDir, "assert.js")) + "\n"

	var testFiles []string
	filepath.Walk(testDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || !strings.HasSuffix(path, ".js") {
			return nil
		}
		// fixture files are loaded by other tests
		if strings.Contains(path, "_FIXTURE") {
			return nil
		}
		if cfg.Filter != "" {
			rel, _ := filepath.Rel(testDir, path)
			if !strings.Contains(rel, cfg.Filter) {
				return nil
			}
		}
		testFiles = append(testFiles, path)
		return nil
	})
	sort.Strings(testFiles)
	if cfg.Limit > 0 && len(testFiles) > cfg.Limit {
		testFiles = testFiles[:cfg.Limit]
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	start := time.Now()
	var results []TestResult
	var summary Summary
	for _, path := range testFiles {
		rel, _ := filepath.Rel(cfg.Test262Dir, path)
		tr := runSingleTest(cfg, path, rel, harness, harnessDir)
		results = append(results, tr)
		summary.Add(tr)
		if cfg.Verbose {
			msg := ""
			if tr.Message != "" {
				msg = " " + tr.Message
			}
			fmt.Fprintf(out, "%s %s%s\n", tr.Result, rel, msg)
		}
	}
	summary.Elapsed = time.Since(start)
	return results, summary
}

func runSingleTest(cfg Config, path, rel, baseHarness, harnessDir string) TestResult {
	source, err := os.ReadFile(path)
	if err != nil {
		return TestResult{Path: rel, Result: Error, Message: "read error: " + err.Error()}
	}
	meta, err := parseMetadata(string(source))
	if err != nil {
		return TestResult{Path: rel, Result: Error, Message: err.Error()}
	}
	if reason := meta.skipReason(); reason != "" {
		return TestResult{Path: rel, Result: Skip, Message: reason}
	}

	harness := baseHarness
	if meta.hasFlag("raw") {
		harness = ""
	}
	for _, inc := range meta.Includes {
		harness += loadFile(filepath.Join(harnessDir, inc)) + "\n"
	}
	full := harness + string(source)
	if meta.hasFlag("onlyStrict") {
		full = "\"use strict\";\n" + full
	}

	ctx := builtins.NewContext(builtins.WithOutput(io.Discard, io.Discard))
	registerTestNatives(ctx, cfg.Preset)

	start := time.Now()
	err = withTimeout(cfg.Timeout, func() error {
		_, err := interpreter.RunInContext(full, ctx, cfg.Preset, interpreter.WithFilename(rel))
		return err
	})
	elapsed := time.Since(start)
	if errors.Is(err, errTimeout) {
		return TestResult{Path: rel, Result: Error, Message: "timeout", Elapsed: elapsed}
	}

	if meta.Negative != nil {
		if err == nil {
			return TestResult{
				Path:    rel,
				Result:  Fail,
				Message: fmt.Sprintf("expected %s error in %s phase", meta.Negative.Type, meta.Negative.Phase),
				Elapsed: elapsed,
			}
		}
		if got := errorName(err); got != meta.Negative.Type {
			return TestResult{
				Path:    rel,
				Result:  Fail,
				Message: fmt.Sprintf("expected %s, got %s", meta.Negative.Type, got),
				Elapsed: elapsed,
			}
		}
		return TestResult{Path: rel, Result: Pass, Elapsed: elapsed}
	}
	if err != nil {
		return TestResult{Path: rel, Result: Fail, Message: firstLine(err.Error()), Elapsed: elapsed}
	}
	return TestResult{Path: rel, Result: Pass, Elapsed: elapsed}
}

// registerTestNatives installs print and the $262 host object. evalScript
// runs its argument as a separate script in the same context.
func registerTestNatives(ctx *runtime.Context, preset interpreter.Preset) {
	realm := ctx.Realm
	noop := func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.Undefined, nil
	}
	ctx.Set("print", runtime.NewObject(realm.NewFunction("print", 1, noop)))

	obj := realm.NewObject()
	obj.Set("evalScript", runtime.NewObject(realm.NewFunction("evalScript", 1,
		func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
			if len(args) == 0 {
				return runtime.Undefined, nil
			}
			_, err := interpreter.RunInContext(args[0].ToString(), ctx, preset)
			if isParseError(err) {
				return nil, fmt.Errorf("SyntaxError: %v", err)
			}
			if err != nil {
				return nil, err
			}
			return runtime.Undefined, nil
		})))
	obj.Set("gc", runtime.NewObject(realm.NewFunction("gc", 0, noop)))
	obj.Set("detachArrayBuffer", runtime.NewObject(realm.NewFunction("detachArrayBuffer", 1, noop)))
	obj.Set("global", runtime.Undefined)
	ctx.Set("$262", runtime.NewObject(obj))
}

// isParseError reports a failure that happened before evaluation started.
func isParseError(err error) bool {
	if err == nil {
		return false
	}
	var engineErr *runtime.Error
	var exc *runtime.Exception
	return !errors.As(err, &engineErr) && !errors.As(err, &exc)
}

// errorName maps a run error to the JS constructor name it surfaces as.
// Failures that never reached evaluation are parse errors.
func errorName(err error) string {
	var engineErr *runtime.Error
	if errors.As(err, &engineErr) {
		return engineErr.Kind.JSName()
	}
	var exc *runtime.Exception
	if errors.As(err, &exc) {
		if exc.Value.IsObject() {
			return exc.Value.Object.Get("name").ToString()
		}
		return exc.Value.ToString()
	}
	if isParseError(err) {
		return "SyntaxError"
	}
	return ""
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// TestMetadata is the YAML frontmatter of a Test262 file.
type TestMetadata struct {
	Description string               `yaml:"description"`
	Features    []string             `yaml:"features"`
	Flags       []string             `yaml:"flags"`
	Includes    []string             `yaml:"includes"`
	Negative    *NegativeExpectation `yaml:"negative"`
}

type NegativeExpectation struct {
	Phase string `yaml:"phase"` // parse, resolution or runtime
	Type  string `yaml:"type"`
}

// parseMetadata decodes the block between /*--- and ---*/. A file without
// frontmatter has empty metadata.
func parseMetadata(source string) (TestMetadata, error) {
	var meta TestMetadata
	startIdx := strings.Index(source, "/*---")
	if startIdx < 0 {
		return meta, nil
	}
	endIdx := strings.Index(source[startIdx:], "---*/")
	if endIdx < 0 {
		return meta, fmt.Errorf("frontmatter: missing ---*/")
	}
	block := source[startIdx+len("/*---") : startIdx+endIdx]
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return meta, fmt.Errorf("frontmatter: %w", err)
	}
	return meta, nil
}

func (m TestMetadata) hasFlag(flag string) bool {
	for _, f := range m.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

func (m TestMetadata) skipReason() string {
	for _, feat := range m.Features {
		if unsupportedFeatures[feat] {
			return "unsupported feature: " + feat
		}
	}
	switch {
	case m.hasFlag("module"):
		return "module test"
	case m.hasFlag("async"):
		return "async test"
	case m.Negative != nil && m.Negative.Phase == "resolution":
		return "module resolution"
	}
	return ""
}

var unsupportedFeatures = map[string]bool{
	"SharedArrayBuffer":               true,
	"Atomics":                         true,
	"WeakRef":                         true,
	"WeakMap":                         true,
	"WeakSet":                         true,
	"FinalizationRegistry":            true,
	"Proxy":                           true,
	"Reflect":                         true,
	"Reflect.construct":               true,
	"BigInt":                          true,
	"TypedArray":                      true,
	"ArrayBuffer":                     true,
	"DataView":                        true,
	"globalThis":                      true,
	"import.meta":                     true,
	"dynamic-import":                  true,
	"top-level-await":                 true,
	"async-iteration":                 true,
	"regexp-lookbehind":               true,
	"regexp-named-groups":             true,
	"regexp-unicode-property-escapes": true,
	"Intl":                            true,
	"Temporal":                        true,
	"decorators":                      true,
	"import-assertions":               true,
	"json-modules":                    true,
	"IsHTMLDDA":                       true,
	"cross-realm":                     true,
}

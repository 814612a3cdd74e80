package testrunner

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/jsvm/builtins"
	"github.com/example/jsvm/config"
	"github.com/example/jsvm/interpreter"
	"github.com/example/jsvm/runtime"
)

// Suite is one YAML fixture file. Run settings shared by its cases use the
// config file keys and defaults.
type Suite struct {
	Name          string `yaml:"name"`
	config.Config `yaml:",inline"`
	Cases         []Case `yaml:"cases"`
}

// Case is a script and what running it must produce. Exports is compared
// against runtime.ToGo of module.exports; Error names an engine error kind,
// a JS error constructor, or a substring of the error text.
type Case struct {
	Name    string                 `yaml:"name"`
	Source  string                 `yaml:"source"`
	Preset  string                 `yaml:"preset"`
	Globals map[string]interface{} `yaml:"globals"`
	Exports interface{}            `yaml:"exports"`
	Error   string                 `yaml:"error"`
	Stdout  string                 `yaml:"stdout"`
	Skip    string                 `yaml:"skip"`

	checkExports bool
	checkStdout  bool
}

func (c *Case) UnmarshalYAML(n *yaml.Node) error {
	type plain Case
	if err := n.Decode((*plain)(c)); err != nil {
		return err
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		switch n.Content[i].Value {
		case "exports":
			c.checkExports = true
		case "stdout":
			c.checkStdout = true
		}
	}
	return nil
}

// LoadSuite decodes the fixture file at path.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("suite: read %s: %w", path, err)
	}
	s := &Suite{Config: *config.Default()}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("suite: parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("suite: %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	for i, c := range s.Cases {
		if c.Preset != "" {
			if _, err := interpreter.ParsePreset(c.Preset); err != nil {
				return nil, fmt.Errorf("suite: %s: case %d: %w", path, i, err)
			}
		}
		if c.Name == "" {
			s.Cases[i].Name = fmt.Sprintf("case%d", i+1)
		}
	}
	return s, nil
}

// RunSuites loads every *.yaml file in dir, in name order, and runs it.
func RunSuites(dir string, timeout time.Duration) ([]TestResult, Summary, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, Summary{}, err
	}
	if len(paths) == 0 {
		return nil, Summary{}, fmt.Errorf("suite: no *.yaml files in %s", dir)
	}
	start := time.Now()
	var results []TestResult
	var summary Summary
	for _, path := range paths {
		s, err := LoadSuite(path)
		if err != nil {
			return results, summary, err
		}
		for _, r := range s.Run(timeout) {
			results = append(results, r)
			summary.Add(r)
		}
	}
	summary.Elapsed = time.Since(start)
	return results, summary, nil
}

// Run executes every case in a fresh context.
func (s *Suite) Run(timeout time.Duration) []TestResult {
	results := make([]TestResult, 0, len(s.Cases))
	for _, c := range s.Cases {
		tr := s.runCase(c, timeout)
		tr.Path = s.Name + "/" + c.Name
		results = append(results, tr)
	}
	return results
}

func (s *Suite) runCase(c Case, timeout time.Duration) TestResult {
	if c.Skip != "" {
		return TestResult{Result: Skip, Message: c.Skip}
	}
	preset := s.RunPreset()
	if c.Preset != "" {
		preset = interpreter.Preset(c.Preset)
	}

	var out bytes.Buffer
	ctx := s.Context(builtins.WithOutput(&out, &out))
	for name, v := range c.Globals {
		ctx.Set(name, ctx.Realm.FromGo(v))
	}

	var exports *runtime.Value
	start := time.Now()
	err := withTimeout(timeout, func() error {
		var err error
		exports, err = interpreter.RunInContext(c.Source, ctx, preset, append(s.Options(), interpreter.WithFilename(c.Name+".js"))...)
		return err
	})
	elapsed := time.Since(start)
	fail := func(format string, args ...interface{}) TestResult {
		return TestResult{Result: Fail, Message: fmt.Sprintf(format, args...), Elapsed: elapsed}
	}

	switch {
	case errors.Is(err, errTimeout):
		return TestResult{Result: Error, Message: "timeout", Elapsed: elapsed}
	case c.Error != "":
		if err == nil {
			return fail("expected error %s, got none", c.Error)
		}
		if !matchesError(err, c.Error) {
			return fail("expected error %s, got %s", c.Error, firstLine(err.Error()))
		}
	case err != nil:
		return fail("%s", firstLine(err.Error()))
	case c.checkExports:
		got, want := runtime.ToGo(exports), normalize(c.Exports)
		if !reflect.DeepEqual(got, want) {
			return fail("exports = %#v, want %#v", got, want)
		}
	}
	if c.checkStdout && out.String() != c.Stdout {
		return fail("stdout = %q, want %q", out.String(), c.Stdout)
	}
	return TestResult{Result: Pass, Elapsed: elapsed}
}

func matchesError(err error, want string) bool {
	var engineErr *runtime.Error
	if errors.As(err, &engineErr) && engineErr.Kind.String() == want {
		return true
	}
	return errorName(err) == want || strings.Contains(err.Error(), want)
}

// normalize brings decoded YAML into the shapes runtime.ToGo produces.
func normalize(v interface{}) interface{} {
	switch v := v.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, el := range v {
			out[i] = normalize(el)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, el := range v {
			out[k] = normalize(el)
		}
		return out
	}
	return v
}

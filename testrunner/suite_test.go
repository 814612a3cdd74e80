package testrunner

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/example/jsvm/interpreter"
)

func TestFixtureSuites(t *testing.T) {
	results, summary, err := RunSuites("testdata", 0)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Total == 0 || summary.Total != len(results) {
		t.Fatalf("unexpected summary %+v for %d results", summary, len(results))
	}
	for _, r := range results {
		if r.Result != Pass {
			t.Errorf("%s %s: %s", r.Result, r.Path, r.Message)
		}
	}
}

func TestLoadSuite(t *testing.T) {
	s, err := LoadSuite(filepath.Join("testdata", "es5.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "es5" || s.RunPreset() != interpreter.PresetES5 {
		t.Errorf("name %q preset %q", s.Name, s.Preset)
	}
	if !s.Builtins || !s.AutoGlobal {
		t.Error("suite lost the config defaults")
	}
	if !s.Cases[0].checkExports || s.Cases[1].checkExports {
		t.Error("checkExports should follow the presence of the exports key")
	}
}

func TestSuiteFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	writeFile(t, path, `
cases:
  - name: wrong exports
    source: module.exports = 1;
    exports: 2
  - name: missing error
    source: module.exports = 1;
    error: TypeError
  - name: wrong error
    source: null.x;
    error: ReferenceError
  - name: unexpected error
    source: missing;
  - name: wrong stdout
    source: console.log("a");
    stdout: "b\n"
  - source: module.exports = 1;
    skip: not today
`)
	s, err := LoadSuite(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "broken" {
		t.Errorf("name = %q, want the file stem", s.Name)
	}
	results := s.Run(0)
	want := []Result{Fail, Fail, Fail, Fail, Fail, Skip}
	if len(results) != len(want) {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if r.Result != want[i] {
			t.Errorf("%s: got %s, want %s (%s)", r.Path, r.Result, want[i], r.Message)
		}
	}
	if results[5].Path != "broken/case6" {
		t.Errorf("unnamed case path = %q", results[5].Path)
	}
}

func TestLoadSuiteErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "name: x\ncasez: []\n", "casez"},
		{"bad preset", "preset: es3\ncases: []\n", "unknown preset"},
		{"bad case preset", "cases:\n  - source: x\n    preset: es3\n", "case 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "s.yaml")
			writeFile(t, path, tt.body)
			_, err := LoadSuite(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
	if _, _, err := RunSuites(t.TempDir(), 0); err == nil {
		t.Error("empty directory accepted")
	}
}

func TestNormalize(t *testing.T) {
	got := normalize(map[string]interface{}{"a": 1, "b": []interface{}{int64(2), "x", 1.5}})
	want := map[string]interface{}{"a": 1.0, "b": []interface{}{2.0, "x", 1.5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

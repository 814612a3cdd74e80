package config

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/jsvm/builtins"
	"github.com/example/jsvm/interpreter"
	"github.com/example/jsvm/runtime"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jsvm.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.RunPreset() != interpreter.PresetEnv || !cfg.AutoGlobal || !cfg.ProtectSandbox || !cfg.Builtins {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if level, err := cfg.Level(); err != nil || level != slog.LevelInfo {
		t.Errorf("Level() = %v, %v", level, err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
preset: es5
autoGlobal: false
logLevel: debug
globals:
  name: axetroy
  limits:
    max: 3
  tags: [a, b]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RunPreset() != interpreter.PresetES5 {
		t.Errorf("preset = %q", cfg.Preset)
	}
	if cfg.AutoGlobal {
		t.Error("autoGlobal should be false")
	}
	if !cfg.ProtectSandbox || !cfg.Builtins {
		t.Error("unset fields lost their defaults")
	}
	if level, _ := cfg.Level(); level != slog.LevelDebug {
		t.Errorf("level = %v", level)
	}
	if got := strings.Join(cfg.GlobalNames(), ","); got != "limits,name,tags" {
		t.Errorf("GlobalNames() = %s", got)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Preset != "env" {
		t.Errorf("preset = %q", cfg.Preset)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown preset", "preset: es3\n", "unknown preset"},
		{"bad level", "logLevel: loud\n", "log level"},
		{"unknown key", "presets: env\n", "presets"},
		{"malformed", "preset: [\n", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("got %v, want a not-exist error", err)
	}
	if _, err := Load(""); err == nil {
		t.Error("empty path accepted")
	}
}

func TestContextRunsWithGlobals(t *testing.T) {
	cfg, err := Parse([]byte(`
globals:
  name: axetroy
  limits: {max: 3}
`))
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	ctx := cfg.Context(builtins.WithOutput(&out, &out))
	v, err := interpreter.RunInContext(`console.log(name); module.exports = [name.toUpperCase(), limits.max + 1];`,
		ctx, cfg.RunPreset(), cfg.Options()...)
	if err != nil {
		t.Fatal(err)
	}
	got := runtime.ToGo(v).([]interface{})
	if got[0] != "AXETROY" || got[1] != 4.0 {
		t.Errorf("exports = %v", got)
	}
	if out.String() != "axetroy\n" {
		t.Errorf("console output = %q", out.String())
	}
}

func TestContextWithoutBuiltins(t *testing.T) {
	cfg := Default()
	cfg.Builtins = false
	ctx := cfg.Context()
	if ctx.Defines("Object") {
		t.Error("builtins installed although disabled")
	}
}

func TestOptionsApply(t *testing.T) {
	cfg := Default()
	cfg.AutoGlobal = false
	_, err := interpreter.RunInContext(`undeclared = 1;`, cfg.Context(), cfg.RunPreset(), cfg.Options()...)
	if !errors.Is(err, runtime.ErrNameNotDefined) {
		t.Errorf("got %v, want NameNotDefined", err)
	}
}

// Package config loads run settings for the jsvm commands from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/example/jsvm/builtins"
	"github.com/example/jsvm/interpreter"
	"github.com/example/jsvm/runtime"
)

// Config is the decoded run configuration. Fields missing from a file keep
// their Default values.
type Config struct {
	Preset         string                 `yaml:"preset"`
	AutoGlobal     bool                   `yaml:"autoGlobal"`
	ProtectSandbox bool                   `yaml:"protectSandbox"`
	LogLevel       string                 `yaml:"logLevel"`
	Builtins       bool                   `yaml:"builtins"`
	Globals        map[string]interface{} `yaml:"globals"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Preset:         string(interpreter.PresetEnv),
		AutoGlobal:     true,
		ProtectSandbox: true,
		LogLevel:       "info",
		Builtins:       true,
	}
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected and an
// empty document yields Default.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the preset and log level names.
func (c *Config) Validate() error {
	if _, err := interpreter.ParsePreset(c.Preset); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// RunPreset returns the validated preset.
func (c *Config) RunPreset() interpreter.Preset {
	p, err := interpreter.ParsePreset(c.Preset)
	if err != nil {
		return interpreter.PresetEnv
	}
	return p
}

// Level parses LogLevel. The empty string means info.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Options translates the flags into interpreter options.
func (c *Config) Options() []interpreter.Option {
	return []interpreter.Option{
		interpreter.WithAutoGlobal(c.AutoGlobal),
		interpreter.WithSandboxProtection(c.ProtectSandbox),
	}
}

// Sandbox converts Globals into values allocated in realm.
func (c *Config) Sandbox(realm *runtime.Realm) map[string]*runtime.Value {
	out := make(map[string]*runtime.Value, len(c.Globals))
	for name, v := range c.Globals {
		out[name] = realm.FromGo(v)
	}
	return out
}

// GlobalNames lists the configured global names, sorted.
func (c *Config) GlobalNames() []string {
	names := make([]string, 0, len(c.Globals))
	for name := range c.Globals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Context builds a fresh execution context: the default host library when
// Builtins is set, then the configured globals on top.
func (c *Config) Context(opts ...builtins.Option) *runtime.Context {
	var ctx *runtime.Context
	if c.Builtins {
		ctx = builtins.NewContext(opts...)
	} else {
		ctx = interpreter.NewContext(nil)
	}
	for name, v := range c.Sandbox(ctx.Realm) {
		ctx.Set(name, v)
	}
	return ctx
}

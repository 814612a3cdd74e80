package interpreter

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/example/jsvm/ast"
	"github.com/example/jsvm/parser"
	"github.com/example/jsvm/runtime"
)

// Options configures one run.
type Options struct {
	// AutoGlobal makes assignment to an undeclared name create a root var.
	AutoGlobal bool
	// ProtectSandbox turns root var redeclarations of sandbox names into no-ops.
	ProtectSandbox bool
	Logger         *slog.Logger
	Filename       string
}

// Option mutates Options.
type Option func(*Options)

func WithAutoGlobal(on bool) Option        { return func(o *Options) { o.AutoGlobal = on } }
func WithSandboxProtection(on bool) Option { return func(o *Options) { o.ProtectSandbox = on } }
func WithFilename(name string) Option      { return func(o *Options) { o.Filename = name } }

// WithLogger routes engine diagnostics to l. Runs are silent by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func defaultOptions() Options {
	return Options{
		AutoGlobal:     true,
		ProtectSandbox: true,
		Logger:         slog.New(slog.DiscardHandler),
	}
}

// engine is the state shared by every Path of one run.
type engine struct {
	ctx    *runtime.Context
	table  *DispatchTable
	preset Preset
	opts   Options
	stack  *runtime.CallStack
	root   *runtime.Scope
	log    *slog.Logger

	// thrown holds the call stack at the most recent throw site.
	thrown []runtime.Frame
}

// NewContext wraps sandbox into a Context that can be reused across runs.
func NewContext(sandbox map[string]*runtime.Value) *runtime.Context {
	return runtime.NewContext(sandbox)
}

// Run evaluates program against sandbox and returns the final module.exports.
func Run(program *ast.Program, sandbox map[string]*runtime.Value, preset Preset, opts ...Option) (*runtime.Value, error) {
	res, err := run(program, NewContext(sandbox), preset, opts)
	if err != nil {
		return nil, err
	}
	return res.exports, nil
}

// RunInContext parses code and runs it in ctx. Globals the script creates
// through auto-global assignment stay local to the run.
func RunInContext(code string, ctx *runtime.Context, preset Preset, opts ...Option) (*runtime.Value, error) {
	program, err := parseCode(code, opts)
	if err != nil {
		return nil, err
	}
	res, err := run(program, ctx, preset, opts)
	if err != nil {
		return nil, err
	}
	return res.exports, nil
}

func parseCode(code string, opts []Option) (*ast.Program, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	filename := o.Filename
	if filename == "" {
		filename = "<input>"
	}
	return parser.ParseFile(filename, code)
}

// result is what one run leaves behind.
type result struct {
	exports    *runtime.Value
	completion *runtime.Value
	root       *runtime.Scope
}

func run(program *ast.Program, ctx *runtime.Context, preset Preset, opts []Option) (*result, error) {
	if program == nil {
		return nil, fmt.Errorf("run: nil program")
	}
	if preset == "" {
		preset = PresetEnv
	}
	if _, err := ParsePreset(string(preset)); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Filename == "" {
		o.Filename = program.Filename
	}
	if ctx == nil {
		ctx = NewContext(nil)
	}
	ctx.ProtectSandbox = o.ProtectSandbox

	e := &engine{
		ctx:    ctx,
		table:  TableFor(preset),
		preset: preset,
		opts:   o,
		stack:  runtime.NewCallStack(o.Filename),
		log:    o.Logger.With("file", o.Filename, "preset", string(preset)),
	}
	e.root = runtime.NewRootScope(ctx)

	module := ctx.Realm.NewObject()
	exports := runtime.NewObject(ctx.Realm.NewObject())
	module.Set("exports", exports)
	if err := e.root.Const("this", runtime.Undefined); err != nil {
		return nil, err
	}
	if err := e.root.Const("module", runtime.NewObject(module)); err != nil {
		return nil, err
	}
	if err := e.root.Var("exports", exports); err != nil {
		return nil, err
	}

	start := time.Now()
	root := &Path{Node: program, Scope: e.root, Stack: e.stack, Preset: preset, engine: e}
	completion, sig := root.Evaluate()
	e.log.Debug("run finished", "duration", time.Since(start), "signal", sig.Kind.String())

	if sig.Kind == runtime.SigThrow {
		return nil, e.goError(sig.Value)
	}
	if completion == nil {
		completion = runtime.Undefined
	}
	return &result{exports: module.Get("exports"), completion: completion, root: e.root}, nil
}

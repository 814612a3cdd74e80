// Package builtins provides the default host library a sandbox can be
// seeded with. Nothing in the interpreter depends on it: every global it
// defines is an ordinary sandbox entry.
package builtins

import (
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/example/jsvm/runtime"
)

// lib allocates host objects in one realm. Its methods are the
// CallableFuncs behind the installed functions.
type lib struct {
	realm  *runtime.Realm
	stdout io.Writer
	stderr io.Writer
	random func() float64

	// errorProtos maps native error names to their prototypes.
	errorProtos map[string]*runtime.Object
}

// Option configures Install.
type Option func(*lib)

// WithOutput redirects console output.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(l *lib) {
		l.stdout, l.stderr = stdout, stderr
	}
}

// WithRandom replaces the source of Math.random.
func WithRandom(fn func() float64) Option {
	return func(l *lib) {
		l.random = fn
	}
}

func newLib(realm *runtime.Realm, opts ...Option) *lib {
	l := &lib{realm: realm, stdout: os.Stdout, stderr: os.Stderr, random: rand.Float64, errorProtos: make(map[string]*runtime.Object)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Install defines the default globals in ctx's sandbox. Constructors use the
// realm's intrinsic prototypes, so values the interpreter allocates inherit
// the same methods. Existing sandbox entries are kept.
func Install(ctx *runtime.Context, opts ...Option) {
	l := newLib(ctx.Realm, opts...)
	for name, v := range l.globals() {
		if !ctx.Defines(name) {
			ctx.Set(name, v)
		}
	}
}

// NewContext returns a context whose sandbox holds the default globals.
func NewContext(opts ...Option) *runtime.Context {
	ctx := runtime.NewContext(nil)
	Install(ctx, opts...)
	return ctx
}

// Names lists the globals Install defines, sorted.
func Names() []string {
	g := newLib(runtime.NewRealm()).globals()
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l *lib) globals() map[string]*runtime.Value {
	g := make(map[string]*runtime.Value)
	def := func(name string, obj *runtime.Object) {
		g[name] = runtime.NewObject(obj)
	}

	// Object and Function first: every other constructor hangs off them.
	def("Object", l.createObjectConstructor())
	def("Function", l.createFunctionConstructor())
	def("Array", l.createArrayConstructor())
	def("String", l.createStringConstructor())
	def("Number", l.createNumberConstructor())
	def("Boolean", l.createBooleanConstructor())
	def("Symbol", l.createSymbolObject())

	errorCtor := l.createErrorConstructor()
	def("Error", errorCtor)
	for _, name := range []string{"TypeError", "ReferenceError", "SyntaxError", "RangeError", "URIError", "EvalError"} {
		def(name, l.createErrorSubtype(name, errorCtor))
	}

	def("RegExp", l.createRegExpConstructor())
	def("Map", l.createMapConstructor())
	def("Set", l.createSetConstructor())
	def("Promise", l.createPromiseConstructor())
	def("Math", l.createMathObject())
	def("JSON", l.createJSONObject())
	def("console", l.createConsoleObject())

	l.registerGlobalFunctions(g)
	return g
}

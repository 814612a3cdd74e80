package builtins

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/example/jsvm/interpreter"
	"github.com/example/jsvm/runtime"
)

// setup returns a lib whose realm prototypes are fully populated.
func setup() *lib {
	l := newLib(runtime.NewRealm(), WithOutput(&bytes.Buffer{}, &bytes.Buffer{}))
	l.globals()
	return l
}

func str(s string) *runtime.Value  { return runtime.NewString(s) }
func num(n float64) *runtime.Value { return runtime.NewNumber(n) }

// run executes code in a context seeded with the default globals.
func run(t *testing.T, code string) *runtime.Value {
	t.Helper()
	ctx := NewContext(WithOutput(&bytes.Buffer{}, &bytes.Buffer{}))
	v, err := interpreter.RunInContext(code, ctx, interpreter.PresetEnv)
	if err != nil {
		t.Fatalf("run %q: %v", code, err)
	}
	return v
}

// eval evaluates a single expression and converts the result to Go data.
func eval(t *testing.T, expr string) interface{} {
	t.Helper()
	return runtime.ToGo(run(t, "module.exports = "+expr+";"))
}

func expectEval(t *testing.T, tests []struct {
	expr string
	want interface{}
}) {
	t.Helper()
	for _, tt := range tests {
		got := eval(t, tt.expr)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s = %#v, want %#v", tt.expr, got, tt.want)
		}
	}
}

func TestInstallDefinesGlobals(t *testing.T) {
	ctx := runtime.NewContext(nil)
	Install(ctx)

	for _, name := range []string{
		"Object", "Function", "Array", "String", "Number", "Boolean",
		"Symbol", "Error", "TypeError", "ReferenceError", "SyntaxError",
		"RangeError", "URIError", "EvalError",
		"RegExp", "Map", "Set", "Promise", "Math", "JSON", "console",
		"parseInt", "parseFloat", "isNaN", "isFinite",
		"encodeURI", "decodeURI", "encodeURIComponent", "decodeURIComponent",
		"eval", "undefined", "NaN", "Infinity",
	} {
		if !ctx.Defines(name) {
			t.Errorf("missing global %s", name)
		}
	}
}

func TestInstallKeepsHostEntries(t *testing.T) {
	host := runtime.NewString("host console")
	ctx := runtime.NewContext(map[string]*runtime.Value{"console": host})
	Install(ctx)

	if ctx.Sandbox["console"] != host {
		t.Errorf("Install replaced a host-provided global")
	}
	if !ctx.Defines("JSON") {
		t.Errorf("Install skipped globals the host did not provide")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatal("no names")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %q before %q", names[i-1], names[i])
		}
	}
}

func TestIntrinsicPrototypesShared(t *testing.T) {
	got := eval(t, `[[].map === Array.prototype.map, ({}).hasOwnProperty === Object.prototype.hasOwnProperty, (function(){}).call === Function.prototype.call]`)
	want := []interface{}{true, true, true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestConsoleOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	ctx := NewContext(WithOutput(&stdout, &stderr))
	_, err := interpreter.RunInContext(`
		console.log("hello", 1, [1, 2], { a: "x" });
		console.error("bad");
		console.assert(1 === 2, "math");
	`, ctx, interpreter.PresetEnv)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := stdout.String(), "hello 1 [ 1, 2 ] { a: 'x' }\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	if got := stderr.String(); !strings.Contains(got, "bad\n") || !strings.Contains(got, "Assertion failed: math") {
		t.Errorf("stderr = %q", got)
	}
}

func TestInspect(t *testing.T) {
	l := setup()
	nested := l.realm.NewObject()
	nested.Set("n", num(1))
	obj := l.realm.NewObject()
	obj.Set("name", str("x"))
	obj.Set("inner", runtime.NewObject(nested))
	obj.Set("self", runtime.NewObject(obj))

	tests := []struct {
		v    *runtime.Value
		want string
	}{
		{runtime.Undefined, "undefined"},
		{str("a'b"), `'a\'b'`},
		{num(1.5), "1.5"},
		{l.newArray([]*runtime.Value{num(1), nil, nil, str("s")}), "[ 1, <2 empty items>, 's' ]"},
		{l.newArray(nil), "[]"},
		{runtime.NewObject(obj), "{ name: 'x', inner: { n: 1 }, self: [Circular] }"},
		{runtime.NewObject(l.newFuncObject("f", 0, nil)), "[Function: f]"},
		{l.box(str("s")), "[String: 's']"},
	}
	for _, tt := range tests {
		if got := Inspect(tt.v); got != tt.want {
			t.Errorf("Inspect() = %q, want %q", got, tt.want)
		}
	}
}

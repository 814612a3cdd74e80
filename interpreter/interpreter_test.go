package interpreter

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/example/jsvm/ast"
	"github.com/example/jsvm/parser"
	"github.com/example/jsvm/runtime"
)

func parse(t *testing.T, source string) *ast.Program {
	t.Helper()
	program, err := parser.ParseFile("test.js", source)
	if err != nil {
		t.Fatalf("parse %q: %v", source, err)
	}
	return program
}

func runSource(t *testing.T, source string, sandbox map[string]*runtime.Value, opts ...Option) (*runtime.Value, error) {
	t.Helper()
	return Run(parse(t, source), sandbox, PresetEnv, opts...)
}

func exportsOf(t *testing.T, source string) *runtime.Value {
	t.Helper()
	v, err := runSource(t, source, nil)
	if err != nil {
		t.Fatalf("run %q: %v", source, err)
	}
	return v
}

func runError(t *testing.T, source string, opts ...Option) error {
	t.Helper()
	_, err := runSource(t, source, nil, opts...)
	if err == nil {
		t.Fatalf("expected error for %q but got none", source)
	}
	return err
}

type exportCase struct {
	source string
	want   interface{}
}

// expectExports runs each source against an empty sandbox and compares the
// Go form of module.exports.
func expectExports(t *testing.T, tests []exportCase) {
	t.Helper()
	for _, tt := range tests {
		got := runtime.ToGo(exportsOf(t, tt.source))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s\n got %#v, want %#v", tt.source, got, tt.want)
		}
	}
}

func expectKind(t *testing.T, source string, target error) {
	t.Helper()
	err := runError(t, source)
	if !errors.Is(err, target) {
		t.Errorf("%s\n got %v, want %v", source, err, target)
	}
}

// --- Module protocol ---

func TestModuleExportsRoundTrip(t *testing.T) {
	expectExports(t, []exportCase{
		{`module.exports = 42;`, 42.0},
		{`module.exports = "s";`, "s"},
		{`module.exports = null;`, nil},
		{`module.exports = { a: [1, "x", null, true, { b: 2 }], c: {} };`,
			map[string]interface{}{"a": []interface{}{1.0, "x", nil, true, map[string]interface{}{"b": 2.0}}, "c": map[string]interface{}{}}},
		{`exports.a = 1; exports.b = 2;`, map[string]interface{}{"a": 1.0, "b": 2.0}},
		{``, map[string]interface{}{}},
	})
}

func TestModuleIsConst(t *testing.T) {
	expectKind(t, `module = {};`, runtime.ErrConstAssignment)
}

func TestPeopleScenario(t *testing.T) {
	v := exportsOf(t, `
		function People(name) { this.name = name }
		module.exports = { p: new People("axetroy"), People: People };
	`)
	people := v.Object.Get("People")
	p := v.Object.Get("p")
	if got := people.Object.Get("length"); got.Number != 1 {
		t.Errorf("People.length = %v, want 1", got.ToString())
	}
	if got := p.Object.Get("name"); got.Str != "axetroy" {
		t.Errorf("p.name = %q, want axetroy", got.Str)
	}
	proto := people.Object.Get("prototype").Object
	if !p.Object.InstanceOf(proto) {
		t.Error("p is not an instance of People")
	}
}

// --- Scope and binding ---

func TestDuplicateDeclaration(t *testing.T) {
	for _, source := range []string{
		`let a = 1; let a = 2;`,
		`const a = 1; const a = 2;`,
		`let a; var a;`,
		`var a; const a = 1;`,
		`function f() { let x; { var x; } } f();`,
	} {
		expectKind(t, source, runtime.ErrDuplicateDeclaration)
	}
}

func TestVarRedeclaration(t *testing.T) {
	expectExports(t, []exportCase{
		{`var a = 1; var a = 2; module.exports = a;`, 2.0},
		{`var a = 1; var a; module.exports = a;`, 1.0},
		{`let a = 1; { let a = 2; } module.exports = a;`, 1.0},
	})
}

func TestBlockVarBubblesToFunctionScope(t *testing.T) {
	expectExports(t, []exportCase{
		{`var a = 2; for (var i = 0; i < a; i++) { var b = i; } module.exports = [b, i];`, []interface{}{1.0, 2.0}},
		{`if (true) { var x = "in"; } module.exports = x;`, "in"},
		{`while (true) { { var deep = 5; } break; } module.exports = deep;`, 5.0},
		{`function f() { if (true) { var local = 3; } return local; } module.exports = f();`, 3.0},
		{`function f() { { var inner = 1; } } f(); module.exports = typeof inner;`, "undefined"},
		{`module.exports = typeof hoisted; var hoisted = 1;`, "undefined"},
	})
}

func TestLetIsBlockScoped(t *testing.T) {
	expectKind(t, `{ let hidden = 1; } module.exports = hidden;`, runtime.ErrNameNotDefined)
	expectExports(t, []exportCase{
		{`let x = 1; { let x = 2; } module.exports = x;`, 1.0},
	})
}

func TestConstAssignment(t *testing.T) {
	for _, source := range []string{
		`const a = 1; a = 2;`,
		`const a = 1; a += 1;`,
		`const a = 1; a++;`,
		`const o = {}; function f() { o = 1; } f();`,
		`try { throw 1; } catch (e) { e = 2; }`,
	} {
		expectKind(t, source, runtime.ErrConstAssignment)
	}
	expectExports(t, []exportCase{
		{`const o = { n: 1 }; o.n = 2; module.exports = o.n;`, 2.0},
	})
}

func TestImplicitGlobal(t *testing.T) {
	expectExports(t, []exportCase{
		{`function f() { leaked = 7; } f(); module.exports = leaked;`, 7.0},
		{`auto = 1; auto = auto + 1; module.exports = auto;`, 2.0},
	})
	err := runError(t, `undeclared = 1;`, WithAutoGlobal(false))
	if !errors.Is(err, runtime.ErrNameNotDefined) {
		t.Errorf("got %v, want NameNotDefined with auto-global off", err)
	}
}

func TestNameNotDefined(t *testing.T) {
	expectKind(t, `module.exports = missing;`, runtime.ErrNameNotDefined)
	expectKind(t, `missing += 1;`, runtime.ErrNameNotDefined)
	expectExports(t, []exportCase{
		{`module.exports = typeof missing;`, "undefined"},
	})
}

func TestSandboxBindings(t *testing.T) {
	sandbox := map[string]*runtime.Value{"host": runtime.NewNumber(5)}
	v, err := runSource(t, `var host = 1; module.exports = host;`, sandbox)
	if err != nil {
		t.Fatal(err)
	}
	if v.Number != 5 {
		t.Errorf("protected sandbox var = %v, want 5", v.ToString())
	}

	v, err = runSource(t, `var host = 1; module.exports = host;`, sandbox, WithSandboxProtection(false))
	if err != nil {
		t.Fatal(err)
	}
	if v.Number != 1 {
		t.Errorf("unprotected sandbox var = %v, want 1", v.ToString())
	}

	v, err = runSource(t, `host = host * 2; module.exports = host;`, sandbox)
	if err != nil {
		t.Fatal(err)
	}
	if v.Number != 10 {
		t.Errorf("assignment to sandbox name = %v, want 10", v.ToString())
	}
}

func TestClosuresCaptureByReference(t *testing.T) {
	expectExports(t, []exportCase{
		{`let n = 1; const get = () => n; n = 2; module.exports = get();`, 2.0},
		{`function counter() { let c = 0; return () => ++c; } const next = counter(); next(); module.exports = next();`, 2.0},
	})
}

func TestLoopIterationsForkScope(t *testing.T) {
	expectExports(t, []exportCase{
		{`const fns = []; for (let i = 0; i < 3; i++) { fns[i] = () => i; } module.exports = [fns[0](), fns[1](), fns[2]()];`,
			[]interface{}{0.0, 1.0, 2.0}},
		{`const fns = []; for (var i = 0; i < 3; i++) { fns[i] = () => i; } module.exports = [fns[0](), fns[2]()];`,
			[]interface{}{3.0, 3.0}},
		{`const fns = []; for (const k in { a: 1, b: 2 }) { fns[fns.length] = () => k; } module.exports = [fns[0](), fns[1]()];`,
			[]interface{}{"a", "b"}},
		{`const fns = []; for (const v of [5, 6]) { let w = v * 2; fns[fns.length] = () => w; } module.exports = [fns[0](), fns[1]()];`,
			[]interface{}{10.0, 12.0}},
	})
}

// --- Hoisting ---

func TestFunctionHoisting(t *testing.T) {
	expectExports(t, []exportCase{
		{`module.exports = early(); function early() { return "ok"; }`, "ok"},
		{`function f() { return inner(); function inner() { return 1; } } module.exports = f();`, 1.0},
		{`var f = 1; function f() {} module.exports = typeof f;`, "number"},
		{`function g() { return 1; } function g() { return 2; } module.exports = g();`, 2.0},
	})
}

func TestClassesAreNotHoisted(t *testing.T) {
	expectKind(t, `new Late(); class Late {}`, runtime.ErrNameNotDefined)
}

// --- Operators ---

func TestArithmeticAndCoercion(t *testing.T) {
	expectExports(t, []exportCase{
		{`module.exports = [2 + 3, 10 - 3, 4 * 5, 10 % 3, 2 ** 10, -5 % 3];`, []interface{}{5.0, 7.0, 20.0, 1.0, 1024.0, -2.0}},
		{`module.exports = ["num: " + 42, 1 + "2", "3" * "4", true + 1, null + 1];`, []interface{}{"num: 42", "12", 12.0, 2.0, 1.0}},
		{`module.exports = [1 / 0, -1 / 0];`, []interface{}{math.Inf(1), math.Inf(-1)}},
		{`module.exports = [5 & 3, 5 | 3, 5 ^ 3, ~5, 1 << 4, -16 >> 2, -1 >>> 28];`, []interface{}{1.0, 7.0, 6.0, -6.0, 16.0, -4.0, 15.0}},
		{`module.exports = [1 == "1", 0 == false, null == undefined, null == 0, 1 === "1"];`, []interface{}{true, true, true, false, false}},
		{`module.exports = ["a" < "b", 2 < 10, "2" < "10", null >= 0];`, []interface{}{true, true, false, true}},
		{`module.exports = [typeof 1, typeof "s", typeof null, typeof {}, typeof function () {}, typeof undefined];`,
			[]interface{}{"number", "string", "object", "object", "function", "undefined"}},
		{`module.exports = [!0, !!"x", void 0];`, []interface{}{true, true, nil}},
	})
}

func TestLogicalOperators(t *testing.T) {
	expectExports(t, []exportCase{
		{`module.exports = [0 || "b", 1 && "b", null ?? "d", 0 ?? "d"];`, []interface{}{"b", "b", "d", 0.0}},
		{`let calls = 0; const f = () => { calls++; return true; }; false && f(); true || f(); module.exports = calls;`, 0.0},
		{`let a = null; a ??= 5; let b = 1; b ||= 9; let c = 1; c &&= 3; module.exports = [a, b, c];`, []interface{}{5.0, 1.0, 3.0}},
	})
}

func TestAssignmentOperators(t *testing.T) {
	expectExports(t, []exportCase{
		{`let x = 10; x += 5; x -= 3; x *= 2; x /= 4; x %= 4; module.exports = x;`, 2.0},
		{`let y = 1; y <<= 3; y |= 1; y &= 13; y ^= 1; y >>= 1; module.exports = y;`, 4.0},
		{`let z = 2; z **= 3; module.exports = z;`, 8.0},
		{`let s = "a"; s += 1; module.exports = s;`, "a1"},
		{`const o = { n: 1 }; o.n += 2; o["n"] *= 3; module.exports = o.n;`, 9.0},
		{`let a, b; a = b = 3; module.exports = a + b;`, 6.0},
	})
}

func TestUpdateExpressions(t *testing.T) {
	expectExports(t, []exportCase{
		{`let i = 1; const a = i++; const b = ++i; module.exports = [a, b, i];`, []interface{}{1.0, 3.0, 3.0}},
		{`const o = { n: "5" }; o.n--; module.exports = o.n;`, 4.0},
		{`let s = "x"; s++; module.exports = typeof s;`, "number"},
	})
}

func TestAssignmentEvaluationOrder(t *testing.T) {
	expectExports(t, []exportCase{
		{`const log = []; const o = {}; function obj() { log[log.length] = "obj"; return o; } function key() { log[log.length] = "key"; return "k"; } function val() { log[log.length] = "val"; return 1; } obj()[key()] = val(); module.exports = log;`,
			[]interface{}{"obj", "val", "key"}},
		{`const log = []; const o = { k: 1 }; function obj() { log[log.length] = "obj"; return o; } function key() { log[log.length] = "key"; return "k"; } function val() { log[log.length] = "val"; return 2; } obj()[key()] += val(); module.exports = [log, o.k];`,
			[]interface{}{[]interface{}{"obj", "val", "key"}, 3.0}},
		{`const log = []; const o = { k: 1 }; function key() { log[log.length] = "key"; return "k"; } function val() { log[log.length] = "val"; return 2; } o[key()] ||= val(); module.exports = [log, o.k];`,
			[]interface{}{[]interface{}{"key"}, 1.0}},
	})
}

func TestMembersAndOperators(t *testing.T) {
	expectExports(t, []exportCase{
		{`const o = { a: 1 }; module.exports = ["a" in o, "b" in o, delete o.a, "a" in o];`, []interface{}{true, false, true, false}},
		{`const o = { a: { b: null } }; module.exports = [o?.a?.b, o.x?.y, o.x?.y.z, o.f?.()];`, []interface{}{nil, nil, nil, nil}},
		{`const arr = [1, 2, 3]; module.exports = [arr.length, arr[1], "abc"[1], "abc".length];`, []interface{}{3.0, 2.0, "b", 3.0}},
		{`const k = "dyn"; module.exports = { [k + 1]: true, "quoted key": 2, 3: "num" };`,
			map[string]interface{}{"dyn1": true, "quoted key": 2.0, "3": "num"}},
		{`const a = 1, b = 2; module.exports = { a, b };`, map[string]interface{}{"a": 1.0, "b": 2.0}},
		{`const o = { get v() { return this._v * 2; }, set v(x) { this._v = x; } }; o.v = 4; module.exports = o.v;`, 8.0},
		{`module.exports = (1, 2, 3);`, 3.0},
		{`module.exports = true ? "yes" : "no";`, "yes"},
	})
}

func TestPropertyAccessOnNullish(t *testing.T) {
	for _, source := range []string{
		`const o = null; o.x;`,
		`let u; u.x;`,
		`let u; u.x = 1;`,
		`const o = {}; o.missing.deeper;`,
	} {
		expectKind(t, source, runtime.ErrPropertyAccessOnNullOrUndefined)
	}
}

func TestNotAFunction(t *testing.T) {
	err := runError(t, `const o = { notFn: 1 }; o.notFn();`)
	if !errors.Is(err, runtime.ErrNotAFunction) {
		t.Fatalf("got %v, want NotAFunction", err)
	}
	if !strings.Contains(err.Error(), "o.notFn is not a function") {
		t.Errorf("error %q does not name the callee", err)
	}
	expectKind(t, `undefined_fn = 3; undefined_fn();`, runtime.ErrNotAFunction)
}

func TestNotAConstructor(t *testing.T) {
	expectKind(t, `const f = () => {}; new f();`, runtime.ErrNotAConstructor)
	expectKind(t, `const o = { m() {} }; new o.m();`, runtime.ErrNotAConstructor)
}

// --- Control flow ---

func TestIfAndLoops(t *testing.T) {
	expectExports(t, []exportCase{
		{`let r; if (0) { r = "a"; } else if ("") { r = "b"; } else { r = "c"; } module.exports = r;`, "c"},
		{`let s = 0, i = 0; while (i < 5) { s += i; i++; } module.exports = s;`, 10.0},
		{`let n = 0; do { n++; } while (false); module.exports = n;`, 1.0},
		{`let s = 0; for (let i = 0; i < 10; i++) { if (i % 2) continue; if (i > 6) break; s += i; } module.exports = s;`, 12.0},
		{`const keys = []; for (const k in { x: 1, y: 2 }) keys[keys.length] = k; module.exports = keys;`, []interface{}{"x", "y"}},
		{`let out = ""; for (const ch of "héllo") out = ch + out; module.exports = out;`, "olléh"},
		{`let s = 0; for (const [k, v] of [["a", 1], ["b", 2]]) s += v; module.exports = s;`, 3.0},
		{`let i = 0; for (;;) { if (++i === 4) break; } module.exports = i;`, 4.0},
	})
}

func TestForInWalksPrototypeChain(t *testing.T) {
	expectExports(t, []exportCase{
		{`function Base() { this.own = 1; } Base.prototype.inherited = 2; const keys = []; for (const k in new Base()) keys[keys.length] = k; module.exports = keys;`,
			[]interface{}{"own", "inherited"}},
		{`const keys = []; for (const i in ["a", "b"]) keys[keys.length] = i; module.exports = keys;`, []interface{}{"0", "1"}},
		{`let n = 0; for (const k in null) n++; module.exports = n;`, 0.0},
	})
}

func TestLabeledBreakContinue(t *testing.T) {
	expectExports(t, []exportCase{
		{`const hits = []; outer: for (let i = 0; i < 3; i++) { for (let j = 0; j < 3; j++) { if (j === 1) continue outer; if (i === 2) break outer; hits[hits.length] = i + ":" + j; } } module.exports = hits;`,
			[]interface{}{"0:0", "1:0"}},
		{`let n = 0; outer: while (true) { inner: while (true) { n++; break outer; } } module.exports = n;`, 1.0},
		{`let n = 0; block: { n = 1; break block; n = 2; } module.exports = n;`, 1.0},
		{`let n = 0; a: b: for (let i = 0; i < 5; i++) { if (i === 2) continue a; if (i === 3) break b; n += 10; } module.exports = n;`, 20.0},
		{`let n = 0; outer: for (let i = 0; i < 2; i++) { switch (i) { case 0: continue outer; default: n++; } } module.exports = n;`, 1.0},
	})
}

func TestSwitch(t *testing.T) {
	expectExports(t, []exportCase{
		{`function f(x) { switch (x) { case 1: return "one"; case "1": return "string"; default: return "other"; } } module.exports = [f(1), f("1"), f(2)];`,
			[]interface{}{"one", "string", "other"}},
		{`const log = []; switch (2) { case 1: log[log.length] = 1; case 2: log[log.length] = 2; case 3: log[log.length] = 3; break; case 4: log[log.length] = 4; } module.exports = log;`,
			[]interface{}{2.0, 3.0}},
		{`let r = ""; switch (9) { default: r += "d"; case 1: r += "1"; } module.exports = r;`, "d1"},
		{`let n = 0; for (let i = 0; i < 3; i++) { switch (i) { case 1: continue; } n++; } module.exports = n;`, 2.0},
		{`switch (1) { case 1: var fromCase = "v"; } module.exports = fromCase;`, "v"},
	})
}

func TestTryCatchFinally(t *testing.T) {
	expectExports(t, []exportCase{
		{`let r; try { throw "boom"; } catch (e) { r = e; } module.exports = r;`, "boom"},
		{`const log = []; try { log[0] = "try"; } finally { log[1] = "finally"; } module.exports = log;`, []interface{}{"try", "finally"}},
		{`function f() { try { return "try"; } finally { return "finally"; } } module.exports = f();`, "finally"},
		{`function f() { try { throw 1; } catch (e) { return "catch"; } finally { } } module.exports = f();`, "catch"},
		{`function f() { try { throw 1; } finally { return "override"; } } module.exports = f();`, "override"},
		{`let n = 0; for (let i = 0; i < 3; i++) { try { continue; } finally { n++; } } module.exports = n;`, 3.0},
		{`let r; try { try { throw "inner"; } finally { r = "ran"; } } catch (e) { r += ":" + e; } module.exports = r;`, "ran:inner"},
		{`let r; try { throw { code: 7 }; } catch ({ code }) { r = code; } module.exports = r;`, 7.0},
		{`let r = "no"; try { throw 1; } catch { r = "bare"; } module.exports = r;`, "bare"},
	})
}

func TestUncaughtThrow(t *testing.T) {
	err := runError(t, `function thrower() { throw "plain"; } thrower();`)
	var ex *runtime.Exception
	if !errors.As(err, &ex) {
		t.Fatalf("got %T, want *runtime.Exception", err)
	}
	if ex.Value.Str != "plain" {
		t.Errorf("thrown value = %v, want plain", ex.Value.ToString())
	}
	if len(ex.Stack) == 0 || ex.Stack[0].Name != "thrower" {
		t.Errorf("stack = %v, want thrower innermost", ex.Stack)
	}
}

func TestEngineErrorsAreCatchable(t *testing.T) {
	expectExports(t, []exportCase{
		{`let r; try { missing; } catch (e) { r = e.message; } module.exports = r;`, "missing is not defined"},
		{`let r; try { null.x; } catch (e) { r = e.name; } module.exports = r;`, "TypeError"},
		{`let r; try { const c = 1; c = 2; } catch (e) { r = e.message; } module.exports = r;`, "Assignment to constant variable."},
	})
}

func TestStackOverflow(t *testing.T) {
	expectKind(t, `function loop() { return loop(); } loop();`, runtime.ErrStackOverflow)
	v := exportsOf(t, `function loop() { loop(); } let r; try { loop(); } catch (e) { r = e.name; } module.exports = r;`)
	if v.Str != "RangeError" {
		t.Errorf("got %v, want RangeError", v.ToString())
	}
}

// --- Functions ---

func TestFunctionCalls(t *testing.T) {
	expectExports(t, []exportCase{
		{`function add(a, b = 10, ...rest) { return a + b + rest.length; } module.exports = [add(1), add(1, 2), add(1, 2, 3, 4), add.length];`,
			[]interface{}{11.0, 3.0, 5.0, 1.0}},
		{`function f() { return arguments.length; } module.exports = f(1, 2, 3);`, 3.0},
		{`function f() {} module.exports = f();`, nil},
		{`function f() { 1 + 1; } module.exports = typeof f();`, "undefined"},
		{`const f = function named() { return typeof named; }; module.exports = [f(), typeof named];`, []interface{}{"function", "undefined"}},
		{`function fact(n) { return n <= 1 ? 1 : n * fact(n - 1); } module.exports = fact(10);`, 3628800.0},
		{`const f = (a, { b }, [c]) => a + b + c; module.exports = f(1, { b: 2 }, [3]);`, 6.0},
		{`function f(a, b = a * 2) { return b; } module.exports = f(4);`, 8.0},
		{`const anon = function () {}; const arrow = () => {}; module.exports = [anon.name, arrow.name];`, []interface{}{"anon", "arrow"}},
	})
}

func TestThisBinding(t *testing.T) {
	expectExports(t, []exportCase{
		{`const o = { n: 1, get() { return this.n; } }; module.exports = o.get();`, 1.0},
		{`const o = { n: 2, outer() { return (() => this.n)(); } }; module.exports = o.outer();`, 2.0},
		{`function f() { return this; } module.exports = f() === undefined;`, true},
		{`module.exports = this === undefined;`, true},
	})
}

func TestNewSemantics(t *testing.T) {
	expectExports(t, []exportCase{
		{`function P() { this.name = 1; return { a: 1 }; } module.exports = new P();`, map[string]interface{}{"a": 1.0}},
		{`const o = { a: 1 }; function P() { this.name = 1; return o; } module.exports = new P() === o;`, true},
		{`function P() { this.name = 1; return 5; } module.exports = new P().name;`, 1.0},
		{`function F() { return new.target === F; } module.exports = [new F() instanceof F, F()];`, []interface{}{true, false}},
		{`function A() {} A.prototype.greet = function () { return "hi " + this.n; }; const a = new A(); a.n = "x"; module.exports = a.greet();`, "hi x"},
		{`function A() {} const a = new A(); module.exports = a.constructor === A;`, true},
		{`function A() {} module.exports = new A instanceof A;`, true},
	})
}

// --- Classes ---

func TestClasses(t *testing.T) {
	expectExports(t, []exportCase{
		{`class Point { constructor(x, y) { this.x = x; this.y = y; } sum() { return this.x + this.y; } } module.exports = new Point(1, 2).sum();`, 3.0},
		{`class A { static make() { return "made"; } } module.exports = A.make();`, "made"},
		{`class T { constructor() { this._t = 0; } get t() { return this._t; } set t(v) { this._t = v * 2; } } const x = new T(); x.t = 5; module.exports = x.t;`, 10.0},
		{`class F { count = 3; } module.exports = new F().count;`, 3.0},
		{`class Base { hello() { return "base"; } } class Child extends Base { hello() { return super.hello() + "+child"; } } module.exports = new Child().hello();`, "base+child"},
		{`class Base { constructor(n) { this.n = n; } } class Child extends Base { constructor() { super(7); this.m = 1; } } const c = new Child(); module.exports = [c.n, c.m, c instanceof Base];`,
			[]interface{}{7.0, 1.0, true}},
		{`class Base { constructor(v) { this.v = v; } } class Child extends Base {} module.exports = new Child(4).v;`, 4.0},
		{`class A {} module.exports = typeof A;`, "function"},
		{`const K = class Named {}; module.exports = K.name;`, "Named"},
		{`class A { m() {} } const keys = []; for (const k in new A()) keys[keys.length] = k; module.exports = keys.length;`, 0.0},
	})
}

func TestClassErrors(t *testing.T) {
	expectKind(t, `class Base {} class Child extends Base { constructor() { this.x = 1; } } new Child();`, runtime.ErrNoSuperCall)
	err := runError(t, `class A {} A();`)
	if !strings.Contains(err.Error(), "cannot be invoked without 'new'") {
		t.Errorf("got %v", err)
	}
}

// --- Destructuring, spread and templates ---

func TestDestructuring(t *testing.T) {
	expectExports(t, []exportCase{
		{`const [a, , b = 5, ...rest] = [1, 2, undefined, 4, 5]; module.exports = [a, b, rest];`, []interface{}{1.0, 5.0, []interface{}{4.0, 5.0}}},
		{`const { x, y: renamed, z = 9, missing } = { x: 1, y: 2 }; module.exports = [x, renamed, z, missing];`, []interface{}{1.0, 2.0, 9.0, nil}},
		{`const { a, ...others } = { a: 1, b: 2, c: 3 }; module.exports = others;`, map[string]interface{}{"b": 2.0, "c": 3.0}},
		{`const { p: { q } } = { p: { q: "deep" } }; module.exports = q;`, "deep"},
		{`let a = 1, b = 2; [a, b] = [b, a]; module.exports = [a, b];`, []interface{}{2.0, 1.0}},
		{`const [c1, c2] = "hi"; module.exports = c1 + c2;`, "hi"},
		{`let o = {}; ({ k: o.k } = { k: "set" }); module.exports = o.k;`, "set"},
	})
}

func TestDestructuringNotIterable(t *testing.T) {
	expectKind(t, `const [a] = 5;`, runtime.ErrNotIterable)
	expectKind(t, `const [a] = {};`, runtime.ErrNotIterable)
	expectKind(t, `for (const x of 1) {}`, runtime.ErrNotIterable)
}

func TestSpreadAndTemplates(t *testing.T) {
	expectExports(t, []exportCase{
		{`const a = [1, 2]; module.exports = [0, ...a, 3];`, []interface{}{0.0, 1.0, 2.0, 3.0}},
		{`const o = { a: 1 }; module.exports = { ...o, b: 2 };`, map[string]interface{}{"a": 1.0, "b": 2.0}},
		{`function sum(a, b, c) { return a + b + c; } module.exports = sum(...[1, 2, 3]);`, 6.0},
		{`const name = "w"; module.exports = ` + "`hello ${name}! ${1 + 1}`" + `;`, "hello w! 2"},
		{`function tag(strs, ...vals) { return strs.length + ":" + vals.length; } module.exports = tag` + "`a${1}b${2}`" + `;`, "3:2"},
		{`function tag(strs, v) { return strs[0] + "|" + v + "|" + strs[1]; } module.exports = tag` + "`x${42}y`" + `;`, "x|42|y"},
		{`module.exports = [..."ab"];`, []interface{}{"a", "b"}},
	})
}

// --- Generators and async ---

func TestGenerators(t *testing.T) {
	expectExports(t, []exportCase{
		{`function* g() { yield 1; yield 2; return 3; } const it = g(); module.exports = [it.next().value, it.next().value, it.next(), it.next()];`,
			[]interface{}{1.0, 2.0, map[string]interface{}{"value": 3.0, "done": true}, map[string]interface{}{"value": nil, "done": true}}},
		{`function* g() { for (let i = 0; i < 3; i++) yield i; } const out = []; for (const v of g()) out[out.length] = v; module.exports = out;`,
			[]interface{}{0.0, 1.0, 2.0}},
		{`function* inner() { yield "a"; yield "b"; } function* outer() { yield* inner(); yield "c"; } module.exports = [...outer()];`,
			[]interface{}{"a", "b", "c"}},
		{`const log = []; function* g() { log[log.length] = "start"; yield 1; log[log.length] = "after"; } const it = g(); module.exports = [log.length, it.next().value, log.length];`,
			[]interface{}{0.0, 1.0, 1.0}},
		{`function* g() { yield 1; yield 2; } const it = g(); it.next(); module.exports = [it.return(9), it.next().done];`,
			[]interface{}{map[string]interface{}{"value": 9.0, "done": true}, true}},
		{`const o = { *items() { yield 1; yield 2; } }; module.exports = [...o.items()];`, []interface{}{1.0, 2.0}},
	})
}

func TestGeneratorThrow(t *testing.T) {
	v := exportsOf(t, `function* g() { yield 1; } const it = g(); let r; try { it.throw("stop"); } catch (e) { r = e; } module.exports = [r, it.next().done];`)
	want := []interface{}{"stop", true}
	if got := runtime.ToGo(v); !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestAsyncFunctions(t *testing.T) {
	v := exportsOf(t, `
		async function double(x) { return x * 2; }
		async function main() { const a = await double(2); const b = await 3; return a + b; }
		module.exports = main();
	`)
	promise := runtime.PromiseOf(v)
	if promise == nil {
		t.Fatalf("async function returned %v, want a promise", v.ToString())
	}
	if promise.State != runtime.PromiseFulfilled || promise.Result.Number != 7 {
		t.Errorf("promise state %v result %v, want fulfilled 7", promise.State, promise.Result.ToString())
	}

	v = exportsOf(t, `async function fails() { throw "bad"; } module.exports = fails();`)
	promise = runtime.PromiseOf(v)
	if promise.State != runtime.PromiseRejected || promise.Result.Str != "bad" {
		t.Errorf("promise state %v result %v, want rejected bad", promise.State, promise.Result.ToString())
	}

	v = exportsOf(t, `async function f() { try { await (async () => { throw "inner"; })(); } catch (e) { return "caught " + e; } } module.exports = f();`)
	if promise = runtime.PromiseOf(v); promise.Result.Str != "caught inner" {
		t.Errorf("await rejection result = %v, want caught inner", promise.Result.ToString())
	}
}

// --- Dispatch table and presets ---

func TestDispatchCoversEveryKind(t *testing.T) {
	table := TableFor(PresetEnv)
	for _, kind := range ast.EvaluatedKinds() {
		if !table.Has(kind) {
			t.Errorf("env table has no rule for %s", kind)
		}
	}
	if got, want := len(table.Kinds()), len(ast.EvaluatedKinds()); got != want {
		t.Errorf("env table has %d rules, want %d", got, want)
	}
}

func TestES5PresetExcludesModernSyntax(t *testing.T) {
	table := TableFor(PresetES5)
	for _, kind := range es5Excluded {
		if table.Has(kind) {
			t.Errorf("es5 table has a rule for %s", kind)
		}
	}
	if !table.Has(ast.KindForInStatement) {
		t.Error("es5 table is missing for-in")
	}

	for _, source := range []string{
		`module.exports = () => 1;`,
		`class A {}`,
		"module.exports = `t`;",
		`const [a] = [1];`,
		`function* g() {}; g();`,
	} {
		_, err := Run(parse(t, source), nil, PresetES5)
		if !errors.Is(err, runtime.ErrUnsupportedSyntax) {
			t.Errorf("es5 %q: got %v, want UnsupportedSyntax", source, err)
		}
	}

	v, err := Run(parse(t, `var o = { a: 1 }; var n = 0; for (var k in o) n++; module.exports = n;`), nil, PresetES5)
	if err != nil || v.Number != 1 {
		t.Errorf("es5 for-in = %v, %v", v, err)
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		name    string
		want    Preset
		wantErr bool
	}{
		{"", PresetEnv, false},
		{"env", PresetEnv, false},
		{"es5", PresetES5, false},
		{"es3", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePreset(tt.name)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParsePreset(%q) = %q, %v", tt.name, got, err)
		}
	}
	if _, err := Run(parse(t, `1;`), nil, Preset("nope")); err == nil {
		t.Error("Run accepted an unknown preset")
	}
}

func TestTablesAreCached(t *testing.T) {
	if TableFor(PresetEnv) != TableFor(PresetEnv) {
		t.Error("TableFor built the env table twice")
	}
}

// --- Entry points ---

func TestRunInContextKeepsSandbox(t *testing.T) {
	ctx := NewContext(map[string]*runtime.Value{"base": runtime.NewNumber(10)})
	for i := 0; i < 2; i++ {
		v, err := RunInContext(`module.exports = base + 1;`, ctx, PresetEnv)
		if err != nil {
			t.Fatal(err)
		}
		if v.Number != 11 {
			t.Errorf("run %d = %v, want 11", i, v.ToString())
		}
	}
	if ctx.Defines("leak") {
		t.Fatal("precondition: leak defined")
	}
	if _, err := RunInContext(`leak = 1;`, ctx, PresetEnv); err != nil {
		t.Fatal(err)
	}
	if ctx.Defines("leak") {
		t.Error("implicit global leaked into the sandbox")
	}
}

func TestRunInContextSyntaxError(t *testing.T) {
	if _, err := RunInContext(`let = ;`, NewContext(nil), PresetEnv); err == nil {
		t.Error("expected a parse error")
	}
}

func TestRunNilProgram(t *testing.T) {
	if _, err := Run(nil, nil, PresetEnv); err == nil {
		t.Error("Run(nil) succeeded")
	}
}

func TestHostFunctions(t *testing.T) {
	realm := runtime.NewRealm()
	var got []string
	record := runtime.NewObject(realm.NewFunction("record", 1, func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		for _, a := range args {
			got = append(got, a.ToString())
		}
		return runtime.NewNumber(float64(len(args))), nil
	}))
	failing := runtime.NewObject(realm.NewFunction("failing", 0, func(*runtime.Value, []*runtime.Value) (*runtime.Value, error) {
		return nil, errors.New("RangeError: out of range")
	}))
	sandbox := map[string]*runtime.Value{"record": record, "failing": failing}

	v, err := runSource(t, `module.exports = record("a", 1, true);`, sandbox)
	if err != nil {
		t.Fatal(err)
	}
	if v.Number != 3 || strings.Join(got, ",") != "a,1,true" {
		t.Errorf("record returned %v with args %v", v.ToString(), got)
	}

	v, err = runSource(t, `let r; try { failing(); } catch (e) { r = e.name + ":" + e.message; } module.exports = r;`, sandbox)
	if err != nil {
		t.Fatal(err)
	}
	if v.Str != "Error:out of range" && v.Str != "RangeError:out of range" {
		t.Errorf("host error surfaced as %q", v.Str)
	}
}

func TestScriptFunctionsCallableFromHost(t *testing.T) {
	v := exportsOf(t, `module.exports = function (a, b) { if (b === 0) throw "div by zero"; return a / b; };`)
	res, err := v.Object.Callable(runtime.Undefined, []*runtime.Value{runtime.NewNumber(6), runtime.NewNumber(3)})
	if err != nil || res.Number != 2 {
		t.Fatalf("call = %v, %v", res, err)
	}
	_, err = v.Object.Callable(runtime.Undefined, []*runtime.Value{runtime.NewNumber(1), runtime.NewNumber(0)})
	var ex *runtime.Exception
	if !errors.As(err, &ex) || ex.Value.Str != "div by zero" {
		t.Errorf("got %v, want thrown div by zero", err)
	}
}

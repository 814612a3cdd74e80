package builtins

import (
	"errors"
	"strings"
	"testing"

	"github.com/example/jsvm/runtime"
)

func TestErrorObjects(t *testing.T) {
	expectEval(t, []struct {
		expr string
		want interface{}
	}{
		{`new Error("boom").message`, "boom"},
		{`String(new TypeError("bad"))`, "TypeError: bad"},
		{`String(new Error())`, "Error"},
		{`Error("called").message`, "called"},
		{`new RangeError("r") instanceof Error`, true},
		{`new RangeError("r") instanceof TypeError`, false},
		{`new SyntaxError("s").name`, "SyntaxError"},
		{`Object.getPrototypeOf(TypeError) === Error`, true},
		{`new Error("x", { cause: 42 }).cause`, 42.0},
		{`new Error("m").stack.indexOf("Error: m") === 0`, true},
		{`(() => { try { null.x; } catch (e) { return e instanceof TypeError; } })()`, true},
		{`(() => { try { missing; } catch (e) { return e.name; } })()`, "ReferenceError"},
		{`(() => { try { JSON.parse("{"); } catch (e) { return e instanceof SyntaxError; } })()`, true},
	})
}

func TestErrorValue(t *testing.T) {
	l := setup()
	tests := []struct {
		err      error
		wantName string
		wantMsg  string
	}{
		{errors.New("RangeError: too big"), "RangeError", "too big"},
		{errors.New("plain failure"), "Error", "plain failure"},
		{errors.New("Custom: kept"), "Error", "Custom: kept"},
		{runtime.ErrorNotAFunction("f"), "TypeError", "f is not a function"},
	}
	for _, tt := range tests {
		v := l.errorValue(tt.err)
		if got := v.Object.Get("name").ToString(); got != tt.wantName {
			t.Errorf("errorValue(%v).name = %q, want %q", tt.err, got, tt.wantName)
		}
		if got := v.Object.Get("message").ToString(); got != tt.wantMsg {
			t.Errorf("errorValue(%v).message = %q, want %q", tt.err, got, tt.wantMsg)
		}
	}

	thrown := str("raw")
	if got := l.errorValue(&runtime.Exception{Value: thrown}); got != thrown {
		t.Errorf("errorValue(Exception) = %v, want the thrown value", got.ToString())
	}
}

func TestCaughtThrowsLeaveNoFrames(t *testing.T) {
	code := `function f() { try { throw new Error("f"); } catch (e) {} }
function h() { throw new Error("h"); }
function g() { throw new Error("x"); }
f();
try { [1].forEach(h); } catch (e) {}
let s;
try { g(); } catch (e) { s = e.stack; }
module.exports = s;`
	stack := run(t, code).ToString()
	if !strings.HasPrefix(stack, "Error: x\n    at g (<input>:7:") {
		t.Fatalf("stack = %q, want it to start at g", stack)
	}
	if n := strings.Count(stack, "\n"); n != 1 {
		t.Errorf("stack = %q, want exactly one frame", stack)
	}
}

package builtins

import (
	"math"
	"testing"

	"github.com/example/jsvm/runtime"
)

func TestGlobalFunctions(t *testing.T) {
	expectEval(t, []struct {
		expr string
		want interface{}
	}{
		{`parseInt("42px")`, 42.0},
		{`parseInt("  -17")`, -17.0},
		{`parseInt("0x1A")`, 26.0},
		{`parseInt("ff", 16)`, 255.0},
		{`parseInt("101", 2)`, 5.0},
		{`isNaN(parseInt("z"))`, true},
		{`parseFloat("3.14abc")`, 3.14},
		{`parseFloat(".5")`, 0.5},
		{`parseFloat("-Infinityx")`, math.Inf(-1)},
		{`isNaN("abc")`, true},
		{`isFinite("12")`, true},
		{`encodeURIComponent("a b&c/é")`, "a%20b%26c%2F%C3%A9"},
		{`encodeURI("http://x.y/a b?q=1#f")`, "http://x.y/a%20b?q=1#f"},
		{`decodeURIComponent("a%20b%26")`, "a b&"},
		{`decodeURI("%41%26")`, "A%26"},
		{`decodeURIComponent("%C3%A9")`, "é"},
		{`typeof undefined`, "undefined"},
	})
}

func TestDecodeURIMalformed(t *testing.T) {
	for _, s := range []string{"%", "%4", "%zz", "%C3", "%FF"} {
		if _, err := decodeURI(s, ""); err == nil {
			t.Errorf("decodeURI(%q) succeeded, want URIError", s)
		}
	}
}

func TestEvalDisabled(t *testing.T) {
	if _, err := globalEval(runtime.Undefined, []*runtime.Value{str("1")}); err == nil {
		t.Error("eval succeeded")
	}
}

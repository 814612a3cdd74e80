package builtins

import (
	"testing"

	"github.com/example/jsvm/runtime"
)

func TestStringSliceDirect(t *testing.T) {
	tests := []struct {
		s          string
		start, end *runtime.Value
		want       string
	}{
		{"hello", num(1), num(3), "el"},
		{"hello", num(-3), runtime.Undefined, "llo"},
		{"hello", num(4), num(1), ""},
		{"héllo", num(1), num(2), "é"},
	}
	for _, tt := range tests {
		got, err := stringSlice(str(tt.s), []*runtime.Value{tt.start, tt.end})
		if err != nil {
			t.Fatal(err)
		}
		if got.Str != tt.want {
			t.Errorf("%q.slice(%v, %v) = %q, want %q", tt.s, tt.start.ToString(), tt.end.ToString(), got.Str, tt.want)
		}
	}
}

func TestStringRejectsNullReceiver(t *testing.T) {
	if _, err := stringTrim(runtime.Null, nil); err == nil {
		t.Error("expected TypeError for null receiver")
	}
}

func TestStringMethods(t *testing.T) {
	expectEval(t, []struct {
		expr string
		want interface{}
	}{
		{`"abc".length`, 3.0},
		{`"abc".charAt(1)`, "b"},
		{`"abc".charCodeAt(0)`, 97.0},
		{`"abcabc".indexOf("c")`, 2.0},
		{`"abcabc".lastIndexOf("c")`, 5.0},
		{`"abc".includes("bc")`, true},
		{`"abc".startsWith("ab")`, true},
		{`"abc".endsWith("b", 2)`, true},
		{`"abcdef".substring(4, 1)`, "bcd"},
		{`"abcdef".substr(-3, 2)`, "de"},
		{`"MiXeD".toLowerCase()`, "mixed"},
		{`"  pad \n".trim()`, "pad"},
		{`"5".padStart(3, "0")`, "005"},
		{`"ab".padEnd(5, "xy")`, "abxyx"},
		{`"ab".repeat(3)`, "ababab"},
		{`"a".concat("b", 1)`, "ab1"},
		{`"abc".at(-1)`, "c"},
		{`String(12)`, "12"},
		{`String.fromCharCode(72, 105)`, "Hi"},
		{`typeof new String("x")`, "object"},
		{`new String("x") + "y"`, "xy"},
		{`[..."héllo"].length`, 5.0},
	})
}

func TestStringSplit(t *testing.T) {
	expectEval(t, []struct {
		expr string
		want interface{}
	}{
		{`"a,b,c".split(",")`, []interface{}{"a", "b", "c"}},
		{`"a,b,c".split(",", 2)`, []interface{}{"a", "b"}},
		{`"abc".split("")`, []interface{}{"a", "b", "c"}},
		{`"abc".split()`, []interface{}{"abc"}},
		{`"a1b22c".split(/\d+/)`, []interface{}{"a", "b", "c"}},
		{`"a1b".split(/(\d)/)`, []interface{}{"a", "1", "b"}},
		{`"".split(",")`, []interface{}{""}},
	})
}

func TestStringReplace(t *testing.T) {
	expectEval(t, []struct {
		expr string
		want interface{}
	}{
		{`"aaa".replace("a", "b")`, "baa"},
		{`"aaa".replaceAll("a", "b")`, "bbb"},
		{`"aaa".replace(/a/g, "b")`, "bbb"},
		{`"john smith".replace(/(\w+)\s(\w+)/, "$2, $1")`, "smith, john"},
		{`"2024-01-02".replace(/(?<y>\d+)-(?<m>\d+)-(?<d>\d+)/, "$<d>/$<m>/$<y>")`, "02/01/2024"},
		{`"abc".replace("b", "[$&]")`, "a[b]c"},
		{`"abc".replace(/b/, (m, pos) => m.toUpperCase() + pos)`, "aB1c"},
		{`"x".replace("y", "z")`, "x"},
	})
}

func TestStringReplaceAllNeedsGlobal(t *testing.T) {
	v := run(t, `
		let msg = "";
		try { "a".replaceAll(/a/, "b"); } catch (e) { msg = e.name; }
		module.exports = msg;
	`)
	if v.Str != "TypeError" {
		t.Errorf("got %q, want TypeError", v.Str)
	}
}

func TestStringMatch(t *testing.T) {
	expectEval(t, []struct {
		expr string
		want interface{}
	}{
		{`"a1b22".match(/\d+/g)`, []interface{}{"1", "22"}},
		{`"a1b22".match(/\d+/).index`, 1.0},
		{`"abc".match(/x/)`, nil},
		{`"a1b22".search(/\d/)`, 1.0},
		{`[..."a1b2".matchAll(/\d/g)].map(m => m[0] + "@" + m.index)`, []interface{}{"1@1", "2@3"}},
	})
}

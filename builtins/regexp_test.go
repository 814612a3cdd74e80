package builtins

import (
	"testing"

	"github.com/example/jsvm/runtime"
)

func TestCompileRegExpFlags(t *testing.T) {
	tests := []struct {
		flags   string
		wantErr bool
	}{
		{"", false},
		{"gimsuy", false},
		{"gg", true},
		{"x", true},
	}
	for _, tt := range tests {
		_, err := compileRegExp("a", tt.flags)
		if (err != nil) != tt.wantErr {
			t.Errorf("compileRegExp(%q) error = %v, wantErr %v", tt.flags, err, tt.wantErr)
		}
	}
}

func TestRegExpInvalidPattern(t *testing.T) {
	l := setup()
	if _, err := l.newRegExp("(", ""); err == nil {
		t.Error("expected SyntaxError for unbalanced group")
	}
}

func TestRegExpMethods(t *testing.T) {
	expectEval(t, []struct {
		expr string
		want interface{}
	}{
		{`/b+/.test("abbc")`, true},
		{`/B/i.test("abc")`, true},
		{`/^b/m.test("a\nb")`, true},
		{`new RegExp("a.c").test("abc")`, true},
		{`String(/a\/b/g)`, `/a\/b/g`},
		{`/(\d)(\d)?/.exec("x1")`, []interface{}{"1", "1", nil}},
		{`/(?<word>\w+)/.exec("hi there").groups.word`, "hi"},
		{`new RegExp(/ab/g).flags`, "g"},
		{`(() => { const r = /a/g; r.exec("aa"); return r.lastIndex; })()`, 1.0},
		{`(() => { const r = /a/y; r.lastIndex = 1; return r.test("ba"); })()`, true},
		{`(() => { const r = /a/y; return r.test("ba"); })()`, false},
	})
}

func TestExpandReplacement(t *testing.T) {
	input := []rune("xabcx")
	tests := []struct {
		tmpl string
		want string
	}{
		{"[$&]", "[abc]"},
		{"$`", "x"},
		{"$'", "x"},
		{"$$", "$"},
		{"$1", "b"},
		{"$9", "$9"},
		{"$", "$"},
	}
	captures := []*runtime.Value{str("b")}
	for _, tt := range tests {
		got := expandReplacement(tt.tmpl, "abc", input, 1, captures, runtime.Undefined)
		if got != tt.want {
			t.Errorf("expandReplacement(%q) = %q, want %q", tt.tmpl, got, tt.want)
		}
	}
}

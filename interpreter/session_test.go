package interpreter

import (
	"testing"

	"github.com/example/jsvm/runtime"
)

func TestSessionKeepsDeclarations(t *testing.T) {
	s := NewSession(nil, PresetEnv)
	if _, err := s.Eval(`var a = 2; let b = 3; function sq(n) { return n * n; }`); err != nil {
		t.Fatal(err)
	}
	v, err := s.Eval(`sq(a) + b`)
	if err != nil {
		t.Fatal(err)
	}
	if v.Type != runtime.TypeNumber || v.Number != 7 {
		t.Errorf("completion = %v, want 7", runtime.ToGo(v))
	}
	for _, name := range []string{"this", "module", "exports"} {
		if s.Context.Defines(name) {
			t.Errorf("%s leaked into the sandbox", name)
		}
	}
}

func TestSessionCompletionValue(t *testing.T) {
	s := NewSession(nil, PresetEnv)
	tests := []struct {
		code string
		want interface{}
	}{
		{`"a" + "b"`, "ab"},
		{`if (true) { 1; } else { 2; }`, 1.0},
		{`var x = 5;`, nil},
		{`x * 2`, 10.0},
	}
	for _, tt := range tests {
		v, err := s.Eval(tt.code)
		if err != nil {
			t.Fatalf("%s: %v", tt.code, err)
		}
		if got := runtime.ToGo(v); got != tt.want {
			t.Errorf("%s = %#v, want %#v", tt.code, got, tt.want)
		}
	}
}

func TestSessionFailedSnippetPersistsNothing(t *testing.T) {
	s := NewSession(nil, PresetEnv)
	if _, err := s.Eval(`var lost = 1; throw "stop";`); err == nil {
		t.Fatal("expected the throw to surface")
	}
	if s.Context.Defines("lost") {
		t.Error("declarations of a failed snippet were kept")
	}
	if _, err := s.Eval(`var = ;`); err == nil {
		t.Error("syntax error accepted")
	}
}

package main

import (
	"bytes"
	"testing"

	"github.com/example/jsvm/builtins"
	"github.com/example/jsvm/interpreter"
)

func TestPrintExports(t *testing.T) {
	tests := []struct {
		source string
		asJSON bool
		want   string
	}{
		{`var unused = 1;`, false, ""},
		{`module.exports = "hi";`, false, "'hi'\n"},
		{`module.exports = [1, "a"];`, true, "[\n  1,\n  \"a\"\n]\n"},
		{`module.exports = { n: 2 };`, true, "{\n  \"n\": 2\n}\n"},
	}
	for _, tt := range tests {
		v, err := interpreter.RunInContext(tt.source, builtins.NewContext(), interpreter.PresetEnv)
		if err != nil {
			t.Fatalf("%s: %v", tt.source, err)
		}
		var buf bytes.Buffer
		if err := printExports(&buf, v, tt.asJSON); err != nil {
			t.Fatal(err)
		}
		if buf.String() != tt.want {
			t.Errorf("%s: got %q, want %q", tt.source, buf.String(), tt.want)
		}
	}
}

package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content %T", res.Content[0])
	}
	return text.Text, res.IsError
}

func TestRunScript(t *testing.T) {
	text, isErr := call(t, handleRun, map[string]any{
		"source":  `console.log("hi"); module.exports = { total: base + 1 };`,
		"globals": `{"base": 41}`,
	})
	if isErr {
		t.Fatalf("run failed: %s", text)
	}
	var out struct {
		Exports map[string]interface{} `json:"exports"`
		Console string                 `json:"console"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatal(err)
	}
	if out.Exports["total"] != 42.0 || out.Console != "hi\n" {
		t.Errorf("unexpected output %s", text)
	}
}

func TestRunScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing source", map[string]any{}, "source"},
		{"bad preset", map[string]any{"source": "1", "preset": "es3"}, "unknown preset"},
		{"bad globals", map[string]any{"source": "1", "globals": "[1"}, "globals"},
		{"throw", map[string]any{"source": `throw new TypeError("nope");`}, "nope"},
		{"es5 arrow", map[string]any{"source": "var f = () => 1;", "preset": "es5"}, "SyntaxError"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := call(t, handleRun, tt.args)
			if !isErr {
				t.Fatalf("expected an error result, got %s", text)
			}
			if !strings.Contains(text, tt.want) {
				t.Errorf("%q does not mention %q", text, tt.want)
			}
		})
	}
}

func TestParseScript(t *testing.T) {
	text, isErr := call(t, handleParse, map[string]any{"source": "let a = 1;"})
	if isErr || !strings.Contains(text, `"body"`) {
		t.Errorf("unexpected parse output %s", text)
	}
	if _, isErr := call(t, handleParse, map[string]any{"source": "let = ;"}); !isErr {
		t.Error("syntax error not reported")
	}
}

func TestListGlobals(t *testing.T) {
	text, _ := call(t, handleGlobals, map[string]any{})
	for _, name := range []string{"Object", "console", "JSON"} {
		if !strings.Contains("\n"+text+"\n", "\n"+name+"\n") {
			t.Errorf("%s missing from %q", name, text)
		}
	}
}

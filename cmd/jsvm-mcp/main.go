package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/example/jsvm/builtins"
	"github.com/example/jsvm/config"
	"github.com/example/jsvm/interpreter"
	"github.com/example/jsvm/parser"
	"github.com/example/jsvm/runtime"
)

const runTimeout = 10 * time.Second

// base is the configuration every call starts from. JSVM_CONFIG points at a
// YAML file to load instead of the defaults.
var base = config.Default()

// runOutput is the JSON body of a successful run_script call.
type runOutput struct {
	Exports interface{} `json:"exports"`
	Console string      `json:"console,omitempty"`
}

func handleRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := request.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg := *base
	if p := request.GetString("preset", ""); p != "" {
		cfg.Preset = p
	}
	if err := cfg.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if g := request.GetString("globals", ""); g != "" {
		var globals map[string]interface{}
		if err := json.Unmarshal([]byte(g), &globals); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("globals: %v", err)), nil
		}
		merged := make(map[string]interface{}, len(cfg.Globals)+len(globals))
		for k, v := range cfg.Globals {
			merged[k] = v
		}
		for k, v := range globals {
			merged[k] = v
		}
		cfg.Globals = merged
	}

	var console bytes.Buffer
	jsctx := cfg.Context(builtins.WithOutput(&console, &console))

	type outcome struct {
		exports *runtime.Value
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := interpreter.RunInContext(source, jsctx, cfg.RunPreset(), cfg.Options()...)
		done <- outcome{v, err}
	}()

	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()
	var res outcome
	select {
	case res = <-done:
	case <-ctx.Done():
		return mcp.NewToolResultError("run: " + ctx.Err().Error()), nil
	}
	if res.err != nil {
		msg := res.err.Error()
		if console.Len() > 0 {
			msg += "\nconsole:\n" + console.String()
		}
		return mcp.NewToolResultError(msg), nil
	}
	out, err := json.MarshalIndent(runOutput{Exports: runtime.ToGo(res.exports), Console: console.String()}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal exports: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

func handleParse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := request.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	program, err := parser.ParseFile("<input>", source)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := json.MarshalIndent(program, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal ast: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

func handleGlobals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := builtins.Names()
	if !base.Builtins {
		names = nil
	}
	names = append(names, base.GlobalNames()...)
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}

func newServer() *server.MCPServer {
	s := server.NewMCPServer(
		"jsvm",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.AddTool(
		mcp.NewTool("run_script",
			mcp.WithDescription("Run JavaScript in a fresh sandbox. Returns module.exports as JSON plus any console output."),
			mcp.WithString("source",
				mcp.Required(),
				mcp.Description("Script source. Assign the result to module.exports."),
			),
			mcp.WithString("preset",
				mcp.Description("Language preset"),
				mcp.Enum("env", "es5"),
			),
			mcp.WithString("globals",
				mcp.Description("JSON object whose keys become sandbox globals"),
			),
		),
		handleRun,
	)

	s.AddTool(
		mcp.NewTool("parse_script",
			mcp.WithDescription("Parse JavaScript and return its syntax tree as JSON."),
			mcp.WithString("source",
				mcp.Required(),
				mcp.Description("Script source"),
			),
		),
		handleParse,
	)

	s.AddTool(
		mcp.NewTool("list_globals",
			mcp.WithDescription("List the globals every run_script sandbox starts with."),
		),
		handleGlobals,
	)
	return s
}

func main() {
	if path := os.Getenv("JSVM_CONFIG"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			log.Fatalf("%v", err)
		}
		base = cfg
	}

	if err := server.ServeStdio(newServer()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

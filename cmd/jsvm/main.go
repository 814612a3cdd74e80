package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/example/jsvm/builtins"
	"github.com/example/jsvm/config"
	"github.com/example/jsvm/interpreter"
	"github.com/example/jsvm/parser"
	"github.com/example/jsvm/runtime"
)

const (
	historyFile = ".jsvm_history"
	promptMain  = "> "
	promptCont  = "... "
)

func main() {
	evalCode := flag.String("e", "", "evaluate inline JavaScript code")
	dumpAST := flag.Bool("ast", false, "dump the AST as JSON")
	configPath := flag.String("config", "", "YAML run configuration")
	preset := flag.String("preset", "", "language preset (env or es5); overrides the config")
	asJSON := flag.Bool("json", false, "print module.exports as JSON")
	logLevel := flag.String("log-level", "", "log level (debug, info, warn, error); overrides the config")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: jsvm [options] <file.js>\n")
		fmt.Fprintf(os.Stderr, "       jsvm -e \"code\"\n")
		fmt.Fprintf(os.Stderr, "       jsvm            (interactive)\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *preset != "" {
		cfg.Preset = *preset
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	opts := append(cfg.Options(), interpreter.WithLogger(logger))

	var source, filename string
	switch {
	case *evalCode != "":
		source, filename = *evalCode, "<eval>"
	case flag.NArg() > 0:
		filename = flag.Arg(0)
		data, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
			os.Exit(1)
		}
		source = string(data)
	case *dumpAST:
		flag.Usage()
		os.Exit(2)
	default:
		os.Exit(repl(cfg, opts, logger))
	}

	if *dumpAST {
		program, err := parser.ParseFile(filename, source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(program); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding AST: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx := cfg.Context()
	logger.Debug("running", "file", filename, "preset", cfg.Preset, "globals", len(ctx.Sandbox))
	exports, err := interpreter.RunInContext(source, ctx, cfg.RunPreset(), append(opts, interpreter.WithFilename(filename))...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if err := printExports(os.Stdout, exports, *asJSON); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printExports writes module.exports unless the script left it as the
// initial empty object.
func printExports(w io.Writer, exports *runtime.Value, asJSON bool) error {
	data := runtime.ToGo(exports)
	if m, ok := data.(map[string]interface{}); ok && len(m) == 0 {
		return nil
	}
	if !asJSON {
		_, err := fmt.Fprintln(w, builtins.Inspect(exports))
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func repl(cfg *config.Config, opts []interpreter.Option, logger *slog.Logger) int {
	fmt.Printf("jsvm (preset %s). Type :quit to exit.\n", cfg.RunPreset())

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	session := interpreter.NewSession(cfg.Context(), cfg.RunPreset(), append(opts, interpreter.WithFilename("<repl>"))...)
	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit", ":q":
				return 0
			case ":globals":
				fmt.Println(strings.Join(session.Context.Names(), " "))
			default:
				fmt.Println("unknown command. Commands: :globals, :quit")
			}
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		v, err := session.Eval(code)
		if err != nil {
			logger.Debug("eval failed", "error", err)
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Println(builtins.Inspect(v))
	}
}

// readByParseProbe reads lines until the buffer parses or fails for a
// reason other than running out of input.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := parser.ParseFile("<repl>", src); parser.IsIncomplete(err) {
			continue
		}
		return src, true
	}
}

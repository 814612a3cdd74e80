package interpreter

import (
	"github.com/example/jsvm/runtime"
)

// reserved root names every run binds itself.
var reserved = map[string]bool{"this": true, "module": true, "exports": true}

// Session evaluates successive snippets in one context, the way a REPL
// does. Root bindings a snippet declares are copied into the sandbox when
// it finishes, so later snippets see them as sandbox vars.
type Session struct {
	Context *runtime.Context
	Preset  Preset
	opts    []Option
}

// NewSession wraps ctx. A nil ctx gets an empty sandbox.
func NewSession(ctx *runtime.Context, preset Preset, opts ...Option) *Session {
	if ctx == nil {
		ctx = NewContext(nil)
	}
	return &Session{Context: ctx, Preset: preset, opts: opts}
}

// Eval runs code and returns its completion value: the value of the last
// expression statement that ran. A snippet that throws persists nothing.
func (s *Session) Eval(code string) (*runtime.Value, error) {
	program, err := parseCode(code, s.opts)
	if err != nil {
		return nil, err
	}
	res, err := run(program, s.Context, s.Preset, s.opts)
	if err != nil {
		return nil, err
	}
	for _, name := range res.root.Names() {
		if reserved[name] {
			continue
		}
		if b := res.root.ResolveOwn(name); b != nil && b.Value != nil {
			s.Context.Set(name, b.Value)
		}
	}
	return res.completion, nil
}

package interpreter

import (
	"fmt"
	"sort"
	"sync"

	"github.com/example/jsvm/ast"
	"github.com/example/jsvm/runtime"
)

// Rule evaluates one node kind.
type Rule func(p *Path) (*runtime.Value, runtime.Signal)

// DispatchTable maps node kinds to rules.
type DispatchTable struct {
	preset Preset
	rules  map[ast.Kind]Rule
}

// Preset names a language feature set. It selects which optional rules are
// present in the table; scoping semantics do not change.
type Preset string

const (
	PresetEnv Preset = "env"
	PresetES5 Preset = "es5"
)

// es5Excluded lists the kinds a PresetES5 table leaves out.
var es5Excluded = []ast.Kind{
	ast.KindArrowFunctionExpression,
	ast.KindClassDeclaration,
	ast.KindClassExpression,
	ast.KindSuper,
	ast.KindMetaProperty,
	ast.KindTemplateLiteral,
	ast.KindTaggedTemplateExpression,
	ast.KindSpreadElement,
	ast.KindForOfStatement,
	ast.KindYieldExpression,
	ast.KindAwaitExpression,
	ast.KindChainExpression,
	ast.KindObjectPattern,
	ast.KindArrayPattern,
	ast.KindAssignmentPattern,
	ast.KindRestElement,
}

// ParsePreset validates a preset name. The empty string selects PresetEnv.
func ParsePreset(name string) (Preset, error) {
	switch Preset(name) {
	case "", PresetEnv:
		return PresetEnv, nil
	case PresetES5:
		return PresetES5, nil
	}
	return "", fmt.Errorf("unknown preset %q", name)
}

// coroutines reports whether generator and async functions may be created.
func (pr Preset) coroutines() bool {
	return pr != PresetES5
}

var (
	tablesMu sync.Mutex
	tables   = map[Preset]*DispatchTable{}
)

// TableFor returns the table for preset, building it on first use.
func TableFor(preset Preset) *DispatchTable {
	tablesMu.Lock()
	defer tablesMu.Unlock()
	if t, ok := tables[preset]; ok {
		return t
	}
	t := buildTable(preset)
	tables[preset] = t
	return t
}

func buildTable(preset Preset) *DispatchTable {
	t := &DispatchTable{preset: preset, rules: make(map[ast.Kind]Rule)}
	for _, group := range []map[ast.Kind]Rule{literals(), declarations(), expressions(), statements()} {
		for kind, rule := range group {
			if _, dup := t.rules[kind]; dup {
				panic(fmt.Sprintf("interpreter: rule for %s registered twice", kind))
			}
			t.rules[kind] = rule
		}
	}
	if preset == PresetES5 {
		for _, kind := range es5Excluded {
			delete(t.rules, kind)
		}
	}
	return t
}

// Has reports whether kind has a rule.
func (t *DispatchTable) Has(kind ast.Kind) bool {
	_, ok := t.rules[kind]
	return ok
}

// Kinds lists the kinds with rules, sorted.
func (t *DispatchTable) Kinds() []ast.Kind {
	kinds := make([]ast.Kind, 0, len(t.rules))
	for k := range t.rules {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func (t *DispatchTable) evaluate(p *Path) (*runtime.Value, runtime.Signal) {
	rule, ok := t.rules[p.Node.Kind()]
	if !ok {
		return p.throw(runtime.ErrorUnsupported("%s is not supported in preset %s", p.Node.Kind(), t.preset))
	}
	return rule(p)
}

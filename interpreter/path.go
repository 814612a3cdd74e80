package interpreter

import (
	"github.com/example/jsvm/ast"
	"github.com/example/jsvm/runtime"
)

// Ctx keys understood by the rules.
const (
	ctxLabels = "labelName" // []string of labels owning the node
	ctxValue  = "value"     // value fed into a pattern or catch clause
	ctxKind   = "kind"      // bindMode for pattern targets
	ctxObject = "object"    // *runtime.Object under construction
	ctxList   = "list"      // *[]*runtime.Value collecting spread results
)

// Path is the unit of traversal: a node, the scope it runs in and a
// transient ctx bag. Every descent creates a fresh child Path.
type Path struct {
	Node   ast.Node
	Parent *Path
	Scope  *runtime.Scope
	Ctx    map[string]interface{}
	Stack  *runtime.CallStack
	Preset Preset

	engine *engine
}

// Child descends into node in the same scope.
func (p *Path) Child(node ast.Node) *Path {
	return p.ChildIn(node, p.Scope)
}

// ChildIn descends into node with a different scope.
func (p *Path) ChildIn(node ast.Node, scope *runtime.Scope) *Path {
	return &Path{
		Node:   node,
		Parent: p,
		Scope:  scope,
		Stack:  p.Stack,
		Preset: p.Preset,
		engine: p.engine,
	}
}

// With sets a ctx entry on p and returns it.
func (p *Path) With(key string, v interface{}) *Path {
	if p.Ctx == nil {
		p.Ctx = make(map[string]interface{}, 2)
	}
	p.Ctx[key] = v
	return p
}

func (p *Path) value() *runtime.Value {
	if v, ok := p.Ctx[ctxValue].(*runtime.Value); ok && v != nil {
		return v
	}
	return runtime.Undefined
}

func (p *Path) labels() []string {
	labels, _ := p.Ctx[ctxLabels].([]string)
	return labels
}

func (p *Path) ownsLabel(label string) bool {
	if label == "" {
		return true
	}
	for _, l := range p.labels() {
		if l == label {
			return true
		}
	}
	return false
}

// Evaluate dispatches p.Node through the active table.
func (p *Path) Evaluate() (*runtime.Value, runtime.Signal) {
	return p.engine.table.evaluate(p)
}

// eval is shorthand for evaluating a child node in the same scope.
func (p *Path) eval(node ast.Node) (*runtime.Value, runtime.Signal) {
	return p.Child(node).Evaluate()
}

func (p *Path) realm() *runtime.Realm {
	return p.engine.ctx.Realm
}

// throw raises a Go error as a JS exception.
func (p *Path) throw(err error) (*runtime.Value, runtime.Signal) {
	return nil, runtime.Throw(p.engine.errorValue(err))
}

func (p *Path) throwSignal(err error) runtime.Signal {
	return runtime.Throw(p.engine.errorValue(err))
}

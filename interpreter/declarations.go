package interpreter

import (
	"github.com/example/jsvm/ast"
	"github.com/example/jsvm/runtime"
)

// bindMode says how a pattern target receives its value.
type bindMode int

const (
	bindVar bindMode = iota
	bindLet
	bindConst
	bindAssign
)

func bindingMode(k ast.DeclKind) bindMode {
	switch k {
	case ast.DeclLet:
		return bindLet
	case ast.DeclConst:
		return bindConst
	}
	return bindVar
}

func (m bindMode) kind() runtime.BindingKind {
	switch m {
	case bindLet:
		return runtime.KindLet
	case bindConst:
		return runtime.KindConst
	}
	return runtime.KindVar
}

func declarations() map[ast.Kind]Rule {
	return map[ast.Kind]Rule{
		ast.KindVariableDeclaration: evalVariableDeclaration,
		ast.KindFunctionDeclaration: evalFunctionDeclaration,
		ast.KindClassDeclaration:    evalClassDeclaration,
		ast.KindObjectPattern:       evalObjectPattern,
		ast.KindArrayPattern:        evalArrayPattern,
		ast.KindAssignmentPattern:   evalAssignmentPattern,
		ast.KindRestElement:         evalRestElement,
	}
}

func evalVariableDeclaration(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.VariableDeclaration)
	mode := bindingMode(n.DeclKind)
	for _, d := range n.Declarations {
		v := runtime.Undefined
		switch {
		case d.Init != nil:
			var sig runtime.Signal
			v, sig = p.evalNamed(d.Init, targetName(d.ID))
			if sig.Abrupt() {
				return nil, sig
			}
		case mode == bindVar:
			// `var x;` keeps whatever x already holds.
			if id, ok := d.ID.(*ast.Identifier); ok && p.Scope.Resolve(id.Name) != nil {
				continue
			}
		}
		if sig := p.bind(d.ID, v, mode); sig.Abrupt() {
			return nil, sig
		}
	}
	return nil, runtime.Signal{}
}

// evalFunctionDeclaration only declares functions hoisting did not reach,
// such as the direct body of an if statement.
func evalFunctionDeclaration(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.FunctionDeclaration)
	if n.ID == nil || p.Scope.ResolveOwn(n.ID.Name) != nil {
		return nil, runtime.Signal{}
	}
	fn := p.makeFunction(&n.Function, funcNormal, n.ID.Name, n.Range.Start)
	if err := p.Scope.DeclareFunction(n.ID.Name, fn); err != nil {
		return p.throw(err)
	}
	return nil, runtime.Signal{}
}

func evalClassDeclaration(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.ClassDeclaration)
	cls, sig := p.makeClass(&n.Class, n.ID.Name)
	if sig.Abrupt() {
		return nil, sig
	}
	if err := p.Scope.Let(n.ID.Name, cls); err != nil {
		return p.throw(err)
	}
	return nil, runtime.Signal{}
}

func targetName(target ast.Expression) string {
	if id, ok := target.(*ast.Identifier); ok {
		return id.Name
	}
	return ""
}

// bind stores v into target. Identifiers are declared (or assigned in
// bindAssign mode), member targets are written, and patterns are
// dispatched with the value and mode in ctx.
func (p *Path) bind(target ast.Expression, v *runtime.Value, mode bindMode) runtime.Signal {
	switch t := target.(type) {
	case *ast.Identifier:
		if mode == bindAssign {
			_, sig := p.assignIdentifier(t.Name, func() (*runtime.Value, runtime.Signal) { return v, runtime.Signal{} })
			return sig
		}
		if err := p.Scope.Declare(mode.kind(), t.Name, v); err != nil {
			return p.throwSignal(err)
		}
		return runtime.Signal{}
	case *ast.MemberExpression:
		if mode != bindAssign {
			return p.throwSignal(runtime.ErrorUnsupported("invalid destructuring target"))
		}
		obj, key, sig := p.memberReference(t)
		if sig.Abrupt() {
			return sig
		}
		return p.putMember(obj, key, v)
	case *ast.ObjectPattern, *ast.ArrayPattern, *ast.AssignmentPattern, *ast.RestElement:
		_, sig := p.Child(target).With(ctxValue, v).With(ctxKind, mode).Evaluate()
		return sig
	}
	return p.throwSignal(runtime.ErrorUnsupported("invalid binding target %s", target.Kind()))
}

func (p *Path) mode() bindMode {
	m, _ := p.Ctx[ctxKind].(bindMode)
	return m
}

// propertyKey evaluates the key of an object literal or pattern entry.
func (p *Path) propertyKey(key ast.Expression, computed bool) (string, runtime.Signal) {
	if !computed {
		switch k := key.(type) {
		case *ast.Identifier:
			return k.Name, runtime.Signal{}
		case *ast.StringLiteral:
			return k.Value, runtime.Signal{}
		case *ast.NumericLiteral:
			return runtime.NumberToString(k.Value), runtime.Signal{}
		}
	}
	v, sig := p.eval(key)
	if sig.Abrupt() {
		return "", sig
	}
	s, err := runtime.ToPropertyKey(v)
	if err != nil {
		return "", p.throwSignal(err)
	}
	return s, runtime.Signal{}
}

func evalObjectPattern(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.ObjectPattern)
	v, mode := p.value(), p.mode()
	if v.IsNullish() {
		first := ""
		if len(n.Properties) > 0 {
			if prop, ok := n.Properties[0].(*ast.ObjectProperty); ok {
				first, _ = p.propertyKey(prop.Key, false)
			}
		}
		return p.throw(runtime.ErrorPropertyAccess(first, v))
	}
	used := make(map[string]bool)
	for _, entry := range n.Properties {
		switch prop := entry.(type) {
		case *ast.ObjectProperty:
			key, sig := p.propertyKey(prop.Key, prop.Computed)
			if sig.Abrupt() {
				return nil, sig
			}
			used[key] = true
			val, sig := p.getMember(v, key)
			if sig.Abrupt() {
				return nil, sig
			}
			if sig := p.bind(prop.Value, val, mode); sig.Abrupt() {
				return nil, sig
			}
		case *ast.RestElement:
			rest := p.realm().NewObject()
			if v.IsObject() {
				for _, k := range v.Object.EnumerableKeys() {
					if !used[k] {
						rest.Set(k, v.Object.Get(k))
					}
				}
			}
			if sig := p.bind(prop.Argument, runtime.NewObject(rest), mode); sig.Abrupt() {
				return nil, sig
			}
		}
	}
	return nil, runtime.Signal{}
}

func evalArrayPattern(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.ArrayPattern)
	v, mode := p.value(), p.mode()
	what := v.ToString()
	if v.IsObject() {
		what = "object"
	}
	items, sig := p.collect(v, what)
	if sig.Abrupt() {
		return nil, sig
	}
	for i, el := range n.Elements {
		if el == nil {
			continue
		}
		if rest, ok := el.(*ast.RestElement); ok {
			var tail []*runtime.Value
			if i < len(items) {
				tail = append(tail, items[i:]...)
			}
			if sig := p.bind(rest.Argument, runtime.NewObject(p.realm().NewArray(tail)), mode); sig.Abrupt() {
				return nil, sig
			}
			break
		}
		item := runtime.Undefined
		if i < len(items) {
			item = items[i]
		}
		if sig := p.bind(el, item, mode); sig.Abrupt() {
			return nil, sig
		}
	}
	return nil, runtime.Signal{}
}

// evalAssignmentPattern substitutes the default when the incoming value is
// undefined. The default is evaluated lazily in the target's scope.
func evalAssignmentPattern(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.AssignmentPattern)
	v := p.value()
	if v.Type == runtime.TypeUndefined {
		var sig runtime.Signal
		v, sig = p.evalNamed(n.Right, targetName(n.Left))
		if sig.Abrupt() {
			return nil, sig
		}
	}
	return nil, p.bind(n.Left, v, p.mode())
}

func evalRestElement(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.RestElement)
	return nil, p.bind(n.Argument, p.value(), p.mode())
}

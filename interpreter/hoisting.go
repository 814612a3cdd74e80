package interpreter

import (
	"github.com/example/jsvm/ast"
	"github.com/example/jsvm/runtime"
)

// hoist pre-declares a statement list in scope. Function declarations are
// bound first and are callable before any statement runs; var names found
// anywhere below the list (but not inside nested functions) are then bound
// to undefined in the var target unless they already exist there.
func (p *Path) hoist(body []ast.Statement, scope *runtime.Scope) runtime.Signal {
	for _, stmt := range body {
		fd := functionDeclaration(stmt)
		if fd == nil {
			continue
		}
		if (fd.Generator || fd.Async) && !p.Preset.coroutines() {
			return p.throwSignal(runtime.ErrorUnsupported("generator and async functions are not supported in preset %s", p.Preset))
		}
		fn := p.ChildIn(fd, scope).makeFunction(&fd.Function, funcNormal, fd.ID.Name, fd.Range.Start)
		if err := scope.DeclareFunction(fd.ID.Name, fn); err != nil {
			return p.throwSignal(err)
		}
	}

	target := scope.HoistVarTarget()
	var err error
	for _, stmt := range body {
		collectVarNames(stmt, func(name string) {
			if err != nil {
				return
			}
			if b := target.ResolveOwn(name); b != nil && b.Kind == runtime.KindVar {
				return
			}
			err = target.Var(name, runtime.Undefined)
		})
	}
	if err != nil {
		return p.throwSignal(err)
	}
	return runtime.Signal{}
}

// functionDeclaration unwraps labels around a function declaration.
func functionDeclaration(stmt ast.Statement) *ast.FunctionDeclaration {
	for {
		switch s := stmt.(type) {
		case *ast.FunctionDeclaration:
			if s.ID == nil {
				return nil
			}
			return s
		case *ast.LabeledStatement:
			stmt = s.Body
		default:
			return nil
		}
	}
}

func collectVarNames(stmt ast.Statement, add func(string)) {
	if stmt == nil {
		return
	}
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		if s.DeclKind != ast.DeclVar {
			return
		}
		for _, d := range s.Declarations {
			for _, name := range boundNames(d.ID) {
				add(name)
			}
		}
	case *ast.BlockStatement:
		for _, inner := range s.Body {
			collectVarNames(inner, add)
		}
	case *ast.IfStatement:
		collectVarNames(s.Consequent, add)
		collectVarNames(s.Alternate, add)
	case *ast.LabeledStatement:
		collectVarNames(s.Body, add)
	case *ast.WhileStatement:
		collectVarNames(s.Body, add)
	case *ast.DoWhileStatement:
		collectVarNames(s.Body, add)
	case *ast.ForStatement:
		if init, ok := s.Init.(*ast.VariableDeclaration); ok {
			collectVarNames(init, add)
		}
		collectVarNames(s.Body, add)
	case *ast.ForInStatement:
		if left, ok := s.Left.(*ast.VariableDeclaration); ok {
			collectVarNames(left, add)
		}
		collectVarNames(s.Body, add)
	case *ast.ForOfStatement:
		if left, ok := s.Left.(*ast.VariableDeclaration); ok {
			collectVarNames(left, add)
		}
		collectVarNames(s.Body, add)
	case *ast.SwitchStatement:
		for _, c := range s.Cases {
			for _, inner := range c.Consequent {
				collectVarNames(inner, add)
			}
		}
	case *ast.TryStatement:
		collectVarNames(s.Block, add)
		if s.Handler != nil {
			collectVarNames(s.Handler.Body, add)
		}
		if s.Finalizer != nil {
			collectVarNames(s.Finalizer, add)
		}
	}
}

// boundNames lists the identifiers a binding target declares.
func boundNames(target ast.Expression) []string {
	switch t := target.(type) {
	case *ast.Identifier:
		return []string{t.Name}
	case *ast.AssignmentPattern:
		return boundNames(t.Left)
	case *ast.RestElement:
		return boundNames(t.Argument)
	case *ast.ArrayPattern:
		var names []string
		for _, el := range t.Elements {
			if el != nil {
				names = append(names, boundNames(el)...)
			}
		}
		return names
	case *ast.ObjectPattern:
		var names []string
		for _, prop := range t.Properties {
			switch prop := prop.(type) {
			case *ast.ObjectProperty:
				names = append(names, boundNames(prop.Value)...)
			case *ast.RestElement:
				names = append(names, boundNames(prop.Argument)...)
			}
		}
		return names
	}
	return nil
}

// runStatements hoists body into scope and executes it in order. The value
// of the last expression statement is returned as the completion value.
func (p *Path) runStatements(body []ast.Statement, scope *runtime.Scope) (*runtime.Value, runtime.Signal) {
	if sig := p.hoist(body, scope); sig.Abrupt() {
		return nil, sig
	}
	completion := runtime.Undefined
	for _, stmt := range body {
		if _, ok := stmt.(*ast.FunctionDeclaration); ok {
			continue
		}
		v, sig := p.ChildIn(stmt, scope).Evaluate()
		if sig.Abrupt() {
			return v, sig
		}
		if v != nil {
			completion = v
		}
	}
	return completion, runtime.Signal{}
}

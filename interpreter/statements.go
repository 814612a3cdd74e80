package interpreter

import (
	"github.com/example/jsvm/ast"
	"github.com/example/jsvm/runtime"
)

func statements() map[ast.Kind]Rule {
	return map[ast.Kind]Rule{
		ast.KindProgram:             evalProgram,
		ast.KindExpressionStatement: evalExpressionStatement,
		ast.KindBlockStatement:      evalBlock,
		ast.KindEmptyStatement:      evalNothing,
		ast.KindDebuggerStatement:   evalNothing,
		ast.KindReturnStatement:     evalReturn,
		ast.KindIfStatement:         evalIf,
		ast.KindLabeledStatement:    evalLabeled,
		ast.KindBreakStatement:      evalBreak,
		ast.KindContinueStatement:   evalContinue,
		ast.KindWhileStatement:      evalWhile,
		ast.KindDoWhileStatement:    evalDoWhile,
		ast.KindForStatement:        evalFor,
		ast.KindForInStatement:      evalForIn,
		ast.KindForOfStatement:      evalForOf,
		ast.KindSwitchStatement:     evalSwitch,
		ast.KindSwitchCase:          evalSwitchCase,
		ast.KindThrowStatement:      evalThrow,
		ast.KindTryStatement:        evalTry,
		ast.KindCatchClause:         evalCatchClause,
	}
}

func evalNothing(p *Path) (*runtime.Value, runtime.Signal) {
	return nil, runtime.Signal{}
}

func evalProgram(p *Path) (*runtime.Value, runtime.Signal) {
	return p.runStatements(p.Node.(*ast.Program).Body, p.Scope)
}

func evalExpressionStatement(p *Path) (*runtime.Value, runtime.Signal) {
	return p.eval(p.Node.(*ast.ExpressionStatement).Expression)
}

// evalBlock runs directly in a function scope that has not hosted its body
// yet; every other block gets its own invasive scope.
func evalBlock(p *Path) (*runtime.Value, runtime.Signal) {
	scope := p.Scope
	if !scope.Claim() {
		scope = scope.CreateChild(runtime.ScopeBlock)
	}
	return p.runStatements(p.Node.(*ast.BlockStatement).Body, scope)
}

func evalReturn(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.ReturnStatement)
	if n.Argument == nil {
		return nil, runtime.Return(runtime.Undefined)
	}
	v, sig := p.eval(n.Argument)
	if sig.Abrupt() {
		return nil, sig
	}
	return nil, runtime.Return(v)
}

func evalIf(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.IfStatement)
	test, sig := p.eval(n.Test)
	if sig.Abrupt() {
		return nil, sig
	}
	if test.ToBoolean() {
		return p.eval(n.Consequent)
	}
	if n.Alternate != nil {
		return p.eval(n.Alternate)
	}
	return nil, runtime.Signal{}
}

// evalLabeled hands its label to the body through ctx. Nested labels stack
// up so `a: b: for (...)` answers to both.
func evalLabeled(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.LabeledStatement)
	labels := append(append([]string(nil), p.labels()...), n.Label.Name)
	v, sig := p.Child(n.Body).With(ctxLabels, labels).Evaluate()
	if sig.Kind == runtime.SigBreak && sig.Label == n.Label.Name {
		return v, runtime.Signal{}
	}
	return v, sig
}

func evalBreak(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.BreakStatement)
	if n.Label != nil {
		return nil, runtime.Break(n.Label.Name)
	}
	return nil, runtime.Break("")
}

func evalContinue(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.ContinueStatement)
	if n.Label != nil {
		return nil, runtime.Continue(n.Label.Name)
	}
	return nil, runtime.Continue("")
}

// loopControl interprets a body signal. It reports whether the loop must
// stop and the signal to propagate when it does.
func (p *Path) loopControl(sig runtime.Signal) (stop bool, out runtime.Signal) {
	switch sig.Kind {
	case runtime.SigNone:
		return false, sig
	case runtime.SigBreak:
		if p.ownsLabel(sig.Label) {
			return true, runtime.Signal{}
		}
		return true, sig
	case runtime.SigContinue:
		if p.ownsLabel(sig.Label) {
			return false, runtime.Signal{}
		}
		return true, sig
	}
	return true, sig
}

func evalWhile(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.WhileStatement)
	base := p.Scope.CreateChild(runtime.ScopeLoop)
	for {
		test, sig := p.eval(n.Test)
		if sig.Abrupt() {
			return nil, sig
		}
		if !test.ToBoolean() {
			return nil, runtime.Signal{}
		}
		_, sig = p.ChildIn(n.Body, base.Fork()).Evaluate()
		if stop, out := p.loopControl(sig); stop {
			return nil, out
		}
	}
}

func evalDoWhile(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.DoWhileStatement)
	base := p.Scope.CreateChild(runtime.ScopeLoop)
	for {
		_, sig := p.ChildIn(n.Body, base.Fork()).Evaluate()
		if stop, out := p.loopControl(sig); stop {
			return nil, out
		}
		test, sig := p.eval(n.Test)
		if sig.Abrupt() {
			return nil, sig
		}
		if !test.ToBoolean() {
			return nil, runtime.Signal{}
		}
	}
}

// evalFor runs init in a loop scope and every iteration in a fork of the
// previous one, so closures see their own copy of let counters while the
// update still observes the latest value.
func evalFor(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.ForStatement)
	loop := p.Scope.CreateChild(runtime.ScopeLoop)
	if n.Init != nil {
		if _, sig := p.ChildIn(n.Init, loop).Evaluate(); sig.Abrupt() {
			return nil, sig
		}
	}
	iter := loop.Fork()
	for {
		if n.Test != nil {
			test, sig := p.ChildIn(n.Test, iter).Evaluate()
			if sig.Abrupt() {
				return nil, sig
			}
			if !test.ToBoolean() {
				return nil, runtime.Signal{}
			}
		}
		_, sig := p.ChildIn(n.Body, iter).Evaluate()
		if stop, out := p.loopControl(sig); stop {
			return nil, out
		}
		iter = iter.Fork()
		if n.Update != nil {
			if _, sig := p.ChildIn(n.Update, iter).Evaluate(); sig.Abrupt() {
				return nil, sig
			}
		}
	}
}

// bindLoopTarget binds one for-in/for-of value in scope.
func (p *Path) bindLoopTarget(left ast.Node, v *runtime.Value, scope *runtime.Scope) runtime.Signal {
	q := p.ChildIn(left, scope)
	if decl, ok := left.(*ast.VariableDeclaration); ok {
		mode := bindingMode(decl.DeclKind)
		return q.bind(decl.Declarations[0].ID, v, mode)
	}
	return q.bind(left.(ast.Expression), v, bindAssign)
}

// forInKeys lists own then inherited enumerable string keys, skipping
// duplicates and keys shadowed by a non-enumerable own property.
func forInKeys(obj *runtime.Object) []string {
	seen := make(map[string]bool)
	var keys []string
	for cur := obj; cur != nil; cur = cur.Prototype {
		for _, k := range cur.OwnKeys() {
			if seen[k] {
				continue
			}
			seen[k] = true
			if prop := cur.GetOwnProperty(k); prop != nil && prop.Enumerable {
				keys = append(keys, k)
			}
		}
	}
	return keys
}

func evalForIn(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.ForInStatement)
	right, sig := p.eval(n.Right)
	if sig.Abrupt() {
		return nil, sig
	}
	var keys []string
	switch {
	case right.IsObject():
		keys = forInKeys(right.Object)
	case right.Type == runtime.TypeString:
		for i := range []rune(right.Str) {
			keys = append(keys, runtime.NumberToString(float64(i)))
		}
	}
	base := p.Scope.CreateChild(runtime.ScopeLoop)
	for _, key := range keys {
		if right.IsObject() && !right.Object.HasProperty(key) {
			continue
		}
		iter := base.Fork()
		if sig := p.bindLoopTarget(n.Left, runtime.NewString(key), iter); sig.Abrupt() {
			return nil, sig
		}
		_, sig := p.ChildIn(n.Body, iter).Evaluate()
		if stop, out := p.loopControl(sig); stop {
			return nil, out
		}
	}
	return nil, runtime.Signal{}
}

func evalForOf(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.ForOfStatement)
	right, sig := p.eval(n.Right)
	if sig.Abrupt() {
		return nil, sig
	}
	base := p.Scope.CreateChild(runtime.ScopeLoop)
	var out runtime.Signal
	sig = p.iterate(right, describeNode(n.Right), func(v *runtime.Value) bool {
		iter := base.Fork()
		if s := p.bindLoopTarget(n.Left, v, iter); s.Abrupt() {
			out = s
			return false
		}
		_, s := p.ChildIn(n.Body, iter).Evaluate()
		stop, s := p.loopControl(s)
		out = s
		return !stop
	})
	if sig.Abrupt() {
		return nil, sig
	}
	return nil, out
}

// evalSwitch compares cases with strict equality and falls through until a
// break. The default case is entered only when nothing matched.
func evalSwitch(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.SwitchStatement)
	disc, sig := p.eval(n.Discriminant)
	if sig.Abrupt() {
		return nil, sig
	}
	scope := p.Scope.CreateChild(runtime.ScopeSwitch)
	var all []ast.Statement
	for _, c := range n.Cases {
		all = append(all, c.Consequent...)
	}
	if sig := p.hoist(all, scope); sig.Abrupt() {
		return nil, sig
	}

	start := -1
	for i, c := range n.Cases {
		if c.Test == nil {
			continue
		}
		v, sig := p.ChildIn(c.Test, scope).Evaluate()
		if sig.Abrupt() {
			return nil, sig
		}
		if runtime.StrictEquals(disc, v) {
			start = i
			break
		}
	}
	if start < 0 {
		for i, c := range n.Cases {
			if c.Test == nil {
				start = i
				break
			}
		}
	}
	if start < 0 {
		return nil, runtime.Signal{}
	}
	for _, c := range n.Cases[start:] {
		_, sig := p.ChildIn(c, scope).Evaluate()
		if sig.Kind == runtime.SigBreak && p.ownsLabel(sig.Label) {
			return nil, runtime.Signal{}
		}
		if sig.Abrupt() {
			return nil, sig
		}
	}
	return nil, runtime.Signal{}
}

func evalSwitchCase(p *Path) (*runtime.Value, runtime.Signal) {
	for _, stmt := range p.Node.(*ast.SwitchCase).Consequent {
		if _, ok := stmt.(*ast.FunctionDeclaration); ok {
			continue
		}
		if _, sig := p.eval(stmt); sig.Abrupt() {
			return nil, sig
		}
	}
	return nil, runtime.Signal{}
}

func evalThrow(p *Path) (*runtime.Value, runtime.Signal) {
	v, sig := p.eval(p.Node.(*ast.ThrowStatement).Argument)
	if sig.Abrupt() {
		return nil, sig
	}
	p.engine.markThrown(v)
	return nil, runtime.Throw(v)
}

// evalTry runs the handler for a throw and then the finalizer. An abrupt
// finalizer replaces whatever the try or catch block produced.
func evalTry(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.TryStatement)
	v, sig := p.eval(n.Block)
	if sig.Kind == runtime.SigThrow && n.Handler != nil {
		v, sig = p.Child(n.Handler).With(ctxValue, sig.Value).Evaluate()
	}
	if n.Finalizer != nil {
		if _, fsig := p.eval(n.Finalizer); fsig.Abrupt() {
			return nil, fsig
		}
	}
	return v, sig
}

func evalCatchClause(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.CatchClause)
	scope := p.Scope.CreateChild(runtime.ScopeCatch)
	if n.Param != nil {
		if sig := p.ChildIn(n.Param, scope).bind(n.Param, p.value(), bindConst); sig.Abrupt() {
			return nil, sig
		}
	}
	return p.ChildIn(n.Body, scope).Evaluate()
}

package interpreter

import (
	"github.com/example/jsvm/ast"
	"github.com/example/jsvm/runtime"
)

// funcKind selects the invocation flavor of a closure.
type funcKind int

const (
	funcNormal funcKind = iota
	funcArrow
	funcMethod
	funcClassConstructor
)

// Hidden bindings in function scopes. The % prefix keeps them out of reach
// of script identifiers.
const (
	bindingThis      = "this"
	bindingArguments = "arguments"
	bindingNewTarget = "new.target"
	bindingCallee    = "%callee"
	bindingHome      = "%home"
	bindingInstance  = "%instance"
	bindingGenerator = "%generator"
)

const slotClosure = "closure"

// closure is a script function: its node plus the scope it was defined in.
// The scope is held by reference so later mutations stay visible.
type closure struct {
	engine *engine
	node   *ast.Function
	scope  *runtime.Scope
	kind   funcKind
	name   string
	loc    ast.Position
	self   *runtime.Object
	home   *runtime.Object // object a method was defined on
	class  *classInfo      // set on class constructors
}

func closureOf(v *runtime.Value) *closure {
	if !v.IsObject() {
		return nil
	}
	c, _ := v.Object.Slot(slotClosure).(*closure)
	return c
}

// makeFunction creates a function object closing over p.Scope.
func (p *Path) makeFunction(fn *ast.Function, kind funcKind, name string, loc ast.Position) *runtime.Value {
	realm := p.realm()
	c := &closure{engine: p.engine, node: fn, scope: p.Scope, kind: kind, name: name, loc: loc}
	obj := runtime.NewFunctionObject(realm.FunctionPrototype, nil)
	c.self = obj
	obj.SetSlot(slotClosure, c)
	if fn.Source != "" {
		obj.SetSlot("source", fn.Source)
	}
	obj.Callable = func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		v, sig := c.call(c.loc, this, args)
		return v, c.engine.signalError(sig)
	}
	if (kind == funcNormal || kind == funcClassConstructor) && !fn.Generator && !fn.Async {
		obj.Constructor = func(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
			v, sig := c.construct(c.loc, args, runtime.NewObject(obj))
			return v, c.engine.signalError(sig)
		}
	}
	obj.DefineProperty("length", &runtime.Property{Value: runtime.NewNumber(float64(paramLength(fn.Params))), Configurable: true})
	obj.DefineProperty("name", &runtime.Property{Value: runtime.NewString(name), Configurable: true})
	if kind == funcNormal || kind == funcClassConstructor {
		proto := realm.NewObject()
		if fn.Generator {
			proto = runtime.NewOrdinaryObject(realm.GeneratorPrototype)
		} else {
			proto.DefineProperty("constructor", &runtime.Property{Value: runtime.NewObject(obj), Writable: true, Configurable: true})
		}
		obj.DefineProperty("prototype", &runtime.Property{Value: runtime.NewObject(proto), Writable: true})
	}
	return runtime.NewObject(obj)
}

// paramLength counts the parameters before the first default or rest.
func paramLength(params []ast.Expression) int {
	for i, param := range params {
		switch param.(type) {
		case *ast.AssignmentPattern, *ast.RestElement:
			return i
		}
	}
	return len(params)
}

// signalError converts an abrupt signal escaping a host-visible call into
// an error.
func (e *engine) signalError(sig runtime.Signal) error {
	if sig.Kind == runtime.SigThrow {
		return &runtime.Exception{Value: sig.Value, Stack: e.thrown}
	}
	return nil
}

// evalNamed evaluates expr and names the result after the binding it is
// assigned to when expr is an anonymous function or class.
func (p *Path) evalNamed(expr ast.Expression, name string) (*runtime.Value, runtime.Signal) {
	v, sig := p.eval(expr)
	if sig.Abrupt() || name == "" {
		return v, sig
	}
	anonymous := false
	switch e := expr.(type) {
	case *ast.FunctionExpression:
		anonymous = e.ID == nil
	case *ast.ArrowFunctionExpression:
		anonymous = true
	case *ast.ClassExpression:
		anonymous = e.ID == nil
	}
	if anonymous && v.IsCallable() {
		if c := closureOf(v); c != nil {
			c.name = name
		}
		v.Object.DefineProperty("name", &runtime.Property{Value: runtime.NewString(name), Configurable: true})
	}
	return v, sig
}

func evalFunctionExpression(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.FunctionExpression)
	if (n.Generator || n.Async) && !p.Preset.coroutines() {
		return p.throw(runtime.ErrorUnsupported("generator and async functions are not supported in preset %s", p.Preset))
	}
	if n.ID == nil {
		return p.makeFunction(&n.Function, funcNormal, "", n.Range.Start), runtime.Signal{}
	}
	// A named function expression sees its own name in an intermediate scope.
	scope := p.Scope.CreateChild(runtime.ScopeBlock)
	fn := p.ChildIn(n, scope).makeFunction(&n.Function, funcNormal, n.ID.Name, n.Range.Start)
	if err := scope.Const(n.ID.Name, fn); err != nil {
		return p.throw(err)
	}
	return fn, runtime.Signal{}
}

func evalArrowFunction(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.ArrowFunctionExpression)
	if n.Async && !p.Preset.coroutines() {
		return p.throw(runtime.ErrorUnsupported("async functions are not supported in preset %s", p.Preset))
	}
	return p.makeFunction(&n.Function, funcArrow, "", n.Range.Start), runtime.Signal{}
}

// callValue invokes fn with this and args. what names the callee in errors.
func (p *Path) callValue(fn, this *runtime.Value, args []*runtime.Value, what string) (*runtime.Value, runtime.Signal) {
	return p.callAt(p.Node.Span().Start, fn, this, args, what)
}

func (p *Path) callAt(loc ast.Position, fn, this *runtime.Value, args []*runtime.Value, what string) (*runtime.Value, runtime.Signal) {
	if c := closureOf(fn); c != nil {
		return c.call(loc, this, args)
	}
	if !fn.IsCallable() {
		return p.throw(runtime.ErrorNotAFunction(what))
	}
	leave, err := p.Stack.Enter(what, loc)
	defer leave()
	if err != nil {
		return p.throw(err)
	}
	v, err := fn.Object.Callable(this, args)
	if err != nil {
		return p.throw(err)
	}
	if v == nil {
		v = runtime.Undefined
	}
	return v, runtime.Signal{}
}

// construct implements `new fn(...args)`.
func (p *Path) construct(fn *runtime.Value, args []*runtime.Value, what string) (*runtime.Value, runtime.Signal) {
	loc := p.Node.Span().Start
	if c := closureOf(fn); c != nil {
		if c.kind != funcNormal && c.kind != funcClassConstructor || c.node.Generator || c.node.Async {
			return p.throw(runtime.ErrorNotAConstructor(what))
		}
		return c.construct(loc, args, fn)
	}
	if !fn.IsObject() || fn.Object.Constructor == nil {
		return p.throw(runtime.ErrorNotAConstructor(what))
	}
	leave, err := p.Stack.Enter(what, loc)
	defer leave()
	if err != nil {
		return p.throw(err)
	}
	v, err := fn.Object.Constructor(runtime.Undefined, args)
	if err != nil {
		return p.throw(err)
	}
	return v, runtime.Signal{}
}

// call invokes c as a plain function.
func (c *closure) call(loc ast.Position, this *runtime.Value, args []*runtime.Value) (*runtime.Value, runtime.Signal) {
	if c.kind == funcClassConstructor {
		p := c.path(nil)
		return p.throw(typeError("Class constructor %s cannot be invoked without 'new'", c.name))
	}
	v, _, sig := c.invoke(loc, this, args, runtime.Undefined)
	return v, sig
}

// construct allocates the instance from newTarget.prototype and runs c as a
// constructor. An object returned explicitly replaces the instance.
func (c *closure) construct(loc ast.Position, args []*runtime.Value, newTarget *runtime.Value) (*runtime.Value, runtime.Signal) {
	p := c.path(nil)
	proto := p.realm().ObjectPrototype
	if pv := prototypeOf(p, newTarget.Object); pv.IsObject() {
		proto = pv.Object
	}
	instance := runtime.NewObject(runtime.NewOrdinaryObject(proto))
	v, scope, sig := c.invoke(loc, instance, args, newTarget)
	if sig.Abrupt() {
		return nil, sig
	}
	if v.IsObject() {
		return v, runtime.Signal{}
	}
	if c.class != nil && c.class.derived {
		b := scope.ResolveOwn(bindingThis)
		if b == nil {
			return p.throw(runtime.ErrorNoSuperCall())
		}
		return b.Value, runtime.Signal{}
	}
	return instance, runtime.Signal{}
}

// path returns a detached Path for running c's code.
func (c *closure) path(node ast.Node) *Path {
	e := c.engine
	if node == nil {
		node = c.node.Body
	}
	return &Path{Node: node, Scope: c.scope, Stack: e.stack, Preset: e.preset, engine: e}
}

// invoke runs the body in a fresh function scope and returns the result and
// that scope. Generators and async functions return their iterator or
// promise without running the body here.
func (c *closure) invoke(loc ast.Position, this *runtime.Value, args []*runtime.Value, newTarget *runtime.Value) (*runtime.Value, *runtime.Scope, runtime.Signal) {
	e := c.engine
	leave, err := e.stack.Enter(c.name, loc)
	defer leave()
	p := c.path(nil)
	if err != nil {
		v, sig := p.throw(err)
		return v, nil, sig
	}

	scope := c.scope.CreateChild(c.scopeType())
	p.Scope = scope
	if c.kind != funcArrow {
		if c.class != nil && c.class.derived {
			scope.Const(bindingInstance, this)
		} else {
			scope.Const(bindingThis, this)
		}
		scope.Var(bindingArguments, runtime.NewObject(p.realm().NewArray(append([]*runtime.Value(nil), args...))))
		scope.Const(bindingNewTarget, newTarget)
		scope.Const(bindingCallee, runtime.NewObject(c.self))
		if c.home != nil {
			scope.Const(bindingHome, runtime.NewObject(c.home))
		}
	}
	if sig := c.bindParams(p, args); sig.Abrupt() {
		return nil, scope, sig
	}
	if c.class != nil && !c.class.derived {
		if sig := c.class.initFields(p, this); sig.Abrupt() {
			return nil, scope, sig
		}
	}

	switch {
	case c.node.Generator:
		return p.newGenerator(c, scope), scope, runtime.Signal{}
	case c.node.Async:
		return p.runAsync(c, scope), scope, runtime.Signal{}
	}

	_, sig := p.ChildIn(c.node.Body, scope).Evaluate()
	switch sig.Kind {
	case runtime.SigReturn:
		return sig.Value, scope, runtime.Signal{}
	case runtime.SigThrow:
		return nil, scope, sig
	}
	return runtime.Undefined, scope, runtime.Signal{}
}

func (c *closure) scopeType() runtime.ScopeType {
	switch c.kind {
	case funcMethod:
		return runtime.ScopeMethod
	case funcClassConstructor:
		return runtime.ScopeConstructor
	}
	return runtime.ScopeFunction
}

// bindParams binds parameters positionally as vars of the function scope.
func (c *closure) bindParams(p *Path, args []*runtime.Value) runtime.Signal {
	q := p.ChildIn(c.node.Body, p.Scope)
	for i, param := range c.node.Params {
		if rest, ok := param.(*ast.RestElement); ok {
			var tail []*runtime.Value
			if i < len(args) {
				tail = append(tail, args[i:]...)
			}
			return q.bind(rest.Argument, runtime.NewObject(p.realm().NewArray(tail)), bindVar)
		}
		arg := runtime.Undefined
		if i < len(args) && args[i] != nil {
			arg = args[i]
		}
		if sig := q.bind(param, arg, bindVar); sig.Abrupt() {
			return sig
		}
	}
	return runtime.Signal{}
}

package interpreter

import (
	"fmt"

	"github.com/example/jsvm/ast"
	"github.com/example/jsvm/runtime"
)

// classInfo is attached to a class constructor closure.
type classInfo struct {
	name    string
	derived bool
	parent  *runtime.Value
	proto   *runtime.Object
	scope   *runtime.Scope
	fields  []classField
}

// classField is an instance field, initialized on every construction.
type classField struct {
	key   string
	value ast.Expression // may be nil
}

// makeClass evaluates a class body into a constructor function. Methods and
// accessors land on the prototype as non-enumerable properties and static
// members on the constructor itself.
func (p *Path) makeClass(cls *ast.Class, name string) (*runtime.Value, runtime.Signal) {
	realm := p.realm()
	scope := p.Scope.CreateChild(runtime.ScopeBlock)
	q := p.ChildIn(p.Node, scope)

	info := &classInfo{name: name, scope: scope}
	protoParent := realm.ObjectPrototype
	if cls.SuperClass != nil {
		parent, sig := q.eval(cls.SuperClass)
		if sig.Abrupt() {
			return nil, sig
		}
		switch {
		case parent.Type == runtime.TypeNull:
			protoParent = nil
		case !parent.IsCallable():
			return p.throw(typeError("Class extends value %s is not a constructor or null", parent.ToString()))
		default:
			info.derived = true
			info.parent = parent
			protoParent = nil
			if pp := prototypeOf(p, parent.Object); pp.IsObject() {
				protoParent = pp.Object
			}
		}
	}

	ctorNode := classConstructor(cls, info.derived)
	ctor := q.makeFunction(&ctorNode.Function, funcClassConstructor, name, ctorNode.Range.Start)
	c := closureOf(ctor)
	c.class = info
	info.proto = ctor.Object.Get("prototype").Object
	info.proto.Prototype = protoParent
	c.home = info.proto
	if info.parent != nil {
		ctor.Object.Prototype = info.parent.Object
	}
	if name != "" {
		if err := scope.Const(name, ctor); err != nil {
			return p.throw(err)
		}
	}

	for _, member := range cls.Body {
		switch m := member.(type) {
		case *ast.ClassMethod:
			if m.Method == ast.MethodConstructor {
				continue
			}
			key, sig := q.propertyKey(m.Key, m.Computed)
			if sig.Abrupt() {
				return nil, sig
			}
			target := info.proto
			if m.Static {
				target = ctor.Object
			}
			fnName := key
			if m.Method == ast.MethodGet || m.Method == ast.MethodSet {
				fnName = string(m.Method) + " " + key
			}
			fn := q.makeFunction(&m.Value.Function, funcMethod, fnName, m.Range.Start)
			closureOf(fn).home = target
			defineMethod(target, key, m.Method, fn, false)
		case *ast.ClassProperty:
			key, sig := q.propertyKey(m.Key, m.Computed)
			if sig.Abrupt() {
				return nil, sig
			}
			if !m.Static {
				info.fields = append(info.fields, classField{key: key, value: m.Value})
				continue
			}
			v := runtime.Undefined
			if m.Value != nil {
				s := scope.CreateChild(runtime.ScopeMethod)
				s.Const(bindingThis, ctor)
				s.Const(bindingHome, ctor)
				if v, sig = p.ChildIn(m.Value, s).evalNamed(m.Value, key); sig.Abrupt() {
					return nil, sig
				}
			}
			ctor.Object.DefineProperty(key, &runtime.Property{Value: v, Writable: true, Enumerable: true, Configurable: true})
		}
	}
	return ctor, runtime.Signal{}
}

// classConstructor returns the explicit constructor or synthesizes the
// default one. A derived default forwards its arguments to super.
func classConstructor(cls *ast.Class, derived bool) *ast.FunctionExpression {
	for _, member := range cls.Body {
		if m, ok := member.(*ast.ClassMethod); ok && m.Method == ast.MethodConstructor {
			return m.Value
		}
	}
	fn := &ast.FunctionExpression{Function: ast.Function{Body: &ast.BlockStatement{}}}
	if derived {
		args := &ast.Identifier{Name: "args"}
		fn.Params = []ast.Expression{&ast.RestElement{Argument: args}}
		fn.Body.Body = []ast.Statement{&ast.ExpressionStatement{Expression: &ast.CallExpression{
			Callee:    &ast.Super{},
			Arguments: []ast.Expression{&ast.SpreadElement{Argument: args}},
		}}}
	}
	return fn
}

// initFields defines the instance fields on this.
func (info *classInfo) initFields(p *Path, this *runtime.Value) runtime.Signal {
	if len(info.fields) == 0 || !this.IsObject() {
		return runtime.Signal{}
	}
	s := info.scope.CreateChild(runtime.ScopeMethod)
	s.Const(bindingThis, this)
	s.Const(bindingHome, runtime.NewObject(info.proto))
	for _, f := range info.fields {
		v := runtime.Undefined
		if f.value != nil {
			var sig runtime.Signal
			if v, sig = p.ChildIn(f.value, s).evalNamed(f.value, f.key); sig.Abrupt() {
				return sig
			}
		}
		this.Object.DefineProperty(f.key, &runtime.Property{Value: v, Writable: true, Enumerable: true, Configurable: true})
	}
	return runtime.Signal{}
}

// superCall runs the parent constructor against the pending instance and
// binds this in the derived constructor scope.
func (p *Path) superCall(n *ast.CallExpression) (*runtime.Value, runtime.Signal) {
	pending := p.Scope.Resolve(bindingInstance)
	if pending == nil {
		return p.throw(runtime.ErrorUnsupported("'super' keyword unexpected here"))
	}
	ctorScope := pending.Scope
	if ctorScope.ResolveOwn(bindingThis) != nil {
		return p.throw(fmt.Errorf("ReferenceError: Super constructor may only be called once"))
	}
	c := closureOf(ctorScope.ResolveOwn(bindingCallee).Value)
	info := c.class
	newTarget := ctorScope.ResolveOwn(bindingNewTarget).Value
	args, sig := p.evalArgs(n.Arguments)
	if sig.Abrupt() {
		return nil, sig
	}

	instance := pending.Value
	if pc := closureOf(info.parent); pc != nil {
		if pc.kind != funcNormal && pc.kind != funcClassConstructor {
			return p.throw(runtime.ErrorNotAConstructor("super"))
		}
		res, parentScope, sig := pc.invoke(n.Range.Start, instance, args, newTarget)
		if sig.Abrupt() {
			return nil, sig
		}
		switch {
		case res.IsObject():
			instance = res
		case pc.class != nil && pc.class.derived:
			b := parentScope.ResolveOwn(bindingThis)
			if b == nil {
				return p.throw(runtime.ErrorNoSuperCall())
			}
			instance = b.Value
		}
	} else {
		parent := info.parent
		if !parent.IsObject() || parent.Object.Constructor == nil {
			return p.throw(runtime.ErrorNotAConstructor("super"))
		}
		leave, err := p.Stack.Enter(info.name, n.Range.Start)
		defer leave()
		if err != nil {
			return p.throw(err)
		}
		res, err := parent.Object.Constructor(runtime.Undefined, args)
		if err != nil {
			return p.throw(err)
		}
		if res.IsObject() {
			adoptHostInstance(instance.Object, res.Object)
		}
	}

	if err := ctorScope.Const(bindingThis, instance); err != nil {
		return p.throw(err)
	}
	if sig := info.initFields(p, instance); sig.Abrupt() {
		return nil, sig
	}
	return runtime.Undefined, runtime.Signal{}
}

// adoptHostInstance copies the state a host constructor produced onto the
// instance, keeping the instance's own prototype.
func adoptHostInstance(dst, src *runtime.Object) {
	if src.OType != runtime.ObjTypeOrdinary {
		dst.OType = src.OType
	}
	dst.ArrayData = src.ArrayData
	for k, v := range src.Internal {
		dst.SetSlot(k, v)
	}
	for _, k := range src.OwnKeys() {
		if prop := src.GetOwnProperty(k); prop != nil {
			dst.DefineProperty(k, prop)
		}
	}
}

package interpreter

import (
	"strconv"

	"github.com/example/jsvm/ast"
	"github.com/example/jsvm/runtime"
)

func expressions() map[ast.Kind]Rule {
	return map[ast.Kind]Rule{
		ast.KindIdentifier:               evalIdentifier,
		ast.KindThisExpression:           evalThis,
		ast.KindSuper:                    evalSuper,
		ast.KindMetaProperty:             evalMetaProperty,
		ast.KindArrayExpression:          evalArray,
		ast.KindObjectExpression:         evalObject,
		ast.KindObjectProperty:           evalObjectProperty,
		ast.KindObjectMethod:             evalObjectMethod,
		ast.KindSpreadElement:            evalSpread,
		ast.KindFunctionExpression:       evalFunctionExpression,
		ast.KindArrowFunctionExpression:  evalArrowFunction,
		ast.KindClassExpression:          evalClassExpression,
		ast.KindTaggedTemplateExpression: evalTaggedTemplate,
		ast.KindUnaryExpression:          evalUnary,
		ast.KindUpdateExpression:         evalUpdate,
		ast.KindBinaryExpression:         evalBinary,
		ast.KindLogicalExpression:        evalLogical,
		ast.KindAssignmentExpression:     evalAssignment,
		ast.KindConditionalExpression:    evalConditional,
		ast.KindCallExpression:           evalCall,
		ast.KindNewExpression:            evalNew,
		ast.KindMemberExpression:         evalMember,
		ast.KindChainExpression:          evalChain,
		ast.KindSequenceExpression:       evalSequence,
		ast.KindYieldExpression:          evalYield,
		ast.KindAwaitExpression:          evalAwait,
	}
}

// chainBroken is returned inside an optional chain once a link was nullish.
// evalChain turns it back into undefined.
var chainBroken = &runtime.Value{Type: runtime.TypeUndefined}

func evalIdentifier(p *Path) (*runtime.Value, runtime.Signal) {
	name := p.Node.(*ast.Identifier).Name
	v, err := p.Scope.Lookup(name)
	if err == nil {
		return v, runtime.Signal{}
	}
	if name == "undefined" {
		return runtime.Undefined, runtime.Signal{}
	}
	return p.throw(err)
}

// thisValue walks out to the nearest scope binding this. A derived
// constructor scope without one has not called super yet.
func (p *Path) thisValue() (*runtime.Value, runtime.Signal) {
	for cur := p.Scope; cur != nil; cur = cur.Parent {
		if b := cur.ResolveOwn(bindingThis); b != nil {
			return b.Value, runtime.Signal{}
		}
		if cur.ResolveOwn(bindingInstance) != nil {
			return p.throw(runtime.ErrorNoSuperCall())
		}
	}
	return runtime.Undefined, runtime.Signal{}
}

func evalThis(p *Path) (*runtime.Value, runtime.Signal) {
	return p.thisValue()
}

// superBase returns the object super property lookups start from.
func (p *Path) superBase() (*runtime.Object, runtime.Signal) {
	b := p.Scope.Resolve(bindingHome)
	if b == nil || !b.Value.IsObject() {
		_, sig := p.throw(runtime.ErrorUnsupported("'super' keyword unexpected here"))
		return nil, sig
	}
	return b.Value.Object.Prototype, runtime.Signal{}
}

func evalSuper(p *Path) (*runtime.Value, runtime.Signal) {
	base, sig := p.superBase()
	if sig.Abrupt() {
		return nil, sig
	}
	if base == nil {
		return runtime.Null, runtime.Signal{}
	}
	return runtime.NewObject(base), runtime.Signal{}
}

func evalMetaProperty(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.MetaProperty)
	if n.Meta != "new" || n.Property != "target" {
		return p.throw(runtime.ErrorUnsupported("%s.%s is not supported", n.Meta, n.Property))
	}
	if b := p.Scope.Resolve(bindingNewTarget); b != nil {
		return b.Value, runtime.Signal{}
	}
	return runtime.Undefined, runtime.Signal{}
}

func evalArray(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.ArrayExpression)
	list := make([]*runtime.Value, 0, len(n.Elements))
	for _, el := range n.Elements {
		switch el := el.(type) {
		case nil:
			list = append(list, nil)
		case *ast.SpreadElement:
			if _, sig := p.Child(el).With(ctxList, &list).Evaluate(); sig.Abrupt() {
				return nil, sig
			}
		default:
			v, sig := p.eval(el)
			if sig.Abrupt() {
				return nil, sig
			}
			list = append(list, v)
		}
	}
	return runtime.NewObject(p.realm().NewArray(list)), runtime.Signal{}
}

// evalObject defines static entries and spreads first and computed keys
// after them.
func evalObject(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.ObjectExpression)
	obj := p.realm().NewObject()
	var computed []ast.Node
	for _, prop := range n.Properties {
		if isComputed(prop) {
			computed = append(computed, prop)
			continue
		}
		if _, sig := p.Child(prop).With(ctxObject, obj).Evaluate(); sig.Abrupt() {
			return nil, sig
		}
	}
	for _, prop := range computed {
		if _, sig := p.Child(prop).With(ctxObject, obj).Evaluate(); sig.Abrupt() {
			return nil, sig
		}
	}
	return runtime.NewObject(obj), runtime.Signal{}
}

func isComputed(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.ObjectProperty:
		return n.Computed
	case *ast.ObjectMethod:
		return n.Computed
	}
	return false
}

func (p *Path) object() *runtime.Object {
	obj, _ := p.Ctx[ctxObject].(*runtime.Object)
	return obj
}

func evalObjectProperty(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.ObjectProperty)
	obj := p.object()
	if obj == nil {
		return p.throw(runtime.ErrorUnsupported("object property outside an object literal"))
	}
	key, sig := p.propertyKey(n.Key, n.Computed)
	if sig.Abrupt() {
		return nil, sig
	}
	v, sig := p.evalNamed(n.Value, key)
	if sig.Abrupt() {
		return nil, sig
	}
	if key == "__proto__" && !n.Computed && !n.Shorthand {
		switch {
		case v.IsObject():
			obj.Prototype = v.Object
		case v.Type == runtime.TypeNull:
			obj.Prototype = nil
		}
		return nil, runtime.Signal{}
	}
	obj.DefineProperty(key, &runtime.Property{Value: v, Writable: true, Enumerable: true, Configurable: true})
	return nil, runtime.Signal{}
}

func evalObjectMethod(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.ObjectMethod)
	obj := p.object()
	if obj == nil {
		return p.throw(runtime.ErrorUnsupported("object method outside an object literal"))
	}
	if (n.Generator || n.Async) && !p.Preset.coroutines() {
		return p.throw(runtime.ErrorUnsupported("generator and async functions are not supported in preset %s", p.Preset))
	}
	key, sig := p.propertyKey(n.Key, n.Computed)
	if sig.Abrupt() {
		return nil, sig
	}
	name := key
	if n.Method == ast.MethodGet || n.Method == ast.MethodSet {
		name = string(n.Method) + " " + key
	}
	fn := p.makeFunction(&n.Function, funcMethod, name, n.Range.Start)
	closureOf(fn).home = obj
	defineMethod(obj, key, n.Method, fn, true)
	return nil, runtime.Signal{}
}

// defineMethod installs a method or merges an accessor half into key.
func defineMethod(obj *runtime.Object, key string, kind ast.MethodKind, fn *runtime.Value, enumerable bool) {
	switch kind {
	case ast.MethodGet, ast.MethodSet:
		prop := obj.Properties[key]
		if prop == nil || !prop.IsAccessor {
			prop = &runtime.Property{IsAccessor: true, Enumerable: enumerable, Configurable: true}
		}
		if kind == ast.MethodGet {
			prop.Getter = fn
		} else {
			prop.Setter = fn
		}
		obj.DefineProperty(key, prop)
	default:
		obj.DefineProperty(key, &runtime.Property{Value: fn, Writable: true, Enumerable: enumerable, Configurable: true})
	}
}

// evalSpread expands into the array or argument list in ctx, or copies own
// enumerable properties into the object literal in ctx.
func evalSpread(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.SpreadElement)
	v, sig := p.eval(n.Argument)
	if sig.Abrupt() {
		return nil, sig
	}
	if list, ok := p.Ctx[ctxList].(*[]*runtime.Value); ok {
		items, sig := p.collect(v, describeNode(n.Argument))
		if sig.Abrupt() {
			return nil, sig
		}
		*list = append(*list, items...)
		return nil, runtime.Signal{}
	}
	if obj := p.object(); obj != nil {
		switch {
		case v.IsObject():
			for _, k := range v.Object.EnumerableKeys() {
				val, err := v.Object.GetWithReceiver(k, v)
				if err != nil {
					return p.throw(err)
				}
				obj.DefineProperty(k, &runtime.Property{Value: val, Writable: true, Enumerable: true, Configurable: true})
			}
		case v.Type == runtime.TypeString:
			for i, r := range []rune(v.Str) {
				obj.Set(strconv.Itoa(i), runtime.NewString(string(r)))
			}
		}
		return nil, runtime.Signal{}
	}
	return p.throw(runtime.ErrorUnsupported("spread outside an array, call or object literal"))
}

func evalClassExpression(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.ClassExpression)
	name := ""
	if n.ID != nil {
		name = n.ID.Name
	}
	return p.makeClass(&n.Class, name)
}

// evalArgs evaluates call arguments left to right, expanding spreads.
func (p *Path) evalArgs(args []ast.Expression) ([]*runtime.Value, runtime.Signal) {
	out := make([]*runtime.Value, 0, len(args))
	for _, arg := range args {
		if spread, ok := arg.(*ast.SpreadElement); ok {
			if _, sig := p.Child(spread).With(ctxList, &out).Evaluate(); sig.Abrupt() {
				return nil, sig
			}
			continue
		}
		v, sig := p.eval(arg)
		if sig.Abrupt() {
			return nil, sig
		}
		out = append(out, v)
	}
	return out, runtime.Signal{}
}

func evalTaggedTemplate(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.TaggedTemplateExpression)
	fn, this, sig := p.callee(n.Tag)
	if sig.Abrupt() {
		return nil, sig
	}
	cooked := make([]*runtime.Value, len(n.Quasi.Quasis))
	raw := make([]*runtime.Value, len(n.Quasi.Quasis))
	for i, q := range n.Quasi.Quasis {
		cooked[i] = runtime.NewString(q)
		raw[i] = cooked[i]
		if i < len(n.Quasi.Raw) {
			raw[i] = runtime.NewString(n.Quasi.Raw[i])
		}
	}
	strs := p.realm().NewArray(cooked)
	strs.DefineProperty("raw", &runtime.Property{Value: runtime.NewObject(p.realm().NewArray(raw))})
	args := []*runtime.Value{runtime.NewObject(strs)}
	for _, expr := range n.Quasi.Expressions {
		v, sig := p.eval(expr)
		if sig.Abrupt() {
			return nil, sig
		}
		args = append(args, v)
	}
	return p.callValue(fn, this, args, describeNode(n.Tag))
}

func evalUnary(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.UnaryExpression)
	switch n.Operator {
	case "typeof":
		if id, ok := n.Argument.(*ast.Identifier); ok && p.Scope.Resolve(id.Name) == nil {
			return runtime.NewString("undefined"), runtime.Signal{}
		}
	case "delete":
		return p.delete(n.Argument)
	}
	fn, ok := unaryOperators[n.Operator]
	if !ok {
		return p.throw(runtime.ErrorUnsupported("unknown unary operator %s", n.Operator))
	}
	v, sig := p.eval(n.Argument)
	if sig.Abrupt() {
		return nil, sig
	}
	out, err := fn(v)
	if err != nil {
		return p.throw(err)
	}
	return out, runtime.Signal{}
}

func (p *Path) delete(target ast.Expression) (*runtime.Value, runtime.Signal) {
	switch t := target.(type) {
	case *ast.MemberExpression:
		obj, key, sig := p.memberReference(t)
		if sig.Abrupt() {
			return nil, sig
		}
		if obj == chainBroken {
			return runtime.True, runtime.Signal{}
		}
		if obj.IsNullish() {
			return p.throw(runtime.ErrorPropertyAccess(key, obj))
		}
		if !obj.IsObject() {
			return runtime.True, runtime.Signal{}
		}
		return runtime.NewBool(obj.Object.Delete(key)), runtime.Signal{}
	case *ast.ChainExpression:
		return p.delete(t.Expression)
	case *ast.Identifier:
		return runtime.NewBool(p.Scope.Resolve(t.Name) == nil), runtime.Signal{}
	}
	if _, sig := p.eval(target); sig.Abrupt() {
		return nil, sig
	}
	return runtime.True, runtime.Signal{}
}

func evalUpdate(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.UpdateExpression)
	result := func(old, updated *runtime.Value) *runtime.Value {
		if n.Prefix {
			return updated
		}
		return old
	}
	switch t := n.Argument.(type) {
	case *ast.Identifier:
		b := p.Scope.Resolve(t.Name)
		if b == nil {
			return p.throw(runtime.ErrorNameNotDefined(t.Name))
		}
		old, updated, err := updateOp(n.Operator, b.Value)
		if err != nil {
			return p.throw(err)
		}
		if b.Kind == runtime.KindConst {
			return p.throw(runtime.ErrorConstAssignment())
		}
		b.Value = updated
		return result(old, updated), runtime.Signal{}
	case *ast.MemberExpression:
		obj, key, sig := p.memberReference(t)
		if sig.Abrupt() {
			return nil, sig
		}
		cur, sig := p.getMember(obj, key)
		if sig.Abrupt() {
			return nil, sig
		}
		old, updated, err := updateOp(n.Operator, cur)
		if err != nil {
			return p.throw(err)
		}
		if sig := p.putMember(obj, key, updated); sig.Abrupt() {
			return nil, sig
		}
		return result(old, updated), runtime.Signal{}
	}
	return p.throw(runtime.ErrorUnsupported("invalid update target"))
}

func evalBinary(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.BinaryExpression)
	left, sig := p.eval(n.Left)
	if sig.Abrupt() {
		return nil, sig
	}
	right, sig := p.eval(n.Right)
	if sig.Abrupt() {
		return nil, sig
	}
	v, err := binaryOp(n.Operator, left, right)
	if err != nil {
		return p.throw(err)
	}
	return v, runtime.Signal{}
}

func evalLogical(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.LogicalExpression)
	left, sig := p.eval(n.Left)
	if sig.Abrupt() || logicalShortCircuits(n.Operator, left) {
		return left, sig
	}
	return p.eval(n.Right)
}

// assignIdentifier resolves name before evaluating the right-hand side and
// writes afterwards. An unresolved name becomes a root var when auto-global
// is on.
func (p *Path) assignIdentifier(name string, rhs func() (*runtime.Value, runtime.Signal)) (*runtime.Value, runtime.Signal) {
	b := p.Scope.Resolve(name)
	if b == nil && !p.engine.opts.AutoGlobal {
		return p.throw(runtime.ErrorNameNotDefined(name))
	}
	v, sig := rhs()
	if sig.Abrupt() {
		return nil, sig
	}
	if b == nil {
		p.engine.log.Debug("implicit global created", "name", name)
		if err := p.engine.root.Var(name, v); err != nil {
			return p.throw(err)
		}
		return v, runtime.Signal{}
	}
	if err := b.Scope.Assign(name, v); err != nil {
		return p.throw(err)
	}
	return v, runtime.Signal{}
}

func evalAssignment(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.AssignmentExpression)
	op := n.Operator[:len(n.Operator)-1]
	logical := op == "&&" || op == "||" || op == "??"

	switch left := n.Left.(type) {
	case *ast.Identifier:
		if n.Operator == "=" {
			return p.assignIdentifier(left.Name, func() (*runtime.Value, runtime.Signal) {
				return p.evalNamed(n.Right, left.Name)
			})
		}
		b := p.Scope.Resolve(left.Name)
		if b == nil {
			return p.throw(runtime.ErrorNameNotDefined(left.Name))
		}
		cur := b.Value
		if logical && logicalShortCircuits(op, cur) {
			return cur, runtime.Signal{}
		}
		return p.assignIdentifier(left.Name, func() (*runtime.Value, runtime.Signal) {
			right, sig := p.evalNamed(n.Right, left.Name)
			if sig.Abrupt() || logical {
				return right, sig
			}
			v, err := binaryOp(op, cur, right)
			if err != nil {
				return p.throw(err)
			}
			return v, runtime.Signal{}
		})

	case *ast.MemberExpression:
		if logical {
			obj, key, sig := p.memberReference(left)
			if sig.Abrupt() {
				return nil, sig
			}
			cur, sig := p.getMember(obj, key)
			if sig.Abrupt() || logicalShortCircuits(op, cur) {
				return cur, sig
			}
			right, sig := p.eval(n.Right)
			if sig.Abrupt() {
				return nil, sig
			}
			if sig := p.putMember(obj, key, right); sig.Abrupt() {
				return nil, sig
			}
			return right, runtime.Signal{}
		}
		// object, then right-hand side, then the key
		obj, sig := p.eval(left.Object)
		if sig.Abrupt() {
			return nil, sig
		}
		right, sig := p.eval(n.Right)
		if sig.Abrupt() {
			return nil, sig
		}
		key, sig := p.memberKey(left)
		if sig.Abrupt() {
			return nil, sig
		}
		v := right
		if n.Operator != "=" {
			cur, sig := p.getMember(obj, key)
			if sig.Abrupt() {
				return nil, sig
			}
			var err error
			if v, err = binaryOp(op, cur, right); err != nil {
				return p.throw(err)
			}
		}
		if sig := p.putMember(obj, key, v); sig.Abrupt() {
			return nil, sig
		}
		return v, runtime.Signal{}

	case *ast.ObjectPattern, *ast.ArrayPattern:
		right, sig := p.eval(n.Right)
		if sig.Abrupt() {
			return nil, sig
		}
		if sig := p.bind(left, right, bindAssign); sig.Abrupt() {
			return nil, sig
		}
		return right, runtime.Signal{}
	}
	return p.throw(runtime.ErrorUnsupported("invalid assignment target"))
}

func evalConditional(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.ConditionalExpression)
	test, sig := p.eval(n.Test)
	if sig.Abrupt() {
		return nil, sig
	}
	if test.ToBoolean() {
		return p.eval(n.Consequent)
	}
	return p.eval(n.Alternate)
}

func evalSequence(p *Path) (*runtime.Value, runtime.Signal) {
	v := runtime.Undefined
	for _, expr := range p.Node.(*ast.SequenceExpression).Expressions {
		var sig runtime.Signal
		if v, sig = p.eval(expr); sig.Abrupt() {
			return nil, sig
		}
	}
	return v, runtime.Signal{}
}

func evalChain(p *Path) (*runtime.Value, runtime.Signal) {
	v, sig := p.eval(p.Node.(*ast.ChainExpression).Expression)
	if v == chainBroken {
		return runtime.Undefined, sig
	}
	return v, sig
}

// memberKey evaluates the property part of a member expression.
func (p *Path) memberKey(n *ast.MemberExpression) (string, runtime.Signal) {
	if !n.Computed {
		if id, ok := n.Property.(*ast.Identifier); ok {
			return id.Name, runtime.Signal{}
		}
	}
	return p.propertyKey(n.Property, true)
}

// memberReference evaluates the object and then the key of n. Inside an
// optional chain a nullish link yields chainBroken as the object.
func (p *Path) memberReference(n *ast.MemberExpression) (*runtime.Value, string, runtime.Signal) {
	obj, sig := p.eval(n.Object)
	if sig.Abrupt() {
		return nil, "", sig
	}
	if obj == chainBroken || n.Optional && obj.IsNullish() {
		return chainBroken, "", runtime.Signal{}
	}
	key, sig := p.memberKey(n)
	if sig.Abrupt() {
		return nil, "", sig
	}
	return obj, key, runtime.Signal{}
}

func evalMember(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.MemberExpression)
	obj, key, sig := p.memberReference(n)
	if sig.Abrupt() || obj == chainBroken {
		return obj, sig
	}
	if _, ok := n.Object.(*ast.Super); ok {
		this, sig := p.thisValue()
		if sig.Abrupt() {
			return nil, sig
		}
		return p.getMemberWithReceiver(obj, key, this)
	}
	return p.getMember(obj, key)
}

// getMember reads obj[key]. Primitives are boxed so their prototype
// methods resolve.
func (p *Path) getMember(obj *runtime.Value, key string) (*runtime.Value, runtime.Signal) {
	return p.getMemberWithReceiver(obj, key, obj)
}

func (p *Path) getMemberWithReceiver(obj *runtime.Value, key string, receiver *runtime.Value) (*runtime.Value, runtime.Signal) {
	if obj.IsNullish() {
		return p.throw(runtime.ErrorPropertyAccess(key, obj))
	}
	target := obj.Object
	if !obj.IsObject() {
		if obj.Type == runtime.TypeString {
			if i, err := strconv.Atoi(key); err == nil && i >= 0 && strconv.Itoa(i) == key {
				runes := []rune(obj.Str)
				if i < len(runes) {
					return runtime.NewString(string(runes[i])), runtime.Signal{}
				}
				return runtime.Undefined, runtime.Signal{}
			}
		}
		target = p.realm().Box(obj)
	} else if key == "prototype" && obj.Object.OType == runtime.ObjTypeFunction {
		return prototypeOf(p, obj.Object), runtime.Signal{}
	}
	v, err := target.GetWithReceiver(key, receiver)
	if err != nil {
		return p.throw(err)
	}
	if v == nil {
		v = runtime.Undefined
	}
	return v, runtime.Signal{}
}

// prototypeOf reads fn.prototype, creating it on first access for
// constructible host functions so that assignments through it stick.
func prototypeOf(p *Path, fn *runtime.Object) *runtime.Value {
	if fn == nil {
		return runtime.Undefined
	}
	if prop := fn.GetOwnProperty("prototype"); prop != nil || fn.Constructor == nil {
		return fn.Get("prototype")
	}
	proto := p.realm().NewObject()
	proto.DefineProperty("constructor", &runtime.Property{Value: runtime.NewObject(fn), Writable: true, Configurable: true})
	fn.DefineProperty("prototype", &runtime.Property{Value: runtime.NewObject(proto), Writable: true})
	return runtime.NewObject(proto)
}

// putMember writes obj[key] = v. Writes to primitives are dropped.
func (p *Path) putMember(obj *runtime.Value, key string, v *runtime.Value) runtime.Signal {
	if obj == chainBroken {
		return p.throwSignal(runtime.ErrorUnsupported("invalid assignment to an optional chain"))
	}
	if obj.IsNullish() {
		return p.throwSignal(runtime.ErrorPropertyWrite(key, obj))
	}
	if !obj.IsObject() {
		return runtime.Signal{}
	}
	if err := obj.Object.SetWithReceiver(key, v, obj); err != nil {
		return p.throwSignal(err)
	}
	return runtime.Signal{}
}

// callee evaluates a call target and the this value it is called with.
func (p *Path) callee(expr ast.Expression) (fn, this *runtime.Value, sig runtime.Signal) {
	switch c := expr.(type) {
	case *ast.MemberExpression:
		obj, key, sig := p.memberReference(c)
		if sig.Abrupt() || obj == chainBroken {
			return obj, nil, sig
		}
		if _, ok := c.Object.(*ast.Super); ok {
			this, sig := p.thisValue()
			if sig.Abrupt() {
				return nil, nil, sig
			}
			fn, sig := p.getMemberWithReceiver(obj, key, this)
			return fn, this, sig
		}
		fn, sig := p.getMember(obj, key)
		return fn, obj, sig
	case *ast.ChainExpression:
		fn, this, sig := p.callee(c.Expression)
		if fn == chainBroken {
			fn = runtime.Undefined
		}
		return fn, this, sig
	}
	fn, sig = p.eval(expr)
	return fn, runtime.Undefined, sig
}

func evalCall(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.CallExpression)
	if _, ok := n.Callee.(*ast.Super); ok {
		return p.superCall(n)
	}
	fn, this, sig := p.callee(n.Callee)
	if sig.Abrupt() || fn == chainBroken {
		return fn, sig
	}
	if n.Optional && fn.IsNullish() {
		return chainBroken, runtime.Signal{}
	}
	args, sig := p.evalArgs(n.Arguments)
	if sig.Abrupt() {
		return nil, sig
	}
	return p.callValue(fn, this, args, describeNode(n.Callee))
}

func evalNew(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.NewExpression)
	fn, sig := p.eval(n.Callee)
	if sig.Abrupt() {
		return nil, sig
	}
	args, sig := p.evalArgs(n.Arguments)
	if sig.Abrupt() {
		return nil, sig
	}
	return p.construct(fn, args, describeNode(n.Callee))
}

package interpreter

import (
	"github.com/example/jsvm/ast"
	"github.com/example/jsvm/runtime"
)

// IteratorKey is the property name standing in for Symbol.iterator.
const IteratorKey = "@@iterator"

// iterate feeds every value v produces to fn until fn returns false. Arrays
// are walked by live index, strings by code point, and objects through their
// @@iterator method. Iterators stopped early get their return method called.
func (p *Path) iterate(v *runtime.Value, what string, fn func(*runtime.Value) bool) runtime.Signal {
	switch {
	case v.Type == runtime.TypeString:
		for _, r := range v.Str {
			if !fn(runtime.NewString(string(r))) {
				return runtime.Signal{}
			}
		}
		return runtime.Signal{}
	case v.IsObject() && v.Object.OType == runtime.ObjTypeArray && !v.Object.HasOwnProperty(IteratorKey):
		arr := v.Object
		for i := 0; i < len(arr.ArrayData); i++ {
			el := arr.ArrayData[i]
			if el == nil {
				el = runtime.Undefined
			}
			if !fn(el) {
				return runtime.Signal{}
			}
		}
		return runtime.Signal{}
	case !v.IsObject():
		return p.throwSignal(runtime.ErrorNotIterable(what))
	}

	method, err := v.Object.GetWithReceiver(IteratorKey, v)
	if err != nil {
		return p.throwSignal(err)
	}
	if !method.IsCallable() {
		return p.throwSignal(runtime.ErrorNotIterable(what))
	}
	iter, sig := p.callValue(method, v, nil, what)
	if sig.Abrupt() {
		return sig
	}
	if !iter.IsObject() {
		return p.throwSignal(runtime.ErrorNotIterable(what))
	}
	next, err := iter.Object.GetWithReceiver("next", iter)
	if err != nil {
		return p.throwSignal(err)
	}
	for {
		res, sig := p.callValue(next, iter, nil, what+".next")
		if sig.Abrupt() {
			return sig
		}
		if !res.IsObject() {
			return p.throwSignal(runtime.ErrorNotIterable(what))
		}
		if res.Object.Get("done").ToBoolean() {
			return runtime.Signal{}
		}
		if !fn(res.Object.Get("value")) {
			if ret := iter.Object.Get("return"); ret.IsCallable() {
				if _, sig := p.callValue(ret, iter, nil, what+".return"); sig.Abrupt() {
					return sig
				}
			}
			return runtime.Signal{}
		}
	}
}

// collect drains an iterable into a slice.
func (p *Path) collect(v *runtime.Value, what string) ([]*runtime.Value, runtime.Signal) {
	var out []*runtime.Value
	sig := p.iterate(v, what, func(el *runtime.Value) bool {
		out = append(out, el)
		return true
	})
	return out, sig
}

// describeNode renders a callee or operand for error messages.
func describeNode(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Identifier:
		return n.Name
	case *ast.ThisExpression:
		return "this"
	case *ast.Super:
		return "super"
	case *ast.MemberExpression:
		obj := describeNode(n.Object)
		if !n.Computed {
			if id, ok := n.Property.(*ast.Identifier); ok {
				return obj + "." + id.Name
			}
		}
		if s, ok := n.Property.(*ast.StringLiteral); ok {
			return obj + "." + s.Value
		}
		return obj + "[...]"
	case *ast.CallExpression:
		return describeNode(n.Callee) + "(...)"
	case *ast.ChainExpression:
		return describeNode(n.Expression)
	case *ast.StringLiteral:
		return `"` + n.Value + `"`
	case *ast.NumericLiteral:
		return runtime.NumberToString(n.Value)
	case *ast.NullLiteral:
		return "null"
	case *ast.ArrayExpression:
		return "array"
	case *ast.ObjectExpression:
		return "object"
	case *ast.FunctionExpression, *ast.ArrowFunctionExpression:
		return "function"
	}
	return "expression"
}

package builtins

import (
	"fmt"

	"github.com/example/jsvm/runtime"
)

func (l *lib) createFunctionConstructor() *runtime.Object {
	proto := l.realm.FunctionPrototype

	l.setMethod(proto, "call", 1, functionCall)
	l.setMethod(proto, "apply", 2, functionApply)
	l.setMethod(proto, "bind", 1, l.functionBind)
	l.setMethod(proto, "toString", 0, functionToString)

	return l.newConstructor("Function", 1, proto, functionConstructorCall, functionConstructorCall)
}

// functionConstructorCall refuses to compile source at run time: the
// sandbox has no access to the parser.
func functionConstructorCall(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	return nil, fmt.Errorf("EvalError: Code generation from strings disallowed for this context")
}

func functionCall(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	var rest []*runtime.Value
	if len(args) > 1 {
		rest = args[1:]
	}
	return callFunction(this, argAt(args, 0), rest...)
}

func functionApply(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	list := argAt(args, 1)
	var callArgs []*runtime.Value
	switch {
	case list.IsNullish():
	case list.IsObject():
		n := int(list.Object.Get("length").ToNumber())
		callArgs = make([]*runtime.Value, n)
		for i := range callArgs {
			callArgs[i] = list.Object.Get(fmt.Sprint(i))
		}
	default:
		return nil, fmt.Errorf("TypeError: CreateListFromArrayLike called on non-object")
	}
	return callFunction(this, argAt(args, 0), callArgs...)
}

func (l *lib) functionBind(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if !this.IsCallable() {
		return nil, fmt.Errorf("TypeError: Bind must be called on a function")
	}
	target := this
	boundThis := argAt(args, 0)
	var bound []*runtime.Value
	if len(args) > 1 {
		bound = append(bound, args[1:]...)
	}
	withBound := func(extra []*runtime.Value) []*runtime.Value {
		return append(append([]*runtime.Value(nil), bound...), extra...)
	}

	length := target.Object.Get("length").ToNumber() - float64(len(bound))
	if length < 0 {
		length = 0
	}
	fn := l.newFuncObject("bound "+target.Object.Get("name").ToString(), int(length), func(_ *runtime.Value, callArgs []*runtime.Value) (*runtime.Value, error) {
		return callFunction(target, boundThis, withBound(callArgs)...)
	})
	if target.Object.Constructor != nil {
		fn.Constructor = func(_ *runtime.Value, callArgs []*runtime.Value) (*runtime.Value, error) {
			return target.Object.Constructor(runtime.Undefined, withBound(callArgs))
		}
	}
	return runtime.NewObject(fn), nil
}

func functionToString(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if !this.IsCallable() {
		return nil, fmt.Errorf("TypeError: Function.prototype.toString requires that 'this' be a Function")
	}
	return runtime.NewString(this.ToString()), nil
}
